package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nightdesk/news-agent/internal/analyze"
	"github.com/nightdesk/news-agent/internal/answer"
	"github.com/nightdesk/news-agent/internal/config"
	"github.com/nightdesk/news-agent/internal/feed"
	"github.com/nightdesk/news-agent/internal/models"
	"github.com/nightdesk/news-agent/internal/rank"
)

type stubRetriever struct {
	items  []models.NewsItem
	err    error
	called bool
}

func (s *stubRetriever) Retrieve(_ context.Context) ([]models.NewsItem, error) {
	s.called = true
	return s.items, s.err
}

func testSetup() (*slog.Logger, *config.Agent, *rank.Ranker) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Agent{
		TitleWeight:  2,
		BodyWeight:   1,
		RecencyBonus: 1,
		Staleness:    48 * time.Hour,
		TopN:         3,
	}
	return log, cfg, rank.New(cfg)
}

func TestRunAnswersTopicalQuery(t *testing.T) {
	log, cfg, ranker := testSetup()
	retriever := &stubRetriever{items: []models.NewsItem{
		{Title: "Tech giant unveils new chip", Published: time.Now()},
		{Title: "Gardening tips for fall", Published: time.Now().Add(-72 * time.Hour)},
	}}

	out, err := run(context.Background(), log, cfg, ranker, retriever, "Are there any tech headlines today?")
	require.NoError(t, err)
	require.Contains(t, out, "Tech giant unveils new chip")
	require.Contains(t, out, "Are there any tech headlines today?")
	require.NotContains(t, out, "Gardening")
}

func TestRunEmptyProviderResult(t *testing.T) {
	log, cfg, ranker := testSetup()
	retriever := &stubRetriever{}

	out, err := run(context.Background(), log, cfg, ranker, retriever, "news")
	require.NoError(t, err)
	require.Equal(t, answer.NoNewsMessage, out)
}

func TestRunEmptyQuerySkipsProvider(t *testing.T) {
	log, cfg, ranker := testSetup()
	retriever := &stubRetriever{}

	_, err := run(context.Background(), log, cfg, ranker, retriever, "   ")
	require.ErrorIs(t, err, analyze.ErrEmptyQuery)
	require.False(t, retriever.called, "provider must not be called for an empty query")
}

func TestRunProviderFailure(t *testing.T) {
	log, cfg, ranker := testSetup()
	retriever := &stubRetriever{err: feed.ErrUnavailable}

	out, err := run(context.Background(), log, cfg, ranker, retriever, "any headlines")
	require.ErrorIs(t, err, feed.ErrUnavailable)
	require.Contains(t, err.Error(), "retrieve news")
	require.Empty(t, out, "no answer may be produced on provider failure")
}

func TestRunUnexpectedErrorNamesStage(t *testing.T) {
	log, cfg, ranker := testSetup()
	retriever := &stubRetriever{err: errors.New("connection reset")}

	_, err := run(context.Background(), log, cfg, ranker, retriever, "any headlines")
	require.Error(t, err)
	require.Contains(t, err.Error(), "retrieve news")
}

func TestRunFiltersEverything(t *testing.T) {
	log, cfg, ranker := testSetup()
	retriever := &stubRetriever{items: []models.NewsItem{
		{Title: "Stale story", Published: time.Now().Add(-96 * time.Hour)},
	}}

	out, err := run(context.Background(), log, cfg, ranker, retriever, "chip shortage")
	require.NoError(t, err)
	require.Equal(t, answer.NoNewsMessage, out)
}
