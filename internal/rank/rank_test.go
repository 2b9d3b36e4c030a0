package rank_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nightdesk/news-agent/internal/models"
	"github.com/nightdesk/news-agent/internal/rank"
)

// Midday in the local zone keeps the same-calendar-day assertions stable
// regardless of where the tests run.
var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRanker() *rank.Ranker {
	return &rank.Ranker{
		TitleWeight:  2,
		BodyWeight:   1,
		RecencyBonus: 1,
		Staleness:    48 * time.Hour,
		Now:          func() time.Time { return now },
	}
}

func query(keywords ...string) models.Query {
	return models.Query{Raw: "q", Normalized: "q", Keywords: keywords}
}

func TestRankScoresTitleOverBody(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Budget talks stall", Body: "The chip shortage was also discussed.", Published: now},
		{Title: "Chip factory opens", Body: "A new plant begins production.", Published: now},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.Len(t, ranked, 2)

	// Title hit (2) beats body hit (1); both get the recency bonus.
	require.Equal(t, "Chip factory opens", ranked[0].Title)
	require.InDelta(t, 3.0, ranked[0].Score, 1e-9)
	require.Equal(t, "Budget talks stall", ranked[1].Title)
	require.InDelta(t, 2.0, ranked[1].Score, 1e-9)
	require.True(t, ranked[0].Recent)
}

func TestRankDropsZeroScoreNonRecent(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Unrelated story", Body: "Nothing to see.", Published: now.Add(-30 * time.Hour)},
		{Title: "Also unrelated, but from today", Published: now.Add(-time.Hour)},
		{Title: "Undated and unrelated"},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.Len(t, ranked, 1)
	require.Equal(t, "Also unrelated, but from today", ranked[0].Title)
	require.True(t, ranked[0].Recent)
}

func TestRankOutputInvariant(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Chip news", Published: now.Add(-40 * time.Hour)},
		{Title: "Old chip news", Published: now.Add(-72 * time.Hour)},
		{Title: "Filler", Body: "filler text", Published: now.Add(-26 * time.Hour)},
		{Title: "Today filler", Published: now},
		{Title: "Undated chip update"},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.NotEmpty(t, ranked)
	for _, item := range ranked {
		require.True(t, item.Score > 0 || item.Recent, "item %q violates score/recency invariant", item.Title)
	}
}

func TestRankExcludesStaleRegardlessOfScore(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Chip chip chip", Body: "chip everywhere", Published: now.Add(-72 * time.Hour)},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.Empty(t, ranked)
}

func TestRankBareQueryUsesStalenessOnly(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Yesterday story", Published: now.Add(-26 * time.Hour)},
		{Title: "Ancient story", Published: now.Add(-80 * time.Hour)},
		{Title: "Undated story"},
		{Title: "Fresh story", Published: now.Add(-time.Hour)},
	}

	ranked := testRanker().Rank(discardLogger(), query(), items)
	require.Len(t, ranked, 2)
	// Bonus-only scores; newer first.
	require.Equal(t, "Fresh story", ranked[0].Title)
	require.Equal(t, "Yesterday story", ranked[1].Title)
}

func TestRankStableOrderOnTies(t *testing.T) {
	ts := now.Add(-time.Hour)
	items := []models.NewsItem{
		{Title: "First chip story", Published: ts},
		{Title: "Second chip story", Published: ts},
		{Title: "Third chip story", Published: ts},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.Len(t, ranked, 3)
	require.Equal(t, "First chip story", ranked[0].Title)
	require.Equal(t, "Second chip story", ranked[1].Title)
	require.Equal(t, "Third chip story", ranked[2].Title)
}

func TestRankNewerBreaksScoreTies(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Chip story from this morning", Published: now.Add(-5 * time.Hour)},
		{Title: "Chip story from just now", Published: now.Add(-time.Minute)},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.Len(t, ranked, 2)
	require.Equal(t, "Chip story from just now", ranked[0].Title)
}

func TestRankUndatedSortsAfterDated(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Undated chip story"},
		{Title: "Dated chip story", Published: now.Add(-30 * time.Hour)},
	}

	ranked := testRanker().Rank(discardLogger(), query("chip"), items)
	require.Len(t, ranked, 2)
	require.Equal(t, "Dated chip story", ranked[0].Title)
	require.Equal(t, "Undated chip story", ranked[1].Title)
}

func TestRankRecencyWindow(t *testing.T) {
	r := testRanker()
	r.RecencyWindow = 12 * time.Hour

	items := []models.NewsItem{
		// Late yesterday: outside the calendar day but inside the window.
		{Title: "Filler", Body: "none", Published: now.Add(-16 * time.Hour)},
	}

	ranked := r.Rank(discardLogger(), query("chip"), items)
	require.Empty(t, ranked)

	r.RecencyWindow = 18 * time.Hour
	ranked = r.Rank(discardLogger(), query("chip"), items)
	require.Len(t, ranked, 1)
	require.True(t, ranked[0].Recent)
}

func TestRankEmptyInput(t *testing.T) {
	require.Empty(t, testRanker().Rank(discardLogger(), query("chip"), nil))
	require.Empty(t, testRanker().Rank(discardLogger(), query("chip"), []models.NewsItem{}))
}
