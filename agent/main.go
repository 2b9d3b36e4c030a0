package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/nightdesk/news-agent/internal/analyze"
	"github.com/nightdesk/news-agent/internal/answer"
	"github.com/nightdesk/news-agent/internal/config"
	"github.com/nightdesk/news-agent/internal/feed"
	"github.com/nightdesk/news-agent/internal/logger"
	"github.com/nightdesk/news-agent/internal/models"
	"github.com/nightdesk/news-agent/internal/rank"
)

type newsRetriever interface {
	Retrieve(ctx context.Context) ([]models.NewsItem, error)
}

func main() {
	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: news-agent <query> [info|debug]")
		os.Exit(2)
	}
	rawQuery := os.Args[1]

	var modeArg string
	if len(os.Args) > 2 {
		modeArg = os.Args[2]
	}
	mode, err := logger.ParseMode(modeArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "news-agent: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.LoadAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "news-agent: config: %v\n", err)
		os.Exit(2)
	}

	log := logger.New("news-agent", mode, cfg.LogFile)
	log.Info("starting", slog.String("query", rawQuery), slog.String("mode", string(mode)))

	client := feed.New(cfg, log)
	ranker := rank.New(cfg)

	out, err := run(context.Background(), log, cfg, ranker, client, rawQuery)
	if err != nil {
		log.Error("pipeline failed", slog.Any("err", err))
		log.Debug("failure context",
			slog.String("query", rawQuery),
			slog.String("cause", err.Error()),
		)
		fmt.Fprintf(os.Stderr, "news-agent: %v\n", err)
		if errors.Is(err, analyze.ErrEmptyQuery) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	fmt.Println(out)
}

// run walks the pipeline stages in order: analyze, retrieve, rank,
// compose. Each wrapped error names the stage that failed.
func run(ctx context.Context, log *slog.Logger, cfg *config.Agent, ranker *rank.Ranker, retriever newsRetriever, rawQuery string) (string, error) {
	q, err := analyze.Analyze(log, rawQuery)
	if err != nil {
		return "", fmt.Errorf("analyze query: %w", err)
	}

	items, err := retriever.Retrieve(ctx)
	if err != nil {
		return "", fmt.Errorf("retrieve news: %w", err)
	}

	ranked := ranker.Rank(log, q, items)

	return answer.Compose(log, q, ranked, cfg.TopN), nil
}
