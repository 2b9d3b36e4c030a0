package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nightdesk/news-agent/internal/config"
	"github.com/nightdesk/news-agent/internal/logger"
)

// feedstub serves provider-shaped sensor states with fresh timestamps so
// the agent can be exercised locally without the real feed.
func main() {
	log := logger.New("feedstub", logger.ModeDebug, "")
	cfg, err := config.LoadStub()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{log: log, items: cfg.Items}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/api/states/{sensor}", srv.handleState)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("feed stub starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log   *slog.Logger
	items int
}

type stubItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PubDate     string  `json:"pubDate"`
	Link        string  `json:"link"`
	Relevance   float64 `json:"relevance"`
}

var canned = []stubItem{
	{Title: "Tech giant unveils new chip", Description: "The flagship processor promises double the performance of last year's model.", Relevance: 0.9},
	{Title: "City council approves transit expansion", Description: "Construction on the new line is expected to start next spring.", Relevance: 0.6},
	{Title: "Storm warning issued for the weekend", Description: "Forecasters expect heavy snowfall across the region starting Saturday.", Relevance: 0.7},
	{Title: "Local team clinches playoff berth", Description: "A late goal sealed the win in front of a sold-out arena.", Relevance: 0.4},
	{Title: "Markets close higher on earnings beat", Description: "Tech shares led the rally after stronger than expected quarterly results.", Relevance: 0.5},
	{Title: "University opens robotics research lab", Description: "The facility will host graduate programs in automation and AI.", Relevance: 0.3},
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	sensor := chi.URLParam(r, "sensor")
	now := time.Now()

	n := s.items
	if n > len(canned) {
		n = len(canned)
	}

	items := make([]stubItem, n)
	for i := 0; i < n; i++ {
		items[i] = canned[i]
		items[i].PubDate = now.Add(-time.Duration(i) * time.Hour).Format(time.RFC1123Z)
		items[i].Link = fmt.Sprintf("https://news.example/%s/%d", sensor, i+1)
	}

	payload := map[string]any{
		"entity_id": sensor,
		"state":     now.Format(time.RFC3339),
		"attributes": map[string]any{
			"rss": map[string]any{
				"channel": map[string]any{
					"item": items,
				},
			},
		},
	}

	s.log.Debug("serving sensor state", slog.String("sensor", sensor), slog.Int("items", n))
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
