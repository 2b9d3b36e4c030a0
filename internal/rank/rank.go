package rank

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/nightdesk/news-agent/internal/config"
	"github.com/nightdesk/news-agent/internal/models"
)

// Ranker scores and filters candidate items against the analyzed query.
type Ranker struct {
	TitleWeight  float64
	BodyWeight   float64
	RecencyBonus float64
	// Staleness is the age beyond which a dated item is excluded outright.
	Staleness time.Duration
	// RecencyWindow widens the "recent" check beyond the current local
	// calendar day; zero means same-day only.
	RecencyWindow time.Duration
	// Now is overridable for tests.
	Now func() time.Time
}

// New builds a Ranker from the agent configuration.
func New(cfg *config.Agent) *Ranker {
	return &Ranker{
		TitleWeight:   cfg.TitleWeight,
		BodyWeight:    cfg.BodyWeight,
		RecencyBonus:  cfg.RecencyBonus,
		Staleness:     cfg.Staleness,
		RecencyWindow: cfg.RecencyWindow,
	}
}

// Rank scores the items against the query and returns the kept subset
// ordered by descending score, newer timestamps first within a score,
// provider order last. Zero-score items outside the recency window never
// appear in the output.
//
// A query with no extractable keywords ("any news today?") switches to
// staleness-only mode: every item inside the staleness horizon counts as
// recent and keyword scores stay at zero.
func (r *Ranker) Rank(log *slog.Logger, q models.Query, items []models.NewsItem) []models.RankedItem {
	if len(items) == 0 {
		log.Info("ranking done", slog.Int("kept", 0))
		return nil
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	cutoff := now.Add(-r.Staleness)

	kept := make([]models.RankedItem, 0, len(items))
	for _, item := range items {
		dated := !item.Published.IsZero()
		stale := dated && item.Published.Before(cutoff)

		var recent bool
		if q.Bare() {
			recent = dated && !stale
		} else {
			recent = dated && r.isRecent(item.Published, now)
		}

		var score float64
		if !q.Bare() {
			score = r.TitleWeight*float64(hits(q.Keywords, item.Title)) +
				r.BodyWeight*float64(hits(q.Keywords, item.Body))
		}

		keep := !stale && (score > 0 || recent)
		if recent {
			score += r.RecencyBonus
		}

		log.Debug("scored item",
			slog.String("title", item.Title),
			slog.Float64("score", score),
			slog.Bool("recent", recent),
			slog.Bool("stale", stale),
			slog.Bool("kept", keep),
		)

		if !keep {
			continue
		}
		kept = append(kept, models.RankedItem{NewsItem: item, Score: score, Recent: recent})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		// Zero timestamps sort last; time.Time's zero value is the earliest
		// instant, so Before gives that for free.
		return kept[j].Published.Before(kept[i].Published)
	})

	log.Info("ranking done",
		slog.Int("candidates", len(items)),
		slog.Int("kept", len(kept)),
	)

	return kept
}

func (r *Ranker) isRecent(published, now time.Time) bool {
	ly, lm, ld := now.Local().Date()
	py, pm, pd := published.Local().Date()
	if ly == py && lm == pm && ld == pd {
		return true
	}
	return r.RecencyWindow > 0 && now.Sub(published) <= r.RecencyWindow
}

// hits counts how many distinct query keywords occur in the text.
// Presence, not frequency: a keyword repeated in a long body counts once.
func hits(keywords []string, text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	var n int
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
