package answer

import (
	"log/slog"
	"strings"

	"github.com/nightdesk/news-agent/internal/models"
)

// NoNewsMessage is the fixed answer for an empty ranked set. Reaching it
// is a successful outcome, not an error.
const NoNewsMessage = "No relevant news found for your query right now."

// summaryWords caps how much of an item body makes it into the answer.
const summaryWords = 24

// Compose renders the ranked set into the final answer text: the original
// query echoed on the first line, then up to topN "title — summary" entries.
func Compose(log *slog.Logger, q models.Query, ranked []models.RankedItem, topN int) string {
	if len(ranked) == 0 {
		log.Info("composed answer", slog.Int("items", 0))
		return NoNewsMessage
	}

	if topN <= 0 {
		topN = 3
	}
	if topN > len(ranked) {
		topN = len(ranked)
	}

	var b strings.Builder
	b.WriteString("News for: ")
	b.WriteString(strings.TrimSpace(q.Raw))
	b.WriteString("\n")

	for _, item := range ranked[:topN] {
		b.WriteString("- ")
		b.WriteString(item.Title)
		if summary := shorten(item.Body, summaryWords); summary != "" {
			b.WriteString(" — ")
			b.WriteString(summary)
		}
		b.WriteString("\n")
	}

	log.Info("composed answer", slog.Int("items", topN))

	return strings.TrimRight(b.String(), "\n")
}

// shorten reduces a body to its first sentence, capped at maxWords.
// Returns empty string for an empty body.
func shorten(body string, maxWords int) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	sentence := body
	if end := strings.IndexAny(body, ".!?"); end > 0 {
		sentence = strings.TrimSpace(body[:end])
	}

	words := strings.Fields(sentence)
	if len(words) == 0 {
		return ""
	}
	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}
	return strings.Join(words, " ")
}
