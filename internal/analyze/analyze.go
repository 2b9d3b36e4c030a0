package analyze

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nightdesk/news-agent/internal/models"
)

// ErrEmptyQuery signals that the trimmed query was empty. The pipeline
// cannot proceed without a question.
var ErrEmptyQuery = errors.New("query is empty")

var (
	whitespace = regexp.MustCompile(`\s+`)
	boundary   = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Words that carry no topical signal: articles, prepositions, pronouns,
// and the filler that question-shaped queries are padded with.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"to": {}, "in": {}, "on": {}, "at": {}, "of": {}, "for": {},
	"from": {}, "with": {}, "about": {}, "by": {},
	"i": {}, "me": {}, "my": {}, "you": {}, "your": {}, "we": {}, "us": {},
	"it": {}, "its": {}, "they": {}, "them": {}, "their": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"do": {}, "does": {}, "did": {},
	"there": {}, "here": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"any": {}, "some": {}, "and": {}, "or": {}, "what": {}, "which": {},
	"who": {}, "how": {}, "when": {}, "where": {},
	"tell": {}, "give": {}, "show": {}, "please": {},
}

// Analyze turns the raw query string into its structured form: the
// original text, a normalized matching form, and the extracted keyword
// tokens in first-occurrence order.
func Analyze(log *slog.Logger, raw string) (models.Query, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.Query{}, ErrEmptyQuery
	}

	normalized := strings.ToLower(whitespace.ReplaceAllString(trimmed, " "))

	seen := make(map[string]struct{})
	var keywords []string
	for _, token := range boundary.Split(normalized, -1) {
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	q := models.Query{Raw: raw, Normalized: normalized, Keywords: keywords}

	log.Debug("query analyzed",
		slog.String("normalized", q.Normalized),
		slog.Any("keywords", q.Keywords),
	)
	log.Info("query analysis complete", slog.Int("keywords", len(q.Keywords)))

	return q, nil
}
