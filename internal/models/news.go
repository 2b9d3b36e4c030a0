package models

import "time"

// Query is the analyzed form of the user's question. Built once per
// invocation and never mutated afterwards.
type Query struct {
	// Raw is the original string, preserved for display and logging.
	Raw string
	// Normalized is lowercase with whitespace collapsed; used for matching.
	Normalized string
	// Keywords are the extracted tokens in first-occurrence order, with
	// duplicates and stop-words removed.
	Keywords []string
}

// Bare reports whether no keywords survived extraction ("any news today?").
func (q Query) Bare() bool {
	return len(q.Keywords) == 0
}

// NewsItem is one normalized candidate story from the provider.
type NewsItem struct {
	Title  string
	Body   string
	Link   string
	Source string
	// Published is the zero time when the provider omitted a timestamp.
	Published time.Time
	// Hint is the provider's own relevance number when it supplies one.
	// Informational only; local ranking never trusts it.
	Hint float64
}

// RankedItem pairs a NewsItem with the locally computed relevance score
// and a recency flag. Score is always >= 0.
type RankedItem struct {
	NewsItem
	Score  float64
	Recent bool
}
