package ingestion

import "strings"

// Span is one raw time-stamped stretch of transcribed text, before
// merging and indexing.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Merge bounds, in seconds. Spans shorter than the minimum are glued to
// their successor as long as the combined span stays under the maximum.
const (
	DefaultMinSpanDuration = 15.0
	DefaultMaxSpanDuration = 120.0
)

// MergeShortSpans merges adjacent short spans into longer, more readable
// chunks. A span shorter than minDuration absorbs its successor when the
// combined duration stays within maxDuration; otherwise it is emitted as
// is. The input order is preserved and the input slice is not modified.
func MergeShortSpans(spans []Span, minDuration, maxDuration float64) []Span {
	if len(spans) == 0 {
		return nil
	}

	merged := make([]Span, 0, len(spans))
	current := spans[0]

	for _, next := range spans[1:] {
		currentDuration := current.End - current.Start
		combinedDuration := next.End - current.Start

		if currentDuration < minDuration && combinedDuration <= maxDuration {
			current.End = next.End
			current.Text += " " + strings.TrimSpace(next.Text)
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	return append(merged, current)
}
