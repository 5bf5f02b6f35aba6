package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocIDFromContent generates a deterministic document ID from text content
// using BLAKE2b hashing. Identical content always produces the same ID, so
// re-ingesting a transcript overwrites rather than duplicates.
func DocIDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Mode selects a search strategy. The zero value is invalid; callers that
// accept a mode string must go through ParseMode so unknown modes are
// rejected instead of silently ignored.
type Mode int

const (
	// ModeLexical ranks by plain term overlap on the text field.
	ModeLexical Mode = iota + 1
	// ModeEnhanced ranks by the multi-clause boosted lexical query
	// (phrase, fuzzy, synonym, cross-field, wildcard clauses).
	ModeEnhanced
	// ModeSemantic combines the enhanced lexical query with a
	// vector-similarity clause over segment embeddings.
	ModeSemantic
)

// String returns the wire label for the mode, as reported in responses.
func (m Mode) String() string {
	switch m {
	case ModeLexical:
		return "lexical"
	case ModeEnhanced:
		return "enhanced"
	case ModeSemantic:
		return "semantic"
	}
	return "unknown"
}

// ParseMode maps a wire label to a Mode. An empty string selects
// ModeEnhanced, the default strategy. Unknown labels are an error.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "":
		return ModeEnhanced, nil
	case "lexical":
		return ModeLexical, nil
	case "enhanced":
		return ModeEnhanced, nil
	case "semantic":
		return ModeSemantic, nil
	}
	return 0, ErrUnknownMode
}

// Segment is the atomic retrievable unit: one time-stamped span of
// transcribed speech. Segments are immutable once indexed and owned by
// the external index service; this struct mirrors the persisted schema.
type Segment struct {
	DocID         string    `json:"doc_id,omitempty"`
	Text          string    `json:"text"`
	ProcessedText string    `json:"processed_text,omitempty"`
	Start         float64   `json:"start"`
	End           float64   `json:"end"`
	VideoLink     string    `json:"video_link"`
	GroupID       string    `json:"group_id,omitempty"`
	Sequence      int       `json:"sequence,omitempty"`
	Question      string    `json:"question,omitempty"`
	Answer        string    `json:"answer,omitempty"`
	Vector        []float32 `json:"vector,omitempty"`
}

// Duration returns the span length in seconds.
func (s *Segment) Duration() float64 {
	return s.End - s.Start
}

// ScoredHit is one ranked hit from the index service.
// Scores are not comparable across modes.
type ScoredHit struct {
	SegmentID string
	Score     float64
	Mode      Mode
}

// GroupItem is a segment inside a reconstructed conversation group,
// annotated with whether it was among the initial ranked hits.
type GroupItem struct {
	Segment
	IsMatch bool
	Score   float64 // relevance score when IsMatch, else 0
}

// ConversationGroup is an ordered multi-turn context reconstructed from
// independently indexed segments sharing a group_id. Items are sorted by
// Sequence ascending.
type ConversationGroup struct {
	GroupID string
	Items   []GroupItem
}

// Checkpoint records how far an ingestion or enrichment stage has
// progressed, so an interrupted run can resume.
type Checkpoint struct {
	Stage     string
	Offset    int64
	UpdatedAt time.Time
}
