package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Transcript is the on-disk form of one transcribed video: a source link
// and its ordered spans.
type Transcript struct {
	VideoLink string `json:"video_link"`
	Segments  []Span `json:"segment"`
}

// ParseTranscript decodes a transcript document from r.
func ParseTranscript(r io.Reader) (*Transcript, error) {
	var t Transcript
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTranscript, err)
	}
	if t.VideoLink == "" {
		return nil, fmt.Errorf("%w: missing video link", ErrInvalidTranscript)
	}
	if len(t.Segments) == 0 {
		return nil, fmt.Errorf("%w: no spans", ErrInvalidTranscript)
	}
	return &t, nil
}

// LoadTranscript reads and decodes a transcript file.
func LoadTranscript(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTranscript(f)
}
