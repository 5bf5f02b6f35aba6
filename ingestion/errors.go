package ingestion

import "errors"

var (
	// ErrClientRequired is returned when an index client is not provided.
	ErrClientRequired = errors.New("index client required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexNameRequired is returned when an index name is not provided.
	ErrIndexNameRequired = errors.New("index name required")

	// ErrInvalidMaxAttempts is returned for a non-positive retry budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrInvalidTranscript is returned for a transcript without a video
	// link or without any spans.
	ErrInvalidTranscript = errors.New("invalid transcript")
)
