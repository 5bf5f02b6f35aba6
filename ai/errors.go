package ai

import "errors"

// ErrUnavailable indicates the embedding service could not produce a
// vector. Semantic search treats it as a cue to fall back to the
// enhanced lexical mode rather than fail the request.
var ErrUnavailable = errors.New("embedding service unavailable")
