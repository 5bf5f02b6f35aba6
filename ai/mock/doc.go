// Package mock provides a test double implementation of ai.Embedder.
//
// MockEmbedder returns deterministic vectors derived from the text hash,
// so the same input always produces the same embedding. Custom behavior
// can be injected via function fields:
//
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, ai.ErrUnavailable
//	}
package mock
