package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
	indexmock "github.com/poiesic/lectern/index/mock"
)

func vectorlessHit(id string) index.Hit {
	return index.Hit{
		ID: id,
		Segment: core.Segment{
			DocID: id,
			Text:  "نص بدون متجه " + id,
			Start: 5,
			End:   25,
		},
	}
}

func TestNewEnricher(t *testing.T) {
	t.Run("requires client", func(t *testing.T) {
		_, err := NewEnricher(nil, aimock.NewMockEmbedder(), "segments")
		assert.ErrorIs(t, err, ErrClientRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewEnricher(indexmock.NewMockClient(), nil, "segments")
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("rejects non-positive retries", func(t *testing.T) {
		_, err := NewEnricher(indexmock.NewMockClient(), aimock.NewMockEmbedder(), "segments",
			WithEnrichRetries(0, time.Millisecond))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to enrich", func(t *testing.T) {
		client := indexmock.NewMockClient()
		enricher, err := NewEnricher(client, aimock.NewMockEmbedder(), "segments")
		require.NoError(t, err)

		processed, err := enricher.Enrich(ctx)
		require.NoError(t, err)
		assert.Zero(t, processed)
		assert.Empty(t, client.SearchCalls())
	})

	t.Run("embeds and re-indexes vectorless segments", func(t *testing.T) {
		client := indexmock.NewMockClient()
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			return 3, nil
		}
		fetches := 0
		client.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
			fetches++
			if fetches == 1 {
				return &index.Result{Hits: []index.Hit{
					vectorlessHit("a"), vectorlessHit("b"), vectorlessHit("c"),
				}}, nil
			}
			return &index.Result{}, nil
		}

		enricher, err := NewEnricher(client, aimock.NewMockEmbedder(), "segments")
		require.NoError(t, err)

		processed, err := enricher.Enrich(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, processed)

		bulks := client.BulkCalls()
		require.Len(t, bulks, 1)
		for _, doc := range bulks[0] {
			assert.NotEmpty(t, doc.Segment.Vector)
		}
	})

	t.Run("embedding failure aborts with processed count", func(t *testing.T) {
		client := indexmock.NewMockClient()
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			return 2, nil
		}
		client.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
			return &index.Result{Hits: []index.Hit{vectorlessHit("a")}}, nil
		}

		embedder := aimock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("model offline")
		}

		enricher, err := NewEnricher(client, embedder, "segments",
			WithEnrichRetries(2, time.Millisecond))
		require.NoError(t, err)

		processed, err := enricher.Enrich(ctx)
		require.Error(t, err)
		assert.Zero(t, processed)
		assert.Equal(t, 2, embedder.CallCount(), "retried once")
	})

	t.Run("embedder receives normalized text", func(t *testing.T) {
		client := indexmock.NewMockClient()
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			return 1, nil
		}
		fetches := 0
		client.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
			fetches++
			if fetches == 1 {
				hit := vectorlessHit("a")
				hit.Segment.Text = "الصَّلاة"
				return &index.Result{Hits: []index.Hit{hit}}, nil
			}
			return &index.Result{}, nil
		}

		var embedded []string
		embedder := aimock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			embedded = texts
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.1, 0.2}
			}
			return vectors, nil
		}

		enricher, err := NewEnricher(client, embedder, "segments")
		require.NoError(t, err)

		_, err = enricher.Enrich(ctx)
		require.NoError(t, err)
		require.Len(t, embedded, 1)
		assert.Equal(t, "الصلاه", embedded[0], "diacritics stripped, taa marbuta folded")
	})
}
