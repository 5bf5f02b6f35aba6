package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lectern/ai"
	aimock "github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
	indexmock "github.com/poiesic/lectern/index/mock"
)

func segmentHit(id string, score float64) index.Hit {
	return index.Hit{
		ID:    id,
		Score: score,
		Segment: core.Segment{
			DocID:     id,
			Text:      "نص تجريبي " + id,
			Start:     30,
			End:       45,
			VideoLink: "https://www.youtube.com/watch?v=vid_" + id,
		},
	}
}

func fixedResult(hits ...index.Hit) *index.Result {
	return &index.Result{Hits: hits, Total: len(hits)}
}

func TestNewSearcher(t *testing.T) {
	t.Run("requires client", func(t *testing.T) {
		_, err := NewSearcher(nil, "segments")
		assert.ErrorIs(t, err, ErrClientRequired)
	})

	t.Run("requires index name", func(t *testing.T) {
		_, err := NewSearcher(indexmock.NewMockClient(), "")
		assert.ErrorIs(t, err, ErrIndexNameRequired)
	})
}

func TestSearchValidation(t *testing.T) {
	ctx := context.Background()
	client := indexmock.NewMockClient()
	searcher, err := NewSearcher(client, "segments")
	require.NoError(t, err)

	t.Run("empty query rejected before any upstream call", func(t *testing.T) {
		_, err := searcher.Search(ctx, &Request{Query: "   "})
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.Empty(t, client.SearchCalls())
		assert.Empty(t, client.CountCalls())
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		_, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.Mode(42)})
		assert.ErrorIs(t, err, core.ErrUnknownMode)
	})
}

func TestSearchSizeClamping(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero gets default", 0, DefaultSize},
		{"negative gets default", -7, DefaultSize},
		{"in range passes through", 25, 25},
		{"above cap clamps", 5000, MaxSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := indexmock.NewMockClient()
			searcher, err := NewSearcher(client, "segments")
			require.NoError(t, err)

			_, err = searcher.Search(ctx, &Request{Query: "صلاة", Size: tt.requested})
			require.NoError(t, err)

			calls := client.SearchCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].Size)
		})
	}
}

func TestSearchModes(t *testing.T) {
	ctx := context.Background()

	t.Run("default mode is enhanced", func(t *testing.T) {
		client := indexmock.NewMockClient()
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة"})
		require.NoError(t, err)
		assert.Equal(t, "enhanced", resp.ModeUsed)
	})

	t.Run("lexical mode sends plain match query", func(t *testing.T) {
		client := indexmock.NewMockClient()
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeLexical})
		require.NoError(t, err)
		assert.Equal(t, "lexical", resp.ModeUsed)

		calls := client.SearchCalls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Query, "match")
		assert.NotContains(t, calls[0].Query, "bool")
	})

	t.Run("semantic mode combines vector and lexical clauses", func(t *testing.T) {
		client := indexmock.NewMockClient()
		embedder := aimock.NewMockEmbedder()
		searcher, err := NewSearcher(client, "segments", WithEmbedder(embedder))
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeSemantic})
		require.NoError(t, err)
		assert.Equal(t, "semantic", resp.ModeUsed)
		assert.Equal(t, 1, embedder.CallCount())

		calls := client.SearchCalls()
		require.Len(t, calls, 1)
		boolQuery, ok := calls[0].Query["bool"].(map[string]any)
		require.True(t, ok)
		clauses, ok := boolQuery["should"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, clauses, 2)
		assert.Contains(t, clauses[0], "script_score")
	})

	t.Run("semantic count runs against the lexical component", func(t *testing.T) {
		client := indexmock.NewMockClient()
		searcher, err := NewSearcher(client, "segments", WithEmbedder(aimock.NewMockEmbedder()))
		require.NoError(t, err)

		_, err = searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeSemantic})
		require.NoError(t, err)

		counts := client.CountCalls()
		require.Len(t, counts, 1)
		boolQuery, ok := counts[0]["bool"].(map[string]any)
		require.True(t, ok)
		clauses, ok := boolQuery["should"].([]map[string]any)
		require.True(t, ok)
		for _, clause := range clauses {
			assert.NotContains(t, clause, "script_score")
		}
	})
}

func TestSearchEmbeddingDegradation(t *testing.T) {
	ctx := context.Background()

	t.Run("embedder failure silently degrades to enhanced", func(t *testing.T) {
		client := indexmock.NewMockClient()
		embedder := aimock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, ai.ErrUnavailable
		}
		searcher, err := NewSearcher(client, "segments", WithEmbedder(embedder))
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeSemantic})
		require.NoError(t, err)
		assert.Equal(t, "enhanced", resp.ModeUsed)
	})

	t.Run("missing embedder degrades semantic to enhanced", func(t *testing.T) {
		client := indexmock.NewMockClient()
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeSemantic})
		require.NoError(t, err)
		assert.Equal(t, "enhanced", resp.ModeUsed)
	})
}

func TestSearchFallbackLadder(t *testing.T) {
	ctx := context.Background()

	t.Run("transient failure degrades one mode and retries once", func(t *testing.T) {
		client := indexmock.NewMockClient()
		attempts := 0
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			attempts++
			if attempts == 1 {
				return 0, index.ErrTimeout
			}
			return 3, nil
		}
		client.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
			return fixedResult(segmentHit("a", 2.0)), nil
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeEnhanced})
		require.NoError(t, err)
		assert.Equal(t, "lexical", resp.ModeUsed)
		assert.Equal(t, 2, attempts)
	})

	t.Run("repeated transient failure surfaces the error", func(t *testing.T) {
		client := indexmock.NewMockClient()
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			return 0, index.ErrConnectivity
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		_, err = searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeEnhanced})
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrConnectivity)
	})

	t.Run("failure at lexical mode surfaces without retry", func(t *testing.T) {
		client := indexmock.NewMockClient()
		attempts := 0
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			attempts++
			return 0, index.ErrTimeout
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		_, err = searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeLexical})
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrTimeout)
		assert.Equal(t, 1, attempts)
	})

	t.Run("authentication failure is never retried", func(t *testing.T) {
		client := indexmock.NewMockClient()
		attempts := 0
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			attempts++
			return 0, index.ErrAuthentication
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		_, err = searcher.Search(ctx, &Request{Query: "صلاة"})
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrAuthentication)
		assert.Equal(t, 1, attempts)
	})

	t.Run("missing index surfaces immediately", func(t *testing.T) {
		client := indexmock.NewMockClient()
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			return 0, index.ErrNotFound
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		_, err = searcher.Search(ctx, &Request{Query: "صلاة"})
		assert.ErrorIs(t, err, index.ErrNotFound)
	})

	t.Run("semantic index failure degrades to enhanced", func(t *testing.T) {
		client := indexmock.NewMockClient()
		attempts := 0
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			attempts++
			if attempts == 1 {
				return 0, index.ErrTimeout
			}
			return 1, nil
		}
		searcher, err := NewSearcher(client, "segments", WithEmbedder(aimock.NewMockEmbedder()))
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Mode: core.ModeSemantic})
		require.NoError(t, err)
		assert.Equal(t, "enhanced", resp.ModeUsed)
	})
}

func TestSearchEndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("flat results carry deep links and ordered scores", func(t *testing.T) {
		client := indexmock.NewMockClient()
		client.CountFunc = func(ctx context.Context, indexName string, q map[string]any) (int, error) {
			return 40, nil
		}
		client.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
			return fixedResult(
				segmentHit("a", 9.1),
				segmentHit("b", 7.4),
				segmentHit("c", 7.4),
				segmentHit("d", 2.0),
			), nil
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Size: 10})
		require.NoError(t, err)

		assert.LessOrEqual(t, resp.Returned, 10)
		assert.GreaterOrEqual(t, resp.Total, resp.Returned)
		assert.Equal(t, 40, resp.Total)
		assert.Positive(t, resp.QueryTime)

		require.Len(t, resp.Results, 4)
		for i, record := range resp.Results {
			assert.NotEmpty(t, record.DeepLink)
			if i > 0 {
				assert.LessOrEqual(t, record.Score, resp.Results[i-1].Score)
			}
		}
	})

	t.Run("grouped search returns groups and counts them", func(t *testing.T) {
		client := indexmock.NewMockClient()
		ranked := segmentHit("a1", 6.0)
		ranked.Segment.GroupID = "g1"
		ranked.Segment.Sequence = 1

		context1 := segmentHit("a0", 0)
		context1.Segment.GroupID = "g1"
		context1.Segment.Sequence = 0

		fetches := 0
		client.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
			fetches++
			if fetches == 1 {
				return fixedResult(ranked), nil
			}
			return fixedResult(context1, ranked), nil
		}
		searcher, err := NewSearcher(client, "segments")
		require.NoError(t, err)

		resp, err := searcher.Search(ctx, &Request{Query: "صلاة", Group: true})
		require.NoError(t, err)

		assert.Empty(t, resp.Results)
		require.Len(t, resp.Groups, 1)
		assert.Equal(t, 1, resp.Returned)
		require.Len(t, resp.Groups[0].Items, 2)
		assert.False(t, resp.Groups[0].Items[0].IsMatch)
		assert.True(t, resp.Groups[0].Items[1].IsMatch)
		assert.Equal(t, 6.0, resp.Groups[0].Items[1].Score)
	})
}

func TestSearchMonitorCallbacks(t *testing.T) {
	ctx := context.Background()

	client := indexmock.NewMockClient()
	embedder := aimock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model not loaded")
	}
	searcher, err := NewSearcher(client, "segments", WithEmbedder(embedder))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	resp, err := searcher.SearchWithMonitor(ctx, &Request{Query: "صلاة", Mode: core.ModeSemantic}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, []core.Mode{core.ModeSemantic}, monitor.attempts)
	assert.True(t, monitor.embeddingDegraded)
	assert.Equal(t, resp, monitor.finished)
}

type recordingMonitor struct {
	started           bool
	attempts          []core.Mode
	embeddingDegraded bool
	degradations      int
	finished          *Response
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(_ string, _ core.Mode) { m.started = true }
func (m *recordingMonitor) BeforeAttempt(mode core.Mode) {
	m.attempts = append(m.attempts, mode)
}
func (m *recordingMonitor) EmbeddingDegraded(_ error)            { m.embeddingDegraded = true }
func (m *recordingMonitor) ModeDegraded(_, _ core.Mode, _ error) { m.degradations++ }
func (m *recordingMonitor) Finish(resp *Response)                { m.finished = resp }
