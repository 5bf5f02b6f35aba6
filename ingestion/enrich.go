package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/arabic"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
	"github.com/poiesic/lectern/storage"
)

const (
	enrichStage           = "enrich"
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
)

// Enricher back-fills vector embeddings for indexed segments that do not
// carry one yet. It works in batches and records a checkpoint after each
// batch, so an interrupted run can be resumed and its progress inspected.
type Enricher struct {
	client         index.Client
	embedder       ai.Embedder
	checkpoints    storage.CheckpointRepository
	indexName      string
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progressWriter io.Writer
	logger         *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher) error

// WithEnrichBatchSize sets how many segments are embedded per batch.
// Default is 100.
func WithEnrichBatchSize(size int) EnricherOption {
	return func(e *Enricher) error {
		if size < 1 {
			size = 1
		}
		e.batchSize = size
		return nil
	}
}

// WithEnrichRetries sets the embedding retry budget and base backoff.
func WithEnrichRetries(maxRetries int, baseDelay time.Duration) EnricherOption {
	return func(e *Enricher) error {
		if maxRetries <= 0 {
			return ErrInvalidMaxAttempts
		}
		e.maxRetries = maxRetries
		e.retryBaseDelay = baseDelay
		return nil
	}
}

// WithEnrichCheckpoints enables resumable progress tracking.
func WithEnrichCheckpoints(repo storage.CheckpointRepository) EnricherOption {
	return func(e *Enricher) error {
		e.checkpoints = repo
		return nil
	}
}

// WithProgressWriter enables progress reporting to the writer,
// typically os.Stderr.
func WithProgressWriter(w io.Writer) EnricherOption {
	return func(e *Enricher) error {
		e.progressWriter = w
		return nil
	}
}

// NewEnricher creates an enricher over the given index.
func NewEnricher(client index.Client, embedder ai.Embedder, indexName string, opts ...EnricherOption) (*Enricher, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if indexName == "" {
		return nil, ErrIndexNameRequired
	}

	e := &Enricher{
		client:         client,
		embedder:       embedder,
		indexName:      indexName,
		batchSize:      defaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "enricher"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// missingVectorQuery selects segments that have no stored embedding.
func missingVectorQuery() map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"must_not": []map[string]any{
				{"exists": map[string]any{"field": "vector"}},
			},
		},
	}
}

// Enrich embeds every segment that is still missing a vector and returns
// how many segments were updated. Embedding calls are retried with
// exponential backoff; a batch that cannot make progress aborts the run
// with the processed count so far.
func (e *Enricher) Enrich(ctx context.Context) (int, error) {
	remaining, err := e.client.Count(ctx, e.indexName, missingVectorQuery())
	if err != nil {
		return 0, err
	}
	if remaining == 0 {
		e.logger.Info("no segments to enrich")
		return 0, nil
	}

	e.logger.Info("enriching segments", "remaining", remaining, "batchSize", e.batchSize)

	var tracker *ProgressTracker
	if e.progressWriter != nil {
		tracker = NewProgressTracker(e.progressWriter, remaining, e.batchSize)
		tracker.Start()
	}

	processed := 0
	for {
		res, err := e.client.Search(ctx, e.indexName, &index.Request{
			Query: missingVectorQuery(),
			Size:  e.batchSize,
		})
		if err != nil {
			return processed, err
		}
		if len(res.Hits) == 0 {
			break
		}

		indexed, err := e.enrichBatch(ctx, res.Hits)
		if err != nil {
			return processed, err
		}
		if indexed == 0 {
			return processed, fmt.Errorf("enrichment made no progress on %d segments", len(res.Hits))
		}

		processed += indexed
		if tracker != nil {
			tracker.Increment(indexed)
		}

		if e.checkpoints != nil {
			err := e.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
				Stage:  enrichStage,
				Offset: int64(processed),
			})
			if err != nil {
				e.logger.Error("checkpoint update failed", "stage", enrichStage, "err", err)
			}
		}
	}

	if tracker != nil {
		tracker.Finish()
	}
	if e.checkpoints != nil {
		if err := e.checkpoints.ClearCheckpoint(ctx, enrichStage); err != nil {
			e.logger.Error("checkpoint clear failed", "stage", enrichStage, "err", err)
		}
	}

	e.logger.Info("enrichment complete", "processed", processed)
	return processed, nil
}

// enrichBatch embeds one batch of segments and re-indexes them with their
// vectors attached. The embedder is called with normalized text.
func (e *Enricher) enrichBatch(ctx context.Context, hits []index.Hit) (int, error) {
	texts := make([]string, len(hits))
	for i := range hits {
		if hits[i].Segment.ProcessedText != "" {
			texts[i] = hits[i].Segment.ProcessedText
		} else {
			texts[i] = arabic.Normalize(hits[i].Segment.Text)
		}
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = e.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, e.maxRetries, e.retryBaseDelay)
	if err != nil {
		return 0, fmt.Errorf("embedding batch after %d attempts: %w", e.maxRetries, err)
	}
	if len(vectors) != len(hits) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(hits), len(vectors))
	}

	docs := make([]index.Document, len(hits))
	for i := range hits {
		segment := hits[i].Segment
		segment.Vector = vectors[i]
		docs[i] = index.Document{ID: hits[i].ID, Segment: &segment}
	}

	res, err := e.client.Bulk(ctx, e.indexName, docs)
	if err != nil {
		return 0, err
	}
	if res.Failed > 0 {
		e.logger.Warn("some segments failed to update", "failed", res.Failed)
	}
	return res.Indexed, nil
}
