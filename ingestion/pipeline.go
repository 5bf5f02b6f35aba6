package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/lectern/arabic"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
	"github.com/poiesic/lectern/results"
	"github.com/poiesic/lectern/storage"
)

const defaultBatchSize = 100

// Pipeline loads transcripts into the index in concurrent bulk batches.
type Pipeline struct {
	client      index.Client
	checkpoints storage.CheckpointRepository
	pool        *ants.Pool
	indexName   string
	batchSize   int
	minSpan     float64
	maxSpan     float64
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent bulk requests.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many segments go into one bulk request.
// Default is 100.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithCheckpoints enables resumable ingestion backed by the repository.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(p *Pipeline) error {
		p.checkpoints = repo
		return nil
	}
}

// WithSpanBounds overrides the merge bounds for short spans, in seconds.
func WithSpanBounds(minDuration, maxDuration float64) Option {
	return func(p *Pipeline) error {
		if minDuration < 0 || maxDuration < minDuration {
			return fmt.Errorf("invalid span bounds [%v, %v]", minDuration, maxDuration)
		}
		p.minSpan = minDuration
		p.maxSpan = maxDuration
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline writing to the given index.
func NewPipeline(client index.Client, indexName string, opts ...Option) (*Pipeline, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if indexName == "" {
		return nil, ErrIndexNameRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		client:    client,
		pool:      pool,
		indexName: indexName,
		batchSize: defaultBatchSize,
		minSpan:   DefaultMinSpanDuration,
		maxSpan:   DefaultMaxSpanDuration,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// EnsureIndex creates the segment index if it does not exist yet, with a
// dense vector field of the given width.
func (p *Pipeline) EnsureIndex(ctx context.Context, dimensions int) error {
	exists, err := p.client.Exists(ctx, p.indexName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	p.logger.Info("creating index", "index", p.indexName, "dimensions", dimensions)
	return p.client.CreateIndex(ctx, p.indexName, SegmentMapping(dimensions))
}

// BuildSegments converts a transcript into indexable segments: spans are
// merged, text is normalized into processed_text, and each segment gets a
// content-addressed document ID so re-ingestion overwrites instead of
// duplicating.
func (p *Pipeline) BuildSegments(t *Transcript) []core.Segment {
	spans := MergeShortSpans(t.Segments, p.minSpan, p.maxSpan)

	segments := make([]core.Segment, len(spans))
	for i, span := range spans {
		content := fmt.Sprintf("%s|%.3f|%s", t.VideoLink, span.Start, span.Text)
		segments[i] = core.Segment{
			DocID:         core.DocIDFromContent(content),
			Text:          span.Text,
			ProcessedText: arabic.Normalize(span.Text),
			Start:         span.Start,
			End:           span.End,
			VideoLink:     t.VideoLink,
			Sequence:      i,
		}
	}
	return segments
}

// IngestTranscript indexes all segments of a transcript. Batches run
// concurrently on the worker pool; the checkpoint, when enabled, records
// the longest contiguous prefix of indexed segments so an interrupted run
// resumes without re-sending completed batches.
func (p *Pipeline) IngestTranscript(ctx context.Context, t *Transcript) (*index.BulkResult, error) {
	if t == nil || t.VideoLink == "" || len(t.Segments) == 0 {
		return nil, ErrInvalidTranscript
	}

	segments := p.BuildSegments(t)
	stage := "ingest:" + results.VideoID(t.VideoLink)

	offset := 0
	if p.checkpoints != nil {
		checkpoint, err := p.checkpoints.LoadCheckpoint(ctx, stage)
		if err != nil {
			return nil, err
		}
		if checkpoint != nil && checkpoint.Offset > 0 {
			if checkpoint.Offset >= int64(len(segments)) {
				p.logger.Info("transcript already ingested", "stage", stage)
				return &index.BulkResult{}, nil
			}
			offset = int(checkpoint.Offset)
			p.logger.Info("resuming ingestion", "stage", stage, "offset", offset)
		}
	}

	pending := segments[offset:]
	batches := make([][]core.Segment, 0, (len(pending)+p.batchSize-1)/p.batchSize)
	for start := 0; start < len(pending); start += p.batchSize {
		end := start + p.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batches = append(batches, pending[start:end])
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		total    index.BulkResult
		firstErr error
		batchOK  = make([]bool, len(batches))
	)

	for i, batch := range batches {
		i, batch := i, batch
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			docs := make([]index.Document, len(batch))
			for j := range batch {
				docs[j] = index.Document{ID: batch[j].DocID, Segment: &batch[j]}
			}

			res, err := p.client.Bulk(ctx, p.indexName, docs)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				p.logger.Error("bulk batch failed", "stage", stage, "batch", i, "err", err)
				return
			}
			total.Indexed += res.Indexed
			total.Failed += res.Failed
			batchOK[i] = res.Failed == 0
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	done := offset
	for i, ok := range batchOK {
		if !ok {
			break
		}
		done += len(batches[i])
	}

	if p.checkpoints != nil {
		var cpErr error
		if done >= len(segments) {
			cpErr = p.checkpoints.ClearCheckpoint(ctx, stage)
		} else {
			cpErr = p.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
				Stage:  stage,
				Offset: int64(done),
			})
		}
		if cpErr != nil {
			p.logger.Error("checkpoint update failed", "stage", stage, "err", cpErr)
		}
	}

	if firstErr != nil {
		return &total, firstErr
	}
	return &total, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
