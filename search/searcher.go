package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/arabic"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
	"github.com/poiesic/lectern/query"
	"github.com/poiesic/lectern/results"
)

const (
	// DefaultSize replaces a non-positive requested size.
	DefaultSize = 50
	// MaxSize caps the requested size.
	MaxSize = 1000
)

// Request is one search call.
type Request struct {
	// Query is the raw, unnormalized query text.
	Query string
	// Size bounds the number of ranked hits. Non-positive values are
	// replaced by DefaultSize; values above MaxSize are clamped.
	Size int
	// Mode selects the search strategy. Zero selects core.ModeEnhanced.
	Mode core.Mode
	// Group requests conversation-group reconstruction instead of a
	// flat record list.
	Group bool
}

// Response is the outcome of one search call.
type Response struct {
	// Results holds the flat display records. Empty in grouped mode.
	Results []results.Record
	// Groups holds the reconstructed conversation groups when grouping
	// was requested.
	Groups []core.ConversationGroup
	// Total is the upstream-reported approximate cardinality of the
	// composed query. It may exceed Returned.
	Total int
	// Returned counts the records (or groups) actually returned.
	Returned int
	// ModeUsed is the strategy that produced the results, which may be
	// simpler than the requested one after degradation.
	ModeUsed string
	// QueryTime is the wall-clock duration of the whole call.
	QueryTime time.Duration
}

// Searcher orchestrates ranked retrieval with a degradation ladder.
// A Searcher is safe for concurrent use.
type Searcher struct {
	client     index.Client
	embedder   ai.Embedder
	composer   *query.Composer
	aggregator *results.Aggregator
	indexName  string
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithEmbedder enables semantic mode with the given embedding service.
// Without an embedder, semantic requests silently run as enhanced.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		s.embedder = embedder
		return nil
	}
}

// WithComposer sets a custom query composer.
// Default is query.NewComposer().
func WithComposer(composer *query.Composer) Option {
	return func(s *Searcher) error {
		if composer == nil {
			var err error
			composer, err = query.NewComposer()
			if err != nil {
				return err
			}
		}
		s.composer = composer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over the given index.
func NewSearcher(client index.Client, indexName string, opts ...Option) (*Searcher, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if indexName == "" {
		return nil, ErrIndexNameRequired
	}

	composer, err := query.NewComposer()
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		client:     client,
		composer:   composer,
		aggregator: results.NewAggregator(client, indexName),
		indexName:  indexName,
		logger:     slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs one search request through the mode ladder.
func (s *Searcher) Search(ctx context.Context, req *Request) (*Response, error) {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor runs one search request with monitoring callbacks at
// each stage.
//
// The requested mode is attempted first. An embedding failure inside
// semantic mode silently degrades to enhanced. A transient index failure
// degrades one mode and retries once; at most one retry happens per
// request, and non-transient failures surface immediately.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req *Request, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	term := strings.TrimSpace(req.Query)
	if term == "" {
		return nil, ErrInvalidQuery
	}

	mode := req.Mode
	if mode == 0 {
		mode = core.ModeEnhanced
	}
	if err := core.ValidateMode(mode); err != nil {
		return nil, err
	}

	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	start := time.Now()
	monitor.Start(term, mode)

	var (
		res     *index.Result
		total   int
		retried bool
	)

	for {
		monitor.BeforeAttempt(mode)

		fetchQuery, actual := s.buildQuery(ctx, mode, term, monitor)
		mode = actual

		var err error
		total, res, err = s.countAndFetch(ctx, mode, term, fetchQuery, size)
		if err == nil {
			break
		}

		next := degrade(mode)
		if !index.Transient(err) || retried || next == 0 {
			s.logger.Error("search failed", "mode", mode.String(), "err", err)
			return nil, err
		}

		s.logger.Warn("degrading search mode",
			"from", mode.String(), "to", next.String(), "err", err)
		monitor.ModeDegraded(mode, next, err)
		mode = next
		retried = true
	}

	resp := &Response{
		Total:    total,
		ModeUsed: mode.String(),
	}

	if req.Group {
		groups, err := s.aggregator.Group(ctx, res.Hits)
		if err != nil {
			return nil, err
		}
		resp.Groups = groups
		resp.Returned = len(groups)
	} else {
		resp.Results = s.aggregator.Flatten(res.Hits)
		resp.Returned = len(resp.Results)
	}

	resp.QueryTime = time.Since(start)
	monitor.Finish(resp)
	return resp, nil
}

// buildQuery composes the fetch query for a mode. Semantic composition
// needs an embedding of the normalized term; if the embedder is absent or
// fails, the mode silently drops to enhanced and the lexical query is
// used unchanged.
func (s *Searcher) buildQuery(ctx context.Context, mode core.Mode, term string, monitor SearchMonitor) (map[string]any, core.Mode) {
	switch mode {
	case core.ModeLexical:
		return s.composer.Match(term), mode
	case core.ModeEnhanced:
		return s.composer.Lexical(term), mode
	}

	lexical := s.composer.Lexical(term)
	if s.embedder == nil {
		monitor.EmbeddingDegraded(ai.ErrUnavailable)
		return lexical, core.ModeEnhanced
	}

	vector, err := s.embedder.EmbedText(ctx, arabic.Normalize(term))
	if err != nil || len(vector) == 0 {
		s.logger.Warn("embedding unavailable, degrading to enhanced", "err", err)
		monitor.EmbeddingDegraded(err)
		return lexical, core.ModeEnhanced
	}

	return s.composer.Hybrid(lexical, vector), core.ModeSemantic
}

// countAndFetch issues the two index calls backing one attempt. Both use
// the same composed query, except in semantic mode where the count runs
// against the lexical component; the vector clause only reorders scores
// for documents carrying embeddings and would distort the cardinality.
func (s *Searcher) countAndFetch(ctx context.Context, mode core.Mode, term string, fetchQuery map[string]any, size int) (int, *index.Result, error) {
	countQuery := fetchQuery
	if mode == core.ModeSemantic {
		countQuery = s.composer.Lexical(term)
	}

	total, err := s.client.Count(ctx, s.indexName, countQuery)
	if err != nil {
		return 0, nil, err
	}

	res, err := s.client.Search(ctx, s.indexName, &index.Request{
		Query: fetchQuery,
		Size:  size,
	})
	if err != nil {
		return 0, nil, err
	}

	return total, res, nil
}

// degrade returns the next-simpler mode, or zero at the bottom of the
// ladder.
func degrade(mode core.Mode) core.Mode {
	switch mode {
	case core.ModeSemantic:
		return core.ModeEnhanced
	case core.ModeEnhanced:
		return core.ModeLexical
	}
	return 0
}
