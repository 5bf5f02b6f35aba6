package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
)

// Client adapts Elasticsearch to the index.Client contract.
//
// The underlying connection handle is shared for concurrent read use.
// When a call observes a connectivity failure the handle is rebuilt
// lazily under a generation-guarded mutex, so at most one reconnection
// attempt is in flight; concurrent callers either keep the stale handle
// (and fail, to be retried by the fallback ladder) or pick up the new one.
type Client struct {
	cfg    *Config
	logger *slog.Logger

	mu  sync.RWMutex
	es  *elasticsearch.Client
	gen uint64
}

var _ index.Client = (*Client)(nil)

// NewClient connects to the service described by cfg.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	es, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:    cfg,
		es:     es,
		logger: slog.Default().With("component", "elastic-client"),
	}, nil
}

func dial(cfg *Config) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		APIKey:    cfg.APIKey,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", index.ErrConnectivity, err)
	}
	return es, nil
}

// handle returns the current connection and its generation.
func (c *Client) handle() (*elasticsearch.Client, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.es, c.gen
}

// reconnect rebuilds the connection unless another caller already did.
func (c *Client) reconnect(stale uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != stale {
		return // somebody else reconnected first
	}

	es, err := dial(c.cfg)
	if err != nil {
		c.logger.Warn("reconnect attempt failed", "err", err)
		return
	}

	c.es = es
	c.gen++
	c.logger.Info("reconnected to index service", "generation", c.gen)
}

// fail classifies an error, triggering a reconnect on connectivity loss.
func (c *Client) fail(err error, gen uint64, op string) error {
	classified := classifyTransport(err, op)
	if errors.Is(classified, index.ErrConnectivity) {
		c.reconnect(gen)
	}
	return classified
}

func classifyTransport(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", index.ErrTimeout, op)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", index.ErrConnectivity, op, err)
}

func classifyStatus(res *esapi.Response, op string) error {
	switch res.StatusCode {
	case 401, 403:
		return fmt.Errorf("%w: %s", index.ErrAuthentication, op)
	case 404:
		return fmt.Errorf("%w: %s", index.ErrNotFound, op)
	case 408, 504:
		return fmt.Errorf("%w: %s", index.ErrTimeout, op)
	}
	return fmt.Errorf("%w: %s: status %d", index.ErrConnectivity, op, res.StatusCode)
}

func encodeBody(body map[string]any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return &buf, nil
}

func encodeSort(sort []index.SortField) []map[string]any {
	encoded := make([]map[string]any, len(sort))
	for i, s := range sort {
		order := "desc"
		if s.Ascending {
			order = "asc"
		}
		encoded[i] = map[string]any{s.Field: map[string]any{"order": order}}
	}
	return encoded
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string       `json:"_id"`
			Score  float64      `json:"_score"`
			Source core.Segment `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search executes a ranked query, bounded by the configured per-call timeout.
func (c *Client) Search(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := map[string]any{
		"query": req.Query,
		"size":  req.Size,
	}
	if len(req.Sort) > 0 {
		body["sort"] = encodeSort(req.Sort)
	}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	es, gen := c.handle()
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(indexName),
		es.Search.WithBody(reader),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, c.fail(err, gen, "search")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, classifyStatus(res, "search")
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: search: %v", index.ErrMalformedResponse, err)
	}

	result := &index.Result{
		Hits:  make([]index.Hit, 0, len(decoded.Hits.Hits)),
		Total: decoded.Hits.Total.Value,
	}
	for _, hit := range decoded.Hits.Hits {
		segment := hit.Source
		if segment.DocID == "" {
			segment.DocID = hit.ID
		}
		result.Hits = append(result.Hits, index.Hit{
			ID:      hit.ID,
			Score:   hit.Score,
			Segment: segment,
		})
	}

	return result, nil
}

// Count returns the number of documents matching the query.
func (c *Client) Count(ctx context.Context, indexName string, q map[string]any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reader, err := encodeBody(map[string]any{"query": q})
	if err != nil {
		return 0, err
	}

	es, gen := c.handle()
	res, err := es.Count(
		es.Count.WithContext(ctx),
		es.Count.WithIndex(indexName),
		es.Count.WithBody(reader),
	)
	if err != nil {
		return 0, c.fail(err, gen, "count")
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, classifyStatus(res, "count")
	}

	var decoded struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("%w: count: %v", index.ErrMalformedResponse, err)
	}

	return decoded.Count, nil
}

// Exists reports whether the index exists.
func (c *Client) Exists(ctx context.Context, indexName string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	es, gen := c.handle()
	res, err := es.Indices.Exists(
		[]string{indexName},
		es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, c.fail(err, gen, "exists")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	}
	return false, classifyStatus(res, "exists")
}

// CreateIndex creates the index with the given mapping document.
func (c *Client) CreateIndex(ctx context.Context, indexName string, mapping map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reader, err := encodeBody(mapping)
	if err != nil {
		return err
	}

	es, gen := c.handle()
	res, err := es.Indices.Create(
		indexName,
		es.Indices.Create.WithContext(ctx),
		es.Indices.Create.WithBody(reader),
	)
	if err != nil {
		return c.fail(err, gen, "create index")
	}
	defer res.Body.Close()

	if res.IsError() {
		return classifyStatus(res, "create index")
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
	} `json:"items"`
}

// Bulk indexes the documents in one request. Per-document failures are
// counted in the result, not returned as an error.
func (c *Client) Bulk(ctx context.Context, indexName string, docs []index.Document) (*index.BulkResult, error) {
	if len(docs) == 0 {
		return &index.BulkResult{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_id": doc.ID}}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encoding bulk action: %w", err)
		}
		if err := enc.Encode(doc.Segment); err != nil {
			return nil, fmt.Errorf("encoding bulk document: %w", err)
		}
	}

	es, gen := c.handle()
	res, err := es.Bulk(
		&buf,
		es.Bulk.WithContext(ctx),
		es.Bulk.WithIndex(indexName),
	)
	if err != nil {
		return nil, c.fail(err, gen, "bulk")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, classifyStatus(res, "bulk")
	}

	var decoded bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: bulk: %v", index.ErrMalformedResponse, err)
	}

	result := &index.BulkResult{}
	for _, item := range decoded.Items {
		failed := false
		for _, op := range item {
			if op.Status >= 300 {
				failed = true
			}
		}
		if failed {
			result.Failed++
		} else {
			result.Indexed++
		}
	}
	if decoded.Errors {
		c.logger.Warn("bulk request reported item failures",
			"indexed", result.Indexed, "failed", result.Failed)
	}

	return result, nil
}

// Ping reports whether the service answers a connectivity probe.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	es, gen := c.handle()
	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		c.fail(err, gen, "ping")
		return false
	}
	defer res.Body.Close()

	return !res.IsError()
}

// Info returns cluster identity and version for health reporting.
func (c *Client) Info(ctx context.Context) (*index.ClusterInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	es, gen := c.handle()
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, c.fail(err, gen, "info")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, classifyStatus(res, "info")
	}

	var decoded struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: info: %v", index.ErrMalformedResponse, err)
	}

	return &index.ClusterInfo{
		ClusterName: decoded.ClusterName,
		Version:     decoded.Version.Number,
	}, nil
}
