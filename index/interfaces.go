package index

import "context"

// Client is the consumed surface of the index service.
// Implementations must be safe for concurrent use; a detected connection
// failure may trigger reconnection internally, but at most one
// reconnection attempt is in flight at a time.
type Client interface {
	// Search executes a ranked query and returns up to req.Size hits
	// together with the upstream-reported approximate total.
	Search(ctx context.Context, indexName string, req *Request) (*Result, error)

	// Count returns the number of documents matching the query.
	Count(ctx context.Context, indexName string, q map[string]any) (int, error)

	// Exists reports whether the index exists.
	Exists(ctx context.Context, indexName string) (bool, error)

	// CreateIndex creates the index with the given mapping document.
	CreateIndex(ctx context.Context, indexName string, mapping map[string]any) error

	// Bulk indexes the documents in one request. Per-document failures
	// are reported in the result, not as an error.
	Bulk(ctx context.Context, indexName string, docs []Document) (*BulkResult, error)

	// Ping reports whether the service answers a connectivity probe.
	Ping(ctx context.Context) bool

	// Info returns cluster identity and version for health reporting.
	Info(ctx context.Context) (*ClusterInfo, error)
}
