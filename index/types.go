package index

import "github.com/poiesic/lectern/core"

// SortField is one key of a sort specification.
type SortField struct {
	Field     string
	Ascending bool
}

// Request is a ranked or filtered fetch against an index.
type Request struct {
	// Query is the service's JSON query DSL.
	Query map[string]any
	// Size bounds the number of hits returned.
	Size int
	// Sort overrides relevance ordering when non-empty.
	Sort []SortField
}

// Hit is a single retrieved document with its relevance score.
type Hit struct {
	ID      string
	Score   float64
	Segment core.Segment
}

// Result is the outcome of a Search call. Total is the upstream-reported
// cardinality and may exceed len(Hits).
type Result struct {
	Hits  []Hit
	Total int
}

// Document is one unit of bulk ingestion.
type Document struct {
	ID      string
	Segment *core.Segment
}

// BulkResult summarizes a bulk ingestion request.
type BulkResult struct {
	Indexed int
	Failed  int
}

// ClusterInfo carries service identity for health reporting.
type ClusterInfo struct {
	ClusterName string
	Version     string
}
