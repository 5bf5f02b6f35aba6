package mock

import (
	"context"

	"github.com/poiesic/lectern/index"
)

// MockClient is a test double for index.Client.
// It allows custom behavior injection via function fields.
type MockClient struct {
	// SearchFunc is called by Search if set.
	// If nil, returns an empty result.
	SearchFunc func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error)

	// CountFunc is called by Count if set.
	// If nil, returns zero.
	CountFunc func(ctx context.Context, indexName string, q map[string]any) (int, error)

	// ExistsFunc is called by Exists if set.
	// If nil, reports true.
	ExistsFunc func(ctx context.Context, indexName string) (bool, error)

	// CreateIndexFunc is called by CreateIndex if set.
	// If nil, succeeds.
	CreateIndexFunc func(ctx context.Context, indexName string, mapping map[string]any) error

	// BulkFunc is called by Bulk if set.
	// If nil, reports every document as indexed.
	BulkFunc func(ctx context.Context, indexName string, docs []index.Document) (*index.BulkResult, error)

	// PingFunc is called by Ping if set.
	// If nil, reports true.
	PingFunc func(ctx context.Context) bool

	// InfoFunc is called by Info if set.
	// If nil, returns a fixed mock identity.
	InfoFunc func(ctx context.Context) (*index.ClusterInfo, error)

	searchCalls []index.Request
	countCalls  []map[string]any
	bulkCalls   [][]index.Document
}

var _ index.Client = (*MockClient)(nil)

// NewMockClient creates a mock index client with default behavior.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Search records the request and delegates to SearchFunc.
func (m *MockClient) Search(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
	m.searchCalls = append(m.searchCalls, *req)

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, indexName, req)
	}
	return &index.Result{}, nil
}

// Count records the query and delegates to CountFunc.
func (m *MockClient) Count(ctx context.Context, indexName string, q map[string]any) (int, error) {
	m.countCalls = append(m.countCalls, q)

	if m.CountFunc != nil {
		return m.CountFunc(ctx, indexName, q)
	}
	return 0, nil
}

// Exists delegates to ExistsFunc.
func (m *MockClient) Exists(ctx context.Context, indexName string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, indexName)
	}
	return true, nil
}

// CreateIndex delegates to CreateIndexFunc.
func (m *MockClient) CreateIndex(ctx context.Context, indexName string, mapping map[string]any) error {
	if m.CreateIndexFunc != nil {
		return m.CreateIndexFunc(ctx, indexName, mapping)
	}
	return nil
}

// Bulk records the batch and delegates to BulkFunc.
func (m *MockClient) Bulk(ctx context.Context, indexName string, docs []index.Document) (*index.BulkResult, error) {
	m.bulkCalls = append(m.bulkCalls, docs)

	if m.BulkFunc != nil {
		return m.BulkFunc(ctx, indexName, docs)
	}
	return &index.BulkResult{Indexed: len(docs)}, nil
}

// Ping delegates to PingFunc.
func (m *MockClient) Ping(ctx context.Context) bool {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return true
}

// Info delegates to InfoFunc.
func (m *MockClient) Info(ctx context.Context) (*index.ClusterInfo, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx)
	}
	return &index.ClusterInfo{ClusterName: "mock", Version: "0.0.0"}, nil
}

// SearchCalls returns the recorded Search requests in call order.
func (m *MockClient) SearchCalls() []index.Request {
	return m.searchCalls
}

// CountCalls returns the recorded Count queries in call order.
func (m *MockClient) CountCalls() []map[string]any {
	return m.countCalls
}

// BulkCalls returns the recorded Bulk batches in call order.
func (m *MockClient) BulkCalls() [][]index.Document {
	return m.bulkCalls
}

// Reset clears recorded calls and injected behavior.
func (m *MockClient) Reset() {
	m.searchCalls = nil
	m.countCalls = nil
	m.bulkCalls = nil
	m.SearchFunc = nil
	m.CountFunc = nil
	m.ExistsFunc = nil
	m.CreateIndexFunc = nil
	m.BulkFunc = nil
	m.PingFunc = nil
	m.InfoFunc = nil
}
