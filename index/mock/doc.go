// Package mock provides a test double implementation of index.Client.
//
// MockClient allows tests to run without an Elasticsearch instance and
// enables controlled, deterministic behavior via function fields:
//
//	mockClient := mock.NewMockClient()
//	mockClient.SearchFunc = func(ctx context.Context, indexName string, req *index.Request) (*index.Result, error) {
//	    return &index.Result{Total: 1, Hits: []index.Hit{{ID: "a"}}}, nil
//	}
package mock
