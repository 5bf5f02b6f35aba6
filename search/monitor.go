package search

import "github.com/poiesic/lectern/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track mode attempts and degradations.
type SearchMonitor interface {
	Start(query string, mode core.Mode)
	BeforeAttempt(mode core.Mode)
	EmbeddingDegraded(err error)
	ModeDegraded(from, to core.Mode, err error)
	Finish(resp *Response)
}

// noopMonitor is a no-op implementation of SearchMonitor.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ core.Mode)               {}
func (n *noopMonitor) BeforeAttempt(_ core.Mode)                 {}
func (n *noopMonitor) EmbeddingDegraded(_ error)                 {}
func (n *noopMonitor) ModeDegraded(_, _ core.Mode, _ error)      {}
func (n *noopMonitor) Finish(_ *Response)                        {}
