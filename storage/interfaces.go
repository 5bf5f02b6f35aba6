package storage

import (
	"context"

	"github.com/poiesic/lectern/core"
)

// CheckpointRepository persists resumable progress markers for ingestion
// and enrichment stages. Implementations must be safe for concurrent use.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a stage, stamping
	// UpdatedAt with the current time.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a stage.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, stage string) (*core.Checkpoint, error)

	// ClearCheckpoint removes the checkpoint for a stage, so the next
	// run starts from the beginning. Clearing a missing checkpoint is
	// not an error.
	ClearCheckpoint(ctx context.Context, stage string) error
}
