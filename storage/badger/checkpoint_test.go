package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lectern/core"
)

func TestCheckpointRepository(t *testing.T) {
	ctx := context.Background()

	repo, backend, err := NewMemoryCheckpointRepository()
	require.NoError(t, err)
	defer backend.Close()

	t.Run("load missing checkpoint returns nil", func(t *testing.T) {
		checkpoint, err := repo.LoadCheckpoint(ctx, "enrich")
		require.NoError(t, err)
		assert.Nil(t, checkpoint)
	})

	t.Run("save and load round trip", func(t *testing.T) {
		saved := &core.Checkpoint{Stage: "enrich", Offset: 250}
		require.NoError(t, repo.SaveCheckpoint(ctx, saved))
		assert.False(t, saved.UpdatedAt.IsZero())

		loaded, err := repo.LoadCheckpoint(ctx, "enrich")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "enrich", loaded.Stage)
		assert.Equal(t, int64(250), loaded.Offset)
		assert.False(t, loaded.UpdatedAt.IsZero())
	})

	t.Run("save overwrites previous checkpoint", func(t *testing.T) {
		require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{Stage: "enrich", Offset: 500}))

		loaded, err := repo.LoadCheckpoint(ctx, "enrich")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, int64(500), loaded.Offset)
	})

	t.Run("stages are independent", func(t *testing.T) {
		require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{Stage: "ingest", Offset: 10}))

		enrich, err := repo.LoadCheckpoint(ctx, "enrich")
		require.NoError(t, err)
		require.NotNil(t, enrich)
		assert.Equal(t, int64(500), enrich.Offset)

		ingest, err := repo.LoadCheckpoint(ctx, "ingest")
		require.NoError(t, err)
		require.NotNil(t, ingest)
		assert.Equal(t, int64(10), ingest.Offset)
	})

	t.Run("clear removes checkpoint", func(t *testing.T) {
		require.NoError(t, repo.ClearCheckpoint(ctx, "enrich"))

		loaded, err := repo.LoadCheckpoint(ctx, "enrich")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("clear missing checkpoint is not an error", func(t *testing.T) {
		require.NoError(t, repo.ClearCheckpoint(ctx, "never-saved"))
	})
}
