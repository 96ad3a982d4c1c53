package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	key := "contract-test-graph-" + time.Now().Format("20060102150405")

	sample := func() *domain.Snapshot {
		return &domain.Snapshot{Nodes: []domain.Node{
			{ID: "c", Label: "Coordinator", Seq: 0, HasOverlay: true, Overlay: domain.Overlay{
				State:    domain.StateRunning,
				Activity: "Planning",
				Turns:    3,
			}},
			{ID: "w", Label: "Worker", Parents: []string{"c"}, Seq: 1, HasOverlay: true, Overlay: domain.Overlay{
				State:    domain.StatePending,
				Progress: "0/2",
			}},
			{ID: "m", Label: "Merge", Parents: []string{"c", "w"}, Seq: 2},
		}}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := sample()
		require.NoError(t, store.Save(ctx, key, snap), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		require.Equal(t, 3, loaded.Len())
		assert.Equal(t, snap.Nodes, loaded.Nodes)
	})

	t.Run("Save isolates the caller", func(t *testing.T) {
		snap := sample()
		require.NoError(t, store.Save(ctx, key, snap))
		snap.Nodes[0].Label = "mutated"
		snap.Nodes[1].Parents[0] = "mutated"

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Coordinator", loaded.Nodes[0].Label)
		assert.Equal(t, []string{"c"}, loaded.Nodes[1].Parents)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))
		require.NoError(t, store.Save(ctx, key, &domain.Snapshot{Nodes: []domain.Node{{ID: "only", Label: "only"}}}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.Equal(t, 1, loaded.Len())
		assert.Equal(t, "only", loaded.Nodes[0].ID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		require.NoError(t, store.Save(ctx, id1, sample()))
		require.NoError(t, store.Save(ctx, id2, sample()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
