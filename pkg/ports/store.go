package ports

import (
	"context"

	"github.com/aretw0/gitgraph/pkg/domain"
)

// SnapshotStore defines the interface for persisting graph snapshots.
// It lets a long-running tracker survive restarts.
type SnapshotStore interface {
	// Save persists the snapshot under the given key, replacing any previous one.
	Save(ctx context.Context, key string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys.
	List(ctx context.Context) ([]string, error)
}
