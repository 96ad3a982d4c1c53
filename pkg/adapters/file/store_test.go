package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/gitgraph/pkg/adapters/file"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSnapshotStoreContract(t, store)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		assert.Error(t, store.Save(ctx, key, &domain.Snapshot{}), "key %q", key)
	}
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "g1", &domain.Snapshot{}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-g2-123"), []byte("{"), 0644))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, keys)
}
