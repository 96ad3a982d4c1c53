package memory_test

import (
	"testing"

	"github.com/aretw0/gitgraph/pkg/adapters/memory"
	"github.com/aretw0/gitgraph/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}
