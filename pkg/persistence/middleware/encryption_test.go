package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/gitgraph/pkg/adapters/memory"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/persistence/middleware"
	"github.com/aretw0/gitgraph/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func secretSnapshot(activity string) *domain.Snapshot {
	return &domain.Snapshot{Nodes: []domain.Node{{
		ID:         "deploy",
		Label:      "Deploy",
		HasOverlay: true,
		Overlay:    domain.Overlay{State: domain.StateRunning, Activity: activity},
	}}}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSnapshotStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	if err := secureStore.Save(ctx, "build", secretSnapshot("rotating token abc123")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The underlying store must only hold the envelope.
	stored, err := underlyingStore.Load(ctx, "build")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored.Nodes) != 0 {
		t.Fatalf("Expected no plain nodes, found %d", len(stored.Nodes))
	}
	if stored.Sealed == "" || strings.Contains(stored.Sealed, "abc123") {
		t.Fatalf("Expected sealed ciphertext, got %q", stored.Sealed)
	}

	loaded, err := secureStore.Load(ctx, "build")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Len() != 1 || loaded.Nodes[0].Overlay.Activity != "rotating token abc123" {
		t.Errorf("Unexpected snapshot after decryption: %+v", loaded)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	if err := secureStoreOld.Save(ctx, "build", secretSnapshot("encrypted-with-old-key")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "build")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Nodes[0].Overlay.Activity != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	loaded.Nodes[0].Overlay.Activity = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, "build", loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureStoreOld.Load(ctx, "build"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainSnapshot(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "build", secretSnapshot("plain")); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.Load(ctx, "build"); err == nil {
		t.Error("Expected plain snapshot to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
