package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/gitgraph/pkg/domain"
)

const ext = ".json"

// Store implements ports.SnapshotStore using the local filesystem.
// It stores one JSON file per key in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".gitgraph/snapshots".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".gitgraph", "snapshots")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("snapshot key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(s.BasePath, key+ext), nil
}

// Save writes the snapshot to a temporary file, syncs it and renames it into place,
// so readers never observe a partial document.
func (s *Store) Save(ctx context.Context, key string, snap *domain.Snapshot) error {
	destPath, err := s.path(key)
	if err != nil {
		return err
	}
	if snap == nil {
		snap = &domain.Snapshot{}
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

// Load reads a snapshot file.
func (s *Store) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes the snapshot file.
func (s *Store) Delete(ctx context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// List returns the stored keys in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ext))
	}
	sort.Strings(keys)
	return keys, nil
}
