package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/pkg/adapters/file"
	"github.com/aretw0/gitgraph/pkg/adapters/memory"
	"github.com/aretw0/gitgraph/pkg/adapters/redis"
	"github.com/aretw0/gitgraph/pkg/persistence/middleware"
	"github.com/aretw0/gitgraph/pkg/ports"
	"github.com/aretw0/gitgraph/pkg/tracker"
	"github.com/spf13/cobra"
)

// addTrackerFlags registers the flags shared by the commands that host a tracker.
func addTrackerFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Snapshot store: memory, file or redis (default: redis if --redis is set, file if --data-dir is set, else memory)")
	cmd.Flags().String("data-dir", "", "Directory of the file store (default .gitgraph/snapshots)")
	cmd.Flags().String("redis", "", "Redis address, e.g. localhost:6379")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database number")
	cmd.Flags().Duration("ttl", 0, "Expire Redis snapshots after this long (0 keeps them)")
	cmd.Flags().String("key", tracker.DefaultKey, "Snapshot key of the shared graph")
	cmd.Flags().Bool("strict", false, "Reject state changes that leave completed or failed")
	cmd.Flags().String("encryption-key", "", "Base64 AES-256 key; snapshots are sealed before they reach the store")
	cmd.Flags().StringSlice("fallback-keys", nil, "Older base64 keys still accepted when reading snapshots")
}

// encryption returns the store middleware requested by the flags, or nil.
func encryption(cmd *cobra.Command) (middleware.Middleware, error) {
	raw, _ := cmd.Flags().GetString("encryption-key")
	if raw == "" {
		return nil, nil
	}
	active, err := decodeKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --encryption-key: %w", err)
	}
	config := middleware.EncryptionConfig{ActiveKey: active}

	fallbacks, _ := cmd.Flags().GetStringSlice("fallback-keys")
	for i, f := range fallbacks {
		key, err := decodeKey(f)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
		}
		config.FallbackKeys = append(config.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(config), nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != middleware.KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", middleware.KeySize, len(key))
	}
	return key, nil
}

func storeKind(cmd *cobra.Command) string {
	kind, _ := cmd.Flags().GetString("store")
	if kind != "" {
		return kind
	}
	switch {
	case cmd.Flags().Changed("redis"):
		return "redis"
	case cmd.Flags().Changed("data-dir"):
		return "file"
	default:
		return "memory"
	}
}

// newTracker builds the tracker described by the flags and loads its last snapshot.
// The returned func releases the store.
func newTracker(ctx context.Context, cmd *cobra.Command) (*tracker.Tracker, func(), error) {
	key, _ := cmd.Flags().GetString("key")
	opts := []tracker.Option{tracker.WithLogger(logger)}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		opts = append(opts, tracker.WithGraphOptions(gitgraph.WithStrictLifecycle()))
	}
	closer := func() {}

	seal, err := encryption(cmd)
	if err != nil {
		return nil, nil, err
	}
	wrap := func(store ports.SnapshotStore) ports.SnapshotStore {
		if seal == nil {
			return store
		}
		return seal(store)
	}

	kind := storeKind(cmd)
	switch kind {
	case "memory":
		opts = append(opts, tracker.WithStore(wrap(memory.NewStore()), key))
	case "file":
		dir, _ := cmd.Flags().GetString("data-dir")
		opts = append(opts, tracker.WithStore(wrap(file.New(dir)), key))
	case "redis":
		addr, _ := cmd.Flags().GetString("redis")
		if addr == "" {
			addr = "localhost:6379"
		}
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		store := redis.New(addr, password, db, redis.WithTTL(ttl))
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
		}
		opts = append(opts,
			tracker.WithStore(wrap(store), key),
			tracker.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix), 0),
		)
		closer = func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close redis store", "err", err)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want memory, file or redis)", kind)
	}

	t := tracker.New(opts...)
	if err := t.Load(ctx); err != nil {
		closer()
		return nil, nil, err
	}
	logger.Info("Graph tracker ready", "store", kind, "key", t.Key(), "encrypted", seal != nil)
	return t, closer, nil
}
