// Package tracker shares one workflow graph between concurrent callers such as the
// HTTP and MCP servers, optionally persisting every change to a snapshot store.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/internal/logging"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/ports"
	"github.com/aretw0/gitgraph/pkg/render"
)

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "default"

// Tracker is a mutex-guarded AgentRenderer.
type Tracker struct {
	mu     sync.Mutex
	agents *gitgraph.AgentRenderer

	graphOpts []gitgraph.Option
	store     ports.SnapshotStore
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	key       string
	logger    *slog.Logger
	listeners []func(Event)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithGraphOptions passes options to the underlying renderer.
func WithGraphOptions(opts ...gitgraph.Option) Option {
	return func(t *Tracker) {
		t.graphOpts = append(t.graphOpts, opts...)
	}
}

// WithStore persists every mutation under key. An empty key means DefaultKey.
func WithStore(store ports.SnapshotStore, key string) Option {
	return func(t *Tracker) {
		t.store = store
		if key != "" {
			t.key = key
		}
	}
}

// WithLocker serialises mutations with other trackers sharing the same store. Before
// each mutation the latest snapshot is reloaded. A non-positive ttl keeps the
// default of 10s.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(t *Tracker) {
		t.locker = locker
		if ttl > 0 {
			t.lockTTL = ttl
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// New creates an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		key:     DefaultKey,
		lockTTL: 10 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.agents = gitgraph.NewAgentRenderer(t.graphOpts...)
	return t
}

// Key returns the snapshot key.
func (t *Tracker) Key() string {
	return t.key
}

// Options returns the render configuration.
func (t *Tracker) Options() render.Options {
	return t.agents.Graph().Options()
}

// Subscribe registers fn to be called after every successful mutation.
// fn runs with the tracker lock held and must not call back into the tracker.
func (t *Tracker) Subscribe(fn func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Load restores the graph from the store. A missing snapshot leaves the graph empty.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reload(ctx)
}

func (t *Tracker) reload(ctx context.Context) error {
	snap, err := t.store.Load(ctx, t.key)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		t.agents.Clear()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshot %q: %w", t.key, err)
	}
	if err := t.agents.Restore(snap); err != nil {
		return fmt.Errorf("failed to restore snapshot %q: %w", t.key, err)
	}
	t.logger.Debug("Snapshot restored", "key", t.key, "nodes", snap.Len())
	return nil
}

// mutate runs fn under the tracker lock (and the distributed lock, when configured)
// and persists the result. If persisting fails the change is rolled back.
func (t *Tracker) mutate(ctx context.Context, ev Event, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.locker != nil {
		unlock, err := t.locker.Lock(ctx, t.key, t.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock graph %q: %w", t.key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				t.logger.Warn("Failed to release graph lock", "key", t.key, "err", err)
			}
		}()
		if err := t.reload(ctx); err != nil {
			return err
		}
	}

	var before *domain.Snapshot
	if t.store != nil {
		before = t.agents.Snapshot()
	}

	if err := fn(); err != nil {
		t.logger.Debug("Graph mutation rejected", "op", ev.Op, "id", ev.ID, "err", err)
		return err
	}

	if t.store != nil {
		if err := t.store.Save(ctx, t.key, t.agents.Snapshot()); err != nil {
			if rerr := t.agents.Restore(before); rerr != nil {
				t.logger.Error("Rollback failed", "key", t.key, "err", rerr)
			}
			return fmt.Errorf("failed to persist graph %q: %w", t.key, err)
		}
	}

	t.logger.Debug("Graph mutated", "op", ev.Op, "id", ev.ID)
	for _, fn := range t.listeners {
		fn(ev)
	}
	return nil
}

// AddNode adds a plain commit node.
func (t *Tracker) AddNode(ctx context.Context, id, label string, parents ...string) error {
	return t.mutate(ctx, Event{Op: OpAddNode, ID: id}, func() error {
		return t.agents.Graph().AddNode(id, label, parents...)
	})
}

// AddAgent adds a workflow node.
func (t *Tracker) AddAgent(ctx context.Context, agent gitgraph.Agent) error {
	return t.mutate(ctx, Event{Op: OpAddAgent, ID: agent.ID}, func() error {
		return t.agents.AddAgent(agent)
	})
}

// AgentPatch lists the overlay fields to change. Nil fields are left alone.
type AgentPatch struct {
	State          *domain.AgentState `json:"state,omitempty"`
	Activity       *string            `json:"activity,omitempty"`
	Progress       *string            `json:"progress,omitempty"`
	IncrementTurns bool               `json:"increment_turns,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p AgentPatch) Empty() bool {
	return p.State == nil && p.Activity == nil && p.Progress == nil && !p.IncrementTurns
}

// UpdateAgent applies a patch and returns the updated node. The patch is applied as a
// whole: if one field is rejected, none of them change.
func (t *Tracker) UpdateAgent(ctx context.Context, id string, patch AgentPatch) (domain.Node, error) {
	var updated domain.Node
	err := t.mutate(ctx, Event{Op: OpUpdateAgent, ID: id}, func() error {
		if _, err := t.agents.Agent(id); err != nil {
			return err
		}
		if patch.State != nil {
			if err := t.agents.UpdateAgentState(id, *patch.State); err != nil {
				return err
			}
		}
		// the remaining updates cannot fail once the node exists
		if patch.Activity != nil {
			_ = t.agents.UpdateAgentActivity(id, *patch.Activity)
		}
		if patch.Progress != nil {
			_ = t.agents.UpdateAgentProgress(id, *patch.Progress)
		}
		if patch.IncrementTurns {
			_, _ = t.agents.IncrementAgentTurns(id)
		}
		var err error
		updated, err = t.agents.Agent(id)
		return err
	})
	if err != nil {
		return domain.Node{}, err
	}
	return updated, nil
}

// Clear removes every node.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.mutate(ctx, Event{Op: OpClear}, func() error {
		t.agents.Clear()
		return nil
	})
}

// Render draws the workflow graph. Plain nodes render without a status glyph.
func (t *Tracker) Render() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agents.Render()
}

// Stats returns the graph statistics.
func (t *Tracker) Stats() (domain.Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agents.Stats()
}

// Snapshot returns a deep copy of the graph.
func (t *Tracker) Snapshot() *domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agents.Snapshot()
}

// Node returns a copy of a node.
func (t *Tracker) Node(id string) (domain.Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agents.Agent(id)
}
