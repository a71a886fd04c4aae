package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// Persistence is the durable tier behind the in-memory snapshot store: a
// key-value-by-timeframe blob store. Implementations must treat Save as a
// whole-timeframe overwrite.
type Persistence interface {
	Load(ctx context.Context, tf types.Timeframe) (map[string]*types.MarketSnapshot, bool, error)
	Save(ctx context.Context, tf types.Timeframe, snapshots map[string]*types.MarketSnapshot) error
}

// Store is the process-wide two-tier snapshot cache keyed by
// (timeframe, instrument pair). The in-memory tier for a timeframe is loaded
// once per refresh pass and persisted once at its end; readers never observe
// a partially replaced timeframe map. Construct one per process and pass it
// explicitly; this is deliberately not package-level state so tests can
// inject isolated instances.
type Store struct {
	mu      sync.Mutex
	memory  map[types.Timeframe]map[string]*types.MarketSnapshot
	loaded  map[types.Timeframe]bool
	durable Persistence
}

// NewStore creates a snapshot store over the given durable tier.
func NewStore(durable Persistence) *Store {
	return &Store{
		memory:  make(map[types.Timeframe]map[string]*types.MarketSnapshot),
		loaded:  make(map[types.Timeframe]bool),
		durable: durable,
	}
}

// Load pulls the durable tier for the timeframe into memory, replacing the
// in-memory map as a unit. Used as the recovery baseline at the start of a
// refresh pass and implicitly by the first Get per timeframe.
func (s *Store) Load(ctx context.Context, tf types.Timeframe) error {
	snapshots, ok, err := s.durable.Load(ctx, tf)
	if err != nil {
		return fmt.Errorf("load snapshot tier %s: %w", tf, err)
	}
	if !ok || snapshots == nil {
		snapshots = make(map[string]*types.MarketSnapshot)
	}

	s.mu.Lock()
	s.memory[tf] = snapshots
	s.loaded[tf] = true
	s.mu.Unlock()
	return nil
}

// Get returns the snapshot for (timeframe, pair), or nil when absent. The
// durable tier is loaded on first access per timeframe.
func (s *Store) Get(ctx context.Context, tf types.Timeframe, pair string) (*types.MarketSnapshot, error) {
	s.mu.Lock()
	resident := s.loaded[tf]
	s.mu.Unlock()

	if !resident {
		if err := s.Load(ctx, tf); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory[tf][pair], nil
}

// Publish upserts a single instrument's snapshot into the in-memory tier.
// Safe for concurrent use across instruments of the same timeframe; each
// instrument is written by exactly one refresh task.
func (s *Store) Publish(tf types.Timeframe, pair string, snap *types.MarketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memory[tf] == nil {
		s.memory[tf] = make(map[string]*types.MarketSnapshot)
		s.loaded[tf] = true
	}
	s.memory[tf][pair] = snap
}

// Flush persists the entire in-memory tier for the timeframe, overwriting
// prior durable state for that timeframe only. The copy is taken under the
// store lock so no writer can partially overlap the flush read.
func (s *Store) Flush(ctx context.Context, tf types.Timeframe) error {
	s.mu.Lock()
	tier := s.memory[tf]
	copied := make(map[string]*types.MarketSnapshot, len(tier))
	for pair, snap := range tier {
		copied[pair] = snap
	}
	s.mu.Unlock()

	if err := s.durable.Save(ctx, tf, copied); err != nil {
		return fmt.Errorf("flush snapshot tier %s: %w", tf, err)
	}
	return nil
}
