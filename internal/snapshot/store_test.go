package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// fakePersistence is an in-memory Persistence with call counters.
type fakePersistence struct {
	mu      sync.Mutex
	tiers   map[types.Timeframe]map[string]*types.MarketSnapshot
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{tiers: make(map[types.Timeframe]map[string]*types.MarketSnapshot)}
}

func (f *fakePersistence) Load(_ context.Context, tf types.Timeframe) (map[string]*types.MarketSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	tier, ok := f.tiers[tf]
	return tier, ok, nil
}

func (f *fakePersistence) Save(_ context.Context, tf types.Timeframe, snapshots map[string]*types.MarketSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tiers[tf] = snapshots
	return nil
}

func TestStore_PublishThenGet(t *testing.T) {
	store := NewStore(newFakePersistence())

	snap := &types.MarketSnapshot{CurrentPrice: 50000, ChangePercent: "1.25"}
	store.Publish(types.Timeframe5m, "BTC_USD", snap)

	got, err := store.Get(context.Background(), types.Timeframe5m, "BTC_USD")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestStore_GetLazyLoadsOnFirstAccess(t *testing.T) {
	persistence := newFakePersistence()
	persistence.tiers[types.Timeframe1h] = map[string]*types.MarketSnapshot{
		"ETH_USD": {CurrentPrice: 3000},
	}
	store := NewStore(persistence)

	got, err := store.Get(context.Background(), types.Timeframe1h, "ETH_USD")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, got.CurrentPrice)
	assert.Equal(t, 1, persistence.loads)

	// Second access stays in memory.
	_, err = store.Get(context.Background(), types.Timeframe1h, "ETH_USD")
	require.NoError(t, err)
	assert.Equal(t, 1, persistence.loads)
}

func TestStore_GetMissingPairReturnsNil(t *testing.T) {
	store := NewStore(newFakePersistence())

	got, err := store.Get(context.Background(), types.Timeframe5m, "DOGE_USD")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, got.IsEmpty())
}

func TestStore_FlushPersistsWholeTier(t *testing.T) {
	persistence := newFakePersistence()
	store := NewStore(persistence)

	store.Publish(types.Timeframe4h, "BTC_USD", &types.MarketSnapshot{CurrentPrice: 1})
	store.Publish(types.Timeframe4h, "ETH_USD", &types.MarketSnapshot{CurrentPrice: 2})

	require.NoError(t, store.Flush(context.Background(), types.Timeframe4h))

	assert.Equal(t, 1, persistence.saves)
	assert.Len(t, persistence.tiers[types.Timeframe4h], 2)
}

func TestStore_FlushErrorPropagates(t *testing.T) {
	persistence := newFakePersistence()
	persistence.saveErr = errors.New("disk full")
	store := NewStore(persistence)

	store.Publish(types.Timeframe5m, "BTC_USD", types.EmptySnapshot())
	err := store.Flush(context.Background(), types.Timeframe5m)
	assert.ErrorContains(t, err, "disk full")
}

func TestStore_TimeframesAreIsolated(t *testing.T) {
	store := NewStore(newFakePersistence())

	store.Publish(types.Timeframe5m, "BTC_USD", &types.MarketSnapshot{CurrentPrice: 1})

	got, err := store.Get(context.Background(), types.Timeframe1d, "BTC_USD")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmptySnapshotSentinel(t *testing.T) {
	snap := types.EmptySnapshot()
	assert.True(t, snap.IsEmpty())

	full := &types.MarketSnapshot{
		OptimizedIndicator: types.CompressedIndicator{{Name: "ATR"}},
		CurrentPrice:       100,
	}
	assert.False(t, full.IsEmpty())
}
