package market

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Suharaz/MerkleAI/internal/indicators"
	"github.com/Suharaz/MerkleAI/internal/monitoring"
	"github.com/Suharaz/MerkleAI/internal/retry"
	"github.com/Suharaz/MerkleAI/internal/snapshot"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

// refreshBatchSize bounds simultaneous outbound kline requests.
const refreshBatchSize = 10

// RefreshPipeline recomputes the snapshot store for one timeframe: fetch
// bars per tracked instrument, compute and compress indicators, publish,
// flush. One instrument's failure never aborts the pass.
type RefreshPipeline struct {
	source BarSource
	store  *snapshot.Store
	tokens []string
	policy retry.Policy
}

// NewRefreshPipeline creates a pipeline over the given bar source and
// snapshot store, tracking the given token universe.
func NewRefreshPipeline(source BarSource, store *snapshot.Store, tokens []string) *RefreshPipeline {
	if len(tokens) == 0 {
		tokens = DefaultTokens
	}
	return &RefreshPipeline{
		source: source,
		store:  store,
		tokens: tokens,
		policy: retry.FetchPolicy(),
	}
}

// Refresh runs one full pass for the timeframe. It never returns an error
// for per-instrument failures: those publish the empty sentinel and the
// pass continues. Only the surrounding plumbing (durable-tier load/flush)
// surfaces errors, and even those are logged rather than propagated so a
// bad pass cannot disable future scheduled triggers.
func (p *RefreshPipeline) Refresh(ctx context.Context, tf types.Timeframe) {
	started := time.Now()
	log.Printf("Refreshing market data (%s) for %d instruments...", tf, len(p.tokens))

	// Recovery baseline: last persisted tier, or empty when none exists.
	if err := p.store.Load(ctx, tf); err != nil {
		log.Printf("Snapshot load failed for %s, starting from empty tier: %v", tf, err)
	}

	for start := 0; start < len(p.tokens); start += refreshBatchSize {
		end := start + refreshBatchSize
		if end > len(p.tokens) {
			end = len(p.tokens)
		}
		p.refreshBatch(ctx, tf, p.tokens[start:end])
	}

	if err := p.store.Flush(ctx, tf); err != nil {
		log.Printf("Snapshot flush failed for %s: %v", tf, err)
		monitoring.RecordError("snapshot_flush")
	}

	monitoring.ObserveRefresh(string(tf), time.Since(started))
	log.Printf("Refreshed market data (%s) in %s", tf, time.Since(started).Round(time.Millisecond))
}

// refreshBatch processes one instrument batch; members run concurrently and
// the batch drains before the next one starts.
func (p *RefreshPipeline) refreshBatch(ctx context.Context, tf types.Timeframe, tokens []string) {
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			pair := types.InstrumentPair(token)

			snap, err := p.buildSnapshot(ctx, tf, pair)
			if err != nil {
				log.Printf("Refresh failed for %s %s: %v", pair, tf, err)
				monitoring.RecordInstrumentFailure(string(tf), pair)
				// Explicit sentinel: never leave a stale entry silently.
				p.store.Publish(tf, pair, types.EmptySnapshot())
				return
			}
			p.store.Publish(tf, pair, snap)
		}(token)
	}
	wg.Wait()
}

// buildSnapshot fetches bars with retry and turns them into a published
// snapshot. Validation errors are not retried; fetch errors are.
func (p *RefreshPipeline) buildSnapshot(ctx context.Context, tf types.Timeframe, pair string) (*types.MarketSnapshot, error) {
	var candles []types.Candle
	err := p.policy.Do(ctx, func() error {
		var fetchErr error
		candles, fetchErr = p.source.FetchBars(ctx, tf, pair)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if len(candles) < 2 {
		return nil, fmt.Errorf("need at least 2 candles for change percent, have %d", len(candles))
	}

	set, err := indicators.Compute(tf, candles)
	if err != nil {
		return nil, err
	}

	last := candles[len(candles)-1].Close
	prev := candles[len(candles)-2].Close
	if prev == 0 {
		return nil, fmt.Errorf("zero previous close for %s %s", pair, tf)
	}

	return &types.MarketSnapshot{
		OptimizedIndicator: snapshot.Compress(set),
		CurrentPrice:       last,
		ChangePercent:      fmt.Sprintf("%.2f", (last-prev)/prev*100),
	}, nil
}
