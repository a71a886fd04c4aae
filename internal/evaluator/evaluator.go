// Package evaluator runs per-user strategy evaluations for one timeframe:
// snapshot lookup, indicator filtering, model call, and order execution.
package evaluator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Suharaz/MerkleAI/internal/broker"
	"github.com/Suharaz/MerkleAI/internal/monitoring"
	"github.com/Suharaz/MerkleAI/internal/notifications"
	"github.com/Suharaz/MerkleAI/internal/snapshot"
	"github.com/Suharaz/MerkleAI/internal/strategy"
	"github.com/Suharaz/MerkleAI/internal/users"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

const (
	defaultConcurrency = 5
	defaultSpread      = 0.001
)

// Evaluator fans evaluation work out over the active users of a timeframe.
type Evaluator struct {
	users       users.Store
	snapshots   *snapshot.Store
	generator   strategy.Generator
	brokers     broker.Factory
	notifier    notifications.Notifier
	concurrency int
	spread      float64
}

// New wires an evaluator over its collaborators.
func New(userStore users.Store, snapshots *snapshot.Store, generator strategy.Generator, brokers broker.Factory, notifier notifications.Notifier) *Evaluator {
	return &Evaluator{
		users:       userStore,
		snapshots:   snapshots,
		generator:   generator,
		brokers:     brokers,
		notifier:    notifier,
		concurrency: defaultConcurrency,
		spread:      defaultSpread,
	}
}

// EvaluateTimeframe evaluates every active user configured for the
// timeframe. Users run concurrently up to the pool limit; the call returns
// only after the last user finishes. Per-user failures are reported to that
// user and never abort the batch.
func (e *Evaluator) EvaluateTimeframe(ctx context.Context, tf types.Timeframe) error {
	activeUsers, err := e.users.ListActiveByTimeframe(ctx, tf)
	if err != nil {
		monitoring.RecordError("user_listing")
		return fmt.Errorf("list users for %s: %w", tf, err)
	}
	if len(activeUsers) == 0 {
		log.Printf("no active users in timeframe %s", tf)
		return nil
	}

	log.Printf("evaluating %d users in timeframe %s", len(activeUsers), tf)
	start := time.Now()

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for _, user := range activeUsers {
		wg.Add(1)
		sem <- struct{}{}
		go func(user types.UserData) {
			defer wg.Done()
			defer func() { <-sem }()
			e.evaluateUser(ctx, tf, user)
		}(user)
	}
	wg.Wait()

	log.Printf("completed timeframe %s in %s", tf, time.Since(start).Round(time.Millisecond))
	return nil
}

// evaluateUser runs one user's full evaluation and delivers exactly one
// message describing the outcome.
func (e *Evaluator) evaluateUser(ctx context.Context, tf types.Timeframe, user types.UserData) {
	message, outcome := e.runEvaluation(ctx, tf, user)
	monitoring.RecordEvaluation(string(tf), outcome)

	if message == "" {
		message = "Evaluation completed but no details provided."
	}
	if err := e.notifier.SendMessage(ctx, user.ChatID, message); err != nil {
		log.Printf("notify user %d: %v", user.ChatID, err)
		monitoring.RecordError("notification")
	}
}

func (e *Evaluator) runEvaluation(ctx context.Context, tf types.Timeframe, user types.UserData) (message, outcome string) {
	cfg := user.Config
	if err := cfg.Validate(); err != nil {
		log.Printf("user %d has invalid agent config: %v", user.ChatID, err)
		return fmt.Sprintf("Your agent configuration is incomplete: %v. Please reconfigure it.", err), "skipped"
	}

	pair := types.InstrumentPair(cfg.Token)
	snap, err := e.snapshots.Get(ctx, tf, pair)
	if err != nil {
		log.Printf("snapshot lookup %s/%s: %v", tf, pair, err)
		monitoring.RecordError("snapshot_lookup")
		return fmt.Sprintf("Market data for *%s* (%s) is unavailable right now.", cfg.Token, tf), "error"
	}
	if snap.IsEmpty() {
		return fmt.Sprintf("No market data available for *%s* (%s). Skipping this cycle.", cfg.Token, tf), "no_data"
	}

	session, err := e.brokers.SessionFor(user)
	if err != nil {
		log.Printf("session for user %d: %v", user.ChatID, err)
		return "Unable to access your trading account. Please check your API credentials.", "error"
	}

	balance, err := session.GetBalance(ctx)
	if err != nil {
		log.Printf("balance for user %d: %v", user.ChatID, err)
		monitoring.RecordError("venue_balance")
		return fmt.Sprintf("Unable to read your account balance: %v", err), "error"
	}
	positions, err := session.GetPositions(ctx, pair)
	if err != nil {
		log.Printf("positions for user %d: %v", user.ChatID, err)
		monitoring.RecordError("venue_positions")
		return fmt.Sprintf("Unable to read your open positions: %v", err), "error"
	}
	pendingOrders, err := session.GetPendingOrders(ctx, pair)
	if err != nil {
		log.Printf("pending orders for user %d: %v", user.ChatID, err)
		monitoring.RecordError("venue_orders")
		return fmt.Sprintf("Unable to read your open orders: %v", err), "error"
	}

	input := types.StrategyInput{
		Token:         cfg.Token,
		Timeframe:     tf,
		CurrentPrice:  snap.CurrentPrice,
		ChangePercent: snap.ChangePercent,
		Indicators:    filterIndicators(snap.OptimizedIndicator, cfg.Indicators),
		Balance:       balance,
		OpenPositions: positions,
		PendingOrders: pendingOrders,
		Spread:        e.spread,
		AIModel:       cfg.AIModel,
	}

	decisions, err := e.generator.Generate(ctx, input)
	if err != nil {
		log.Printf("strategy generation for user %d: %v", user.ChatID, err)
		monitoring.RecordError("strategy_generation")
		return fmt.Sprintf("Error creating trading strategy for *%s*.", cfg.Token), "error"
	}
	if len(decisions) == 0 {
		return fmt.Sprintf("No trading strategies produced for *%s* (%s).", cfg.Token, tf), "no_strategy"
	}

	return executeDecisions(ctx, session, cfg.Token, positions, balance, decisions), "executed"
}
