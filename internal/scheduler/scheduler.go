// Package scheduler drives the timeframe cascade: one five-minute trigger
// that refreshes market data and evaluates users for every timeframe whose
// boundary the current wall-clock tick crosses.
package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Suharaz/MerkleAI/internal/logger"
	"github.com/Suharaz/MerkleAI/internal/monitoring"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

// ErrCascadeBusy is returned when a manually triggered step would overlap a
// cascade already in flight.
var ErrCascadeBusy = errors.New("cascade already running")

// cascadeOrder lists the scheduled timeframes coarse to fine. A tick that
// crosses several boundaries runs them in this order, so finer evaluations
// see the freshest coarse data.
var cascadeOrder = []types.Timeframe{
	types.Timeframe1d,
	types.Timeframe4h,
	types.Timeframe1h,
	types.Timeframe5m,
}

// Refresher rebuilds one timeframe's market snapshots.
type Refresher interface {
	Refresh(ctx context.Context, tf types.Timeframe)
}

// Evaluator runs one timeframe's user evaluations.
type Evaluator interface {
	EvaluateTimeframe(ctx context.Context, tf types.Timeframe) error
}

// BoardUpdater recomputes the rankings. It runs as the trailing step of a
// cascade that crossed the daily boundary.
type BoardUpdater interface {
	Update(ctx context.Context) error
}

// Scheduler owns the cron loop and serializes cascade runs.
type Scheduler struct {
	cron      *gocron.Scheduler
	refresher Refresher
	eval      Evaluator
	board     BoardUpdater
	health    *monitoring.HealthChecker

	// runMu guarantees at most one cascade in flight; a tick arriving while
	// the previous run is still working is dropped, not queued.
	runMu sync.Mutex

	activityMu sync.Mutex
	activity   map[types.Timeframe]*logger.Logger
}

// New wires a scheduler over its collaborators. The board may be nil when
// rankings are disabled.
func New(refresher Refresher, eval Evaluator, board BoardUpdater, health *monitoring.HealthChecker) *Scheduler {
	return &Scheduler{
		cron:      gocron.NewScheduler(time.UTC),
		refresher: refresher,
		eval:      eval,
		board:     board,
		health:    health,
		activity:  make(map[types.Timeframe]*logger.Logger),
	}
}

// Start registers the cascade tick and runs the scheduler in the background.
func (s *Scheduler) Start(ctx context.Context) {
	log.Println("starting scheduler")

	s.cron.Cron("*/5 * * * *").Do(func() {
		s.runCascade(ctx, time.Now().UTC())
	})

	s.cron.StartAsync()
	log.Println("scheduler started")
}

// Stop halts the cron loop. A cascade already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("scheduler stopped")
}

// runCascade executes one tick: every timeframe whose boundary the tick
// crosses, coarse to fine, refresh before evaluate. A tick that crossed the
// daily boundary recomputes the leaderboard after the whole cascade, still
// under the run lock so rankings never race an in-flight evaluation.
func (s *Scheduler) runCascade(ctx context.Context, now time.Time) {
	if !s.runMu.TryLock() {
		log.Println("cascade still running, skipping tick")
		monitoring.RecordError("cascade_overlap")
		return
	}
	defer s.runMu.Unlock()

	matched := matchingTimeframes(now)
	for _, tf := range matched {
		s.cascadeStep(ctx, tf)
	}
	if s.board != nil && len(matched) > 0 && matched[0] == types.Timeframe1d {
		if err := s.board.Update(ctx); err != nil {
			log.Printf("leaderboard update: %v", err)
			monitoring.RecordError("leaderboard_update")
		}
	}
	if s.health != nil {
		s.health.MarkCascade()
	}
}

// RunCascadeStep refreshes one timeframe's market data and then evaluates
// its users. Exposed so operators can trigger a single step manually; it
// takes the same run lock as the scheduled cascade and reports
// ErrCascadeBusy instead of interleaving with one.
func (s *Scheduler) RunCascadeStep(ctx context.Context, tf types.Timeframe) error {
	if !s.runMu.TryLock() {
		return ErrCascadeBusy
	}
	defer s.runMu.Unlock()

	s.cascadeStep(ctx, tf)
	return nil
}

// cascadeStep is the locked body of one step. Callers hold runMu.
func (s *Scheduler) cascadeStep(ctx context.Context, tf types.Timeframe) {
	log.Printf("cascade step %s", tf)
	activity := s.activityLog(tf)
	start := time.Now()

	s.refresher.Refresh(ctx, tf)
	if activity != nil {
		activity.Info("refresh finished in %s", time.Since(start).Round(time.Millisecond))
	}

	if err := s.eval.EvaluateTimeframe(ctx, tf); err != nil {
		log.Printf("evaluate %s: %v", tf, err)
		if activity != nil {
			activity.Error("evaluation failed: %v", err)
		}
		if s.health != nil {
			s.health.MarkError(err.Error())
		}
		return
	}
	if activity != nil {
		activity.Info("cascade step finished in %s", time.Since(start).Round(time.Millisecond))
	}
}

// activityLog returns the per-timeframe file log, creating it on first use.
// Logging stays best-effort; a file error disables the activity log for
// that timeframe without touching the cascade.
func (s *Scheduler) activityLog(tf types.Timeframe) *logger.Logger {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	if l, ok := s.activity[tf]; ok {
		return l
	}
	l, err := logger.NewLogger(string(tf))
	if err != nil {
		log.Printf("activity log for %s: %v", tf, err)
		s.activity[tf] = nil
		return nil
	}
	s.activity[tf] = l
	return l
}

// EvaluateTimeframe runs one timeframe's evaluation without a refresh,
// against whatever snapshots are current.
func (s *Scheduler) EvaluateTimeframe(ctx context.Context, tf types.Timeframe) error {
	return s.eval.EvaluateTimeframe(ctx, tf)
}

// matchingTimeframes returns the timeframes whose period boundary the tick
// lands on, in cascade order. The five-minute tick always matches.
func matchingTimeframes(now time.Time) []types.Timeframe {
	t := now.Truncate(5 * time.Minute)

	var matched []types.Timeframe
	for _, tf := range cascadeOrder {
		switch tf {
		case types.Timeframe1d:
			if t.Hour() == 0 && t.Minute() == 0 {
				matched = append(matched, tf)
			}
		case types.Timeframe4h:
			if t.Hour()%4 == 0 && t.Minute() == 0 {
				matched = append(matched, tf)
			}
		case types.Timeframe1h:
			if t.Minute() == 0 {
				matched = append(matched, tf)
			}
		case types.Timeframe5m:
			matched = append(matched, tf)
		}
	}
	return matched
}
