// Package leaderboard recomputes and serves per-window user rankings from
// realized trading results.
package leaderboard

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"time"

	"github.com/Suharaz/MerkleAI/internal/broker"
	"github.com/Suharaz/MerkleAI/internal/users"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

// Windows lists the ranking windows, recomputed in this order.
var Windows = []string{"1d", "7d", "1m", "all"}

// windowStart returns the inclusive lower time bound for a window, or the
// zero time for the unbounded "all" window.
func windowStart(window string, now time.Time) time.Time {
	switch window {
	case "1d":
		return now.AddDate(0, 0, -1)
	case "7d":
		return now.AddDate(0, 0, -7)
	case "1m":
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// Service recomputes rankings from venue trade history, persists them
// through the account store, prints them, and exports a workbook.
type Service struct {
	users   users.Store
	brokers broker.Factory

	// console receives the per-window tables after each recompute.
	console io.Writer
	// exportPath is the xlsx workbook destination; empty disables export.
	exportPath string
}

func NewService(userStore users.Store, brokers broker.Factory, exportPath string) *Service {
	return &Service{
		users:      userStore,
		brokers:    brokers,
		console:    os.Stdout,
		exportPath: exportPath,
	}
}

// Update recomputes every window for every agent-enabled user. One user's
// history is fetched once for the widest window and each narrower window is
// derived from it. Users whose history cannot be read are left out of this
// recompute; the pass carries on.
func (s *Service) Update(ctx context.Context) error {
	agents, err := s.users.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}

	now := time.Now()
	entriesByWindow := make(map[string][]types.LeaderboardEntry, len(Windows))

	for _, user := range agents {
		session, err := s.brokers.SessionFor(user)
		if err != nil {
			log.Printf("leaderboard: session for user %d: %v", user.ChatID, err)
			continue
		}
		records, err := session.GetTradingHistory(ctx, time.Time{})
		if err != nil {
			log.Printf("leaderboard: history for user %d: %v", user.ChatID, err)
			continue
		}

		name := user.Username
		if user.Config != nil && user.Config.Name != "" {
			name = user.Config.Name
		}

		for _, window := range Windows {
			entry := aggregate(records, windowStart(window, now))
			entry.ChatID = user.ChatID
			entry.Username = name
			entriesByWindow[window] = append(entriesByWindow[window], entry)
		}
	}

	for _, window := range Windows {
		entries := entriesByWindow[window]
		sortEntries(entries)
		if err := s.users.SaveLeaderboard(ctx, window, entries); err != nil {
			return fmt.Errorf("save leaderboard %s: %w", window, err)
		}
		if s.console != nil {
			RenderTable(s.console, window, entries)
		}
	}

	if s.exportPath != "" {
		if err := ExportExcel(s.exportPath, entriesByWindow); err != nil {
			log.Printf("leaderboard export: %v", err)
		}
	}

	log.Printf("leaderboard updated for %d users across %d windows", len(agents), len(Windows))
	return nil
}

// Get returns one window's ranking in stored order.
func (s *Service) Get(ctx context.Context, window string) ([]types.LeaderboardEntry, error) {
	return s.users.LoadLeaderboard(ctx, window)
}

// aggregate folds trade records at or after the cutoff into one entry.
// Zero-pnl trades count as neither win nor loss.
func aggregate(records []broker.TradeRecord, since time.Time) types.LeaderboardEntry {
	var entry types.LeaderboardEntry
	for _, r := range records {
		if !since.IsZero() && r.ClosedAt.Before(since) {
			continue
		}
		entry.PnL += r.PnL
		switch {
		case r.PnL > 0:
			entry.Wins++
		case r.PnL < 0:
			entry.Losses++
		}
	}
	if total := entry.Wins + entry.Losses; total > 0 {
		entry.WinRate = math.Round(float64(entry.Wins)/float64(total)*10000) / 100
	}
	return entry
}

// sortEntries orders by win rate descending, then pnl descending.
func sortEntries(entries []types.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WinRate != entries[j].WinRate {
			return entries[i].WinRate > entries[j].WinRate
		}
		return entries[i].PnL > entries[j].PnL
	})
}
