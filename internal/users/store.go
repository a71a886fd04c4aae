// Package users is the account-store collaborator: user records with their
// agent configs, running flags, and leaderboard documents.
package users

import (
	"context"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// Store is the read-mostly account interface the core consumes. Balance
// mutation belongs to the execution venue, not here.
type Store interface {
	// ListActiveByTimeframe returns users whose agent is enabled, whose
	// running flag is set, and whose configured timeframe matches.
	ListActiveByTimeframe(ctx context.Context, tf types.Timeframe) ([]types.UserData, error)

	// ListAgents returns every user with the agent enabled, regardless of
	// running state. Used by the leaderboard recompute.
	ListAgents(ctx context.Context) ([]types.UserData, error)

	// SetRunning flips a user's running flag.
	SetRunning(ctx context.Context, chatID int64, running bool) error

	// SaveLeaderboard overwrites one window's leaderboard entries.
	SaveLeaderboard(ctx context.Context, window string, entries []types.LeaderboardEntry) error

	// LoadLeaderboard reads one window's leaderboard entries in stored order.
	LoadLeaderboard(ctx context.Context, window string) ([]types.LeaderboardEntry, error)
}
