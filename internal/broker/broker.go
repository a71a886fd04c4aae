// Package broker is the order-execution collaborator: per-user venue
// sessions for balances, positions, orders and trading history.
package broker

import (
	"context"
	"time"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// OpenOrderParams describes one limit order to place.
type OpenOrderParams struct {
	Pair       string
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	Leverage   float64
	Pay        float64
	IsLong     bool
}

// Transaction is the venue's handle for an executed operation. A nil
// transaction with a nil error means "did not execute", not a crash.
type Transaction struct {
	OrderID string
}

// TradeRecord is one closed trade used by the leaderboard recompute.
type TradeRecord struct {
	Pair     string
	PnL      float64
	ClosedAt time.Time
}

// Session is one user's authenticated connection to the execution venue.
type Session interface {
	GetBalance(ctx context.Context) (float64, error)
	GetPositions(ctx context.Context, pair string) ([]types.Position, error)
	GetPendingOrders(ctx context.Context, pair string) ([]types.PendingOrder, error)

	OpenOrder(ctx context.Context, params OpenOrderParams) (*Transaction, error)
	CancelOrder(ctx context.Context, pair, orderID string) (*Transaction, error)
	UpdateStopLossTakeProfit(ctx context.Context, pair string, isLong bool, stopLoss, takeProfit float64) (*Transaction, error)

	GetTradingHistory(ctx context.Context, since time.Time) ([]TradeRecord, error)
}

// Factory builds a session from a user's stored venue credentials.
type Factory interface {
	SessionFor(user types.UserData) (Session, error)
}
