package evaluator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Suharaz/MerkleAI/internal/broker"
	"github.com/Suharaz/MerkleAI/internal/monitoring"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

const (
	minOrderNotional = 300
	maxLeverage      = 150
)

// executeDecisions runs every decision in order against the user's venue
// session and returns the combined user-facing report. A failing decision is
// reported and does not stop later ones.
func executeDecisions(ctx context.Context, session broker.Session, token string, positions []types.Position, balance float64, decisions []types.TradingDecision) string {
	pair := types.InstrumentPair(token)

	var parts []string
	for _, decision := range decisions {
		msg, err := executeDecision(ctx, session, pair, positions, balance, decision)
		if err != nil {
			log.Printf("decision %s for %s failed: %v", decision.Action, pair, err)
			monitoring.RecordError("decision_execution")
			msg = fmt.Sprintf("*Action*: %s failed\n*Reason*: %v", decision.Action, err)
		} else {
			monitoring.RecordDecision(string(decision.Action))
		}
		if msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "\n\n")
}

func executeDecision(ctx context.Context, session broker.Session, pair string, positions []types.Position, balance float64, d types.TradingDecision) (string, error) {
	switch d.Action {
	case types.ActionBuy, types.ActionSell:
		return executeOrder(ctx, session, pair, balance, d)

	case types.ActionHold:
		return fmt.Sprintf("*Action*: Do nothing\n*Reason*: %s", d.Reasoning), nil

	case types.ActionCancelOrders:
		return executeCancel(ctx, session, pair, d)

	case types.ActionUpdateTPSL:
		return executeUpdateTPSL(ctx, session, pair, positions, d)
	}
	return "", fmt.Errorf("unsupported action %q", d.Action)
}

// executeOrder applies the pre-trade guards and places the limit order. A
// guard rejection is a normal outcome reported to the user, not an error.
func executeOrder(ctx context.Context, session broker.Session, pair string, balance float64, d types.TradingDecision) (string, error) {
	if d.EntryPoint <= 0 || d.StopLoss <= 0 || d.TakeProfit <= 0 || d.Leverage <= 0 || d.Pay <= 0 {
		return fmt.Sprintf("*Action*: Do nothing\n*Reason*: Incomplete order parameters for %s.", d.Action), nil
	}

	notional := d.Pay * d.Leverage
	if notional <= minOrderNotional {
		return fmt.Sprintf("*Action*: Do nothing\n*Reason*: Order size is too small: %g USDT", notional), nil
	}
	if d.Pay >= balance {
		return fmt.Sprintf("*Action*: Do nothing\n*Reason*: Order size is too large: %g USDT. Available balance: %g USDT", d.Pay, balance), nil
	}
	if d.Leverage > maxLeverage {
		return fmt.Sprintf("*Action*: Do nothing\n*Reason*: Leverage is too high: %gx", d.Leverage), nil
	}

	tx, err := session.OpenOrder(ctx, broker.OpenOrderParams{
		Pair:       pair,
		Entry:      d.EntryPoint,
		StopLoss:   d.StopLoss,
		TakeProfit: d.TakeProfit,
		Leverage:   d.Leverage,
		Pay:        d.Pay,
		IsLong:     d.Action == types.ActionBuy,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("*Action*: %s order placed for %s (order %s)\n*Reason*: %s",
		strings.ToUpper(string(d.Action)), pair, tx.OrderID, d.Reasoning), nil
}

func executeCancel(ctx context.Context, session broker.Session, pair string, d types.TradingDecision) (string, error) {
	if len(d.OrderIDs) == 0 {
		return "*Action*: Do nothing\n*Reason*: No orders listed to cancel.", nil
	}

	var parts []string
	for _, orderID := range d.OrderIDs {
		if _, err := session.CancelOrder(ctx, pair, orderID); err != nil {
			return strings.Join(parts, "\n"), fmt.Errorf("cancel order %s: %w", orderID, err)
		}
		parts = append(parts, fmt.Sprintf("*Action*: Order %s cancelled for %s", orderID, pair))
	}
	parts = append(parts, fmt.Sprintf("*Reason*: %s", d.Reasoning))
	return strings.Join(parts, "\n"), nil
}

// executeUpdateTPSL updates stops on the open position whose side matches
// the decision, keeping the existing stop for any side the model left unset.
func executeUpdateTPSL(ctx context.Context, session broker.Session, pair string, positions []types.Position, d types.TradingDecision) (string, error) {
	var match *types.Position
	for i := range positions {
		if positions[i].IsLong == d.IsLong {
			match = &positions[i]
			break
		}
	}
	if match == nil {
		return "*Action*: Do nothing\n*Reason*: No matching open position to update.", nil
	}

	stopLoss := d.NewSL
	if stopLoss == 0 {
		stopLoss = match.StopLoss
	}
	takeProfit := d.NewTP
	if takeProfit == 0 {
		takeProfit = match.TakeProfit
	}

	if _, err := session.UpdateStopLossTakeProfit(ctx, pair, match.IsLong, stopLoss, takeProfit); err != nil {
		return "", err
	}
	return fmt.Sprintf("*Action*: TP/SL updated for %s\n*Reason*: %s", pair, d.Reasoning), nil
}
