package strategy

import (
	"context"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// Generator produces trading decisions from a structured market view.
type Generator interface {
	Generate(ctx context.Context, input types.StrategyInput) ([]types.TradingDecision, error)
}

// filterValid drops decisions whose action is not one the executor understands.
// Model output is untrusted; anything unrecognized is discarded silently.
func filterValid(decisions []types.TradingDecision) []types.TradingDecision {
	valid := decisions[:0]
	for _, d := range decisions {
		if d.Action.IsValid() {
			valid = append(valid, d)
		}
	}
	return valid
}
