package strategy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// buildPrompt renders the analysis request handed to the language model.
// The wording is load-bearing: the model is instructed to answer in the
// exact JSON shape parseDecisions expects.
func buildPrompt(input types.StrategyInput) string {
	pair := strings.Replace(input.Token, "_USD", "/USD", 1)

	trend := fmt.Sprintf("up %s%%", input.ChangePercent)
	if strings.HasPrefix(input.ChangePercent, "-") {
		trend = fmt.Sprintf("down %s%%", strings.TrimPrefix(input.ChangePercent, "-"))
	}

	var positions string
	if len(input.OpenPositions) == 0 {
		positions = "No open positions."
	} else {
		lines := make([]string, 0, len(input.OpenPositions))
		for _, pos := range input.OpenPositions {
			side := "Short"
			if pos.IsLong {
				side = "Long"
			}
			lines = append(lines, fmt.Sprintf("%s, collateral: %g USDT, avgPrice: %g, SL: %g, TP: %g, Leverage: %g",
				side, pos.Collateral, pos.AvgPrice, pos.StopLoss, pos.TakeProfit, pos.Leverage))
		}
		positions = strings.Join(lines, "\n")
	}

	var orders string
	if len(input.PendingOrders) == 0 {
		orders = "There are no limit orders."
	} else {
		lines := make([]string, 0, len(input.PendingOrders))
		for _, lo := range input.PendingOrders {
			side := "Short"
			if lo.IsLong {
				side = "Long"
			}
			lines = append(lines, fmt.Sprintf("OrderId: %s, %s, entry: %g USDT, Leverage: %g",
				lo.OrderID, side, lo.Entry, lo.Leverage))
		}
		orders = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are a professional cryptocurrency trader with many years of experience in derivatives trading. Analyze the pair %s on the %s timeframe and come up with the most optimal trading strategy based on the following data:

**Price data:**

- Current price: %g
- Spread: %g%%
- Trend: price has %s

**Technical indicators:**
%s

**Current position:**
%s

**Limit order:**
%s

### Requirements:

1. Choose the most optimal trading action: "buy", "sell", "hold", "cancel orders", or "update TPSL".
2. Explain your trading decision with detailed technical analysis.
3. If the decision is to "buy" or "sell":
- Suggest appropriate leverage (3x-150x) and capital ratio to use (0-100%%).
- Determine the entry point (always less than %g), Stop Loss and Take Profit (TP max 890%%).
- Calculate Risk-Reward Ratio (R:R) and explain why it is reasonable.
4. If the decision is to "cancel orders":
- List the orderId to cancel and the specific reason.
5. If the decision is to "update TPSL":
- Provide the new value of Stop Loss and Take Profit along with the reason for the adjustment.
6. I have a balance of %g. You must calculate so that the order (pay * leverage) must always >300 and pay < %g.
If there is no strategy suitable for the current balance, return the action hold, with the reason.

**Important Note:**
- The analysis must be logical and use the given data.
- Can provide 1 or more strategies, as long as it is the most optimal and effective.
- The result must be returned in valid JSON format:

{
"action": "buy" | "sell" | "hold" | "cancel orders" | "update TPSL",
"leverage": number | null,
"pay": number | null,
"entryPoint": number | null,
"stopLoss": number | null,
"takeProfit": number | null,
"newSL": number | null,
"newTP": number | null,
"isLong": boolean,
"riskRewardRatio": number | null,
"orderIds": string[] | null,
"reasoning": "string"
}`,
		pair, input.Timeframe, input.CurrentPrice, input.Spread, trend,
		describeIndicators(input.Indicators), positions, orders,
		input.CurrentPrice, input.Balance, input.Balance)
}

// describeIndicators serializes the flattened indicator map so keys appear
// in a stable order across runs.
func describeIndicators(indicators map[string]interface{}) string {
	if len(indicators) == 0 {
		return "No indicator data."
	}
	data, err := json.MarshalIndent(indicators, "", "  ")
	if err != nil {
		return "No indicator data."
	}
	return string(data)
}
