package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

func TestParseDecisions_SingleObject(t *testing.T) {
	reply := `{"action": "buy", "leverage": 10, "pay": 50, "entryPoint": 95.5,
		"stopLoss": 90, "takeProfit": 120, "isLong": true, "reasoning": "breakout"}`

	decisions, err := parseDecisions(reply)
	require.NoError(t, err)
	require.Len(t, decisions, 1)

	d := decisions[0]
	assert.Equal(t, types.ActionBuy, d.Action)
	assert.Equal(t, 10.0, d.Leverage)
	assert.Equal(t, 95.5, d.EntryPoint)
	assert.Equal(t, "breakout", d.Reasoning)
}

func TestParseDecisions_Array(t *testing.T) {
	reply := `[{"action": "hold", "reasoning": "wait"}, {"action": "sell", "leverage": 5}]`

	decisions, err := parseDecisions(reply)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, types.ActionHold, decisions[0].Action)
	assert.Equal(t, types.ActionSell, decisions[1].Action)
}

func TestParseDecisions_StrategiesEnvelope(t *testing.T) {
	reply := `{"strategies": [{"action": "update TPSL", "newSL": 88, "newTP": 130}]}`

	decisions, err := parseDecisions(reply)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, types.ActionUpdateTPSL, decisions[0].Action)
	assert.Equal(t, 88.0, decisions[0].NewSL)
}

func TestParseDecisions_OrderIDsAsNumbersOrStrings(t *testing.T) {
	reply := `{"action": "cancel orders", "orderIds": [123, "abc-456"]}`

	decisions, err := parseDecisions(reply)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, []string{"123", "abc-456"}, decisions[0].OrderIDs)
}

func TestParseDecisions_GarbageFails(t *testing.T) {
	_, err := parseDecisions("I think you should buy, the chart looks great")
	assert.Error(t, err)

	_, err = parseDecisions("")
	assert.Error(t, err)
}

func TestFilterValid_DropsUnknownActions(t *testing.T) {
	decisions := []types.TradingDecision{
		{Action: types.ActionBuy},
		{Action: "yolo"},
		{Action: types.ActionHold},
	}

	valid := filterValid(decisions)
	require.Len(t, valid, 2)
	assert.Equal(t, types.ActionBuy, valid[0].Action)
	assert.Equal(t, types.ActionHold, valid[1].Action)
}

func TestBuildPrompt_IncludesMarketState(t *testing.T) {
	input := types.StrategyInput{
		Token:         "BTC",
		Timeframe:     types.Timeframe1h,
		CurrentPrice:  50000,
		ChangePercent: "1.25",
		Spread:        0.001,
		Balance:       1000,
		Indicators:    map[string]interface{}{"atr14": types.SeriesSummary{LastValue: 320.5}},
		OpenPositions: []types.Position{
			{IsLong: true, Collateral: 50, AvgPrice: 49000, StopLoss: 47000, TakeProfit: 55000, Leverage: 10},
		},
		PendingOrders: []types.PendingOrder{
			{OrderID: "o-1", IsLong: false, Entry: 51000},
		},
	}

	prompt := buildPrompt(input)

	assert.Contains(t, prompt, "BTC/USD")
	assert.Contains(t, prompt, "1h timeframe")
	assert.Contains(t, prompt, "up 1.25%")
	assert.Contains(t, prompt, "Long, collateral: 50 USDT")
	assert.Contains(t, prompt, "OrderId: o-1")
	assert.Contains(t, prompt, "atr14")
}

func TestBuildPrompt_DownTrendAndEmptyState(t *testing.T) {
	input := types.StrategyInput{
		Token:         "ETH",
		Timeframe:     types.Timeframe5m,
		CurrentPrice:  3000,
		ChangePercent: "-2.10",
		Balance:       500,
	}

	prompt := buildPrompt(input)

	assert.Contains(t, prompt, "down 2.10%")
	assert.Contains(t, prompt, "No open positions.")
	assert.Contains(t, prompt, "There are no limit orders.")
	assert.Contains(t, prompt, "No indicator data.")
}
