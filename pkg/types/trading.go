package types

// DecisionAction enumerates the actions a strategy generator may return.
type DecisionAction string

const (
	ActionBuy          DecisionAction = "buy"
	ActionSell         DecisionAction = "sell"
	ActionHold         DecisionAction = "hold"
	ActionCancelOrders DecisionAction = "cancel orders"
	ActionUpdateTPSL   DecisionAction = "update TPSL"
)

// IsValid reports whether the action is one the executor understands.
func (a DecisionAction) IsValid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionHold, ActionCancelOrders, ActionUpdateTPSL:
		return true
	}
	return false
}

// TradingDecision is one structured decision produced by the strategy
// generator. Consumed once and discarded after the execution attempt.
type TradingDecision struct {
	Action          DecisionAction `json:"action"`
	Leverage        float64        `json:"leverage,omitempty"`
	Pay             float64        `json:"pay,omitempty"`
	EntryPoint      float64        `json:"entryPoint,omitempty"`
	StopLoss        float64        `json:"stopLoss,omitempty"`
	TakeProfit      float64        `json:"takeProfit,omitempty"`
	NewSL           float64        `json:"newSL,omitempty"`
	NewTP           float64        `json:"newTP,omitempty"`
	IsLong          bool           `json:"isLong"`
	RiskRewardRatio float64        `json:"riskRewardRatio,omitempty"`
	OrderIDs        []string       `json:"orderIds,omitempty"`
	Reasoning       string         `json:"reasoning"`
}

// Position is one open position on the execution venue.
type Position struct {
	Size       float64 `json:"size"`
	AvgPrice   float64 `json:"avgPrice"`
	Collateral float64 `json:"collateral"`
	IsLong     bool    `json:"isLong"`
	StopLoss   float64 `json:"SL"`
	TakeProfit float64 `json:"TP"`
	Leverage   float64 `json:"leverage"`
	Pair       string  `json:"pair"`
}

// PendingOrder is one resting limit order on the execution venue.
type PendingOrder struct {
	OrderID  string  `json:"orderId"`
	Entry    float64 `json:"entry"`
	IsLong   bool    `json:"isLong"`
	Leverage float64 `json:"leverage"`
}

// StrategyInput is the structured payload handed to the strategy generator
// for one per-user evaluation.
type StrategyInput struct {
	Token         string
	Timeframe     Timeframe
	CurrentPrice  float64
	ChangePercent string
	Indicators    map[string]interface{}
	Balance       float64
	OpenPositions []Position
	PendingOrders []PendingOrder
	Spread        float64
	AIModel       string
}

// AgentConfig is a user's trading-agent configuration, owned by the account
// store and consumed read-only by the evaluator.
type AgentConfig struct {
	Type       string    `bson:"type" json:"type"`
	Name       string    `bson:"name" json:"name"`
	Token      string    `bson:"token" json:"token"`
	Indicators []string  `bson:"indicators" json:"indicators"`
	AIModel    string    `bson:"ai_model" json:"ai_model"`
	Timeframe  Timeframe `bson:"timeframe" json:"timeframe"`
}

// MaxIndicators caps how many indicator families one agent may select.
const MaxIndicators = 4

// Validate checks the invariant that an active agent has a fully populated
// config. Violations are skipped and reported by the evaluator, never fatal.
func (c *AgentConfig) Validate() error {
	if c == nil {
		return ErrConfigMissing
	}
	if c.Token == "" {
		return ErrConfigNoToken
	}
	if len(c.Indicators) == 0 {
		return ErrConfigNoIndicators
	}
	if len(c.Indicators) > MaxIndicators {
		return ErrConfigTooManyIndicators
	}
	if !c.Timeframe.IsValid() {
		return ErrConfigBadTimeframe
	}
	return nil
}

// UserData is one user record as stored by the account collaborator.
type UserData struct {
	ChatID    int64        `bson:"_id" json:"id"`
	Username  string       `bson:"username" json:"username"`
	APIKey    string       `bson:"api_key" json:"-"`
	APISecret string       `bson:"api_secret" json:"-"`
	Agent     bool         `bson:"ai_agent" json:"ai_agent"`
	Running   bool         `bson:"status_ai_agent" json:"status_ai_agent"`
	Config    *AgentConfig `bson:"ai_agent_config" json:"ai_agent_config"`
	Timestamp int64        `bson:"timestamp" json:"timestamp"`
}

// LeaderboardEntry is one user's aggregate trading record for one window.
type LeaderboardEntry struct {
	ChatID   int64   `bson:"chat_id" json:"chatId"`
	Username string  `bson:"username" json:"username"`
	PnL      float64 `bson:"pnl" json:"pnl"`
	WinRate  float64 `bson:"win_rate" json:"win_rate"`
	Wins     int     `bson:"wins" json:"wins"`
	Losses   int     `bson:"losses" json:"losses"`
}
