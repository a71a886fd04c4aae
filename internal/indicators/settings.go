package indicators

import "github.com/Suharaz/MerkleAI/pkg/types"

// Per-timeframe indicator parameterization. Short timeframes use faster
// periods to cut lag, daily uses slower ones to cut noise.

// MACDSettings holds the fast/slow/signal EMA periods for one timeframe.
type MACDSettings struct {
	Fast   int
	Slow   int
	Signal int
}

// BollingerSettings holds the window and standard-deviation multiplier.
type BollingerSettings struct {
	Period int
	StdDev float64
}

// StochasticSettings holds the %K window and %D smoothing.
type StochasticSettings struct {
	KPeriod    int
	DSmoothing int
}

var maSettings = map[types.Timeframe][]int{
	types.Timeframe5m:  {10, 20},
	types.Timeframe15m: {10, 20},
	types.Timeframe30m: {10, 20},
	types.Timeframe1h:  {50},
	types.Timeframe4h:  {50},
	types.Timeframe1d:  {200},
}

var rsiSettings = map[types.Timeframe]int{
	types.Timeframe5m:  9,
	types.Timeframe15m: 9,
	types.Timeframe30m: 9,
	types.Timeframe1h:  14,
	types.Timeframe4h:  14,
	types.Timeframe1d:  21,
}

var macdSettings = map[types.Timeframe]MACDSettings{
	types.Timeframe5m:  {Fast: 5, Slow: 13, Signal: 1},
	types.Timeframe15m: {Fast: 5, Slow: 13, Signal: 1},
	types.Timeframe30m: {Fast: 5, Slow: 13, Signal: 1},
	types.Timeframe1h:  {Fast: 12, Slow: 26, Signal: 9},
	types.Timeframe4h:  {Fast: 12, Slow: 26, Signal: 9},
	types.Timeframe1d:  {Fast: 21, Slow: 55, Signal: 8},
}

var bollingerSettings = map[types.Timeframe]BollingerSettings{
	types.Timeframe5m:  {Period: 20, StdDev: 2},
	types.Timeframe15m: {Period: 20, StdDev: 2},
	types.Timeframe30m: {Period: 20, StdDev: 2},
	types.Timeframe1h:  {Period: 20, StdDev: 2},
	types.Timeframe4h:  {Period: 20, StdDev: 2},
	types.Timeframe1d:  {Period: 20, StdDev: 2},
}

var stochasticSettings = map[types.Timeframe]StochasticSettings{
	types.Timeframe5m:  {KPeriod: 5, DSmoothing: 3},
	types.Timeframe15m: {KPeriod: 5, DSmoothing: 3},
	types.Timeframe30m: {KPeriod: 5, DSmoothing: 3},
	types.Timeframe1h:  {KPeriod: 14, DSmoothing: 3},
	types.Timeframe4h:  {KPeriod: 14, DSmoothing: 3},
	types.Timeframe1d:  {KPeriod: 21, DSmoothing: 5},
}

var atrSettings = map[types.Timeframe]int{
	types.Timeframe5m:  14,
	types.Timeframe15m: 14,
	types.Timeframe30m: 14,
	types.Timeframe1h:  14,
	types.Timeframe4h:  14,
	types.Timeframe1d:  14,
}

// Ichimoku periods are fixed across timeframes.
const (
	ichimokuConversion = 9
	ichimokuBase       = 26
	ichimokuSpan       = 52
)

// Parabolic SAR acceleration defaults.
const (
	psarStep = 0.02
	psarMax  = 0.2
)

// volumeProfileBins is the number of equal price bins the window is split into.
const volumeProfileBins = 10

// seriesTail caps every published series at its most recent points so prompt
// payloads stay bounded regardless of fetched history length.
const seriesTail = 50

// requiredCandles returns the minimum bar count that satisfies every
// configured sub-indicator for the timeframe.
func requiredCandles(tf types.Timeframe) int {
	need := ichimokuSpan
	for _, p := range maSettings[tf] {
		if p > need {
			need = p
		}
	}
	if p := rsiSettings[tf] + 1; p > need {
		need = p
	}
	if p := macdSettings[tf].Slow; p > need {
		need = p
	}
	if p := bollingerSettings[tf].Period; p > need {
		need = p
	}
	if p := stochasticSettings[tf].KPeriod + stochasticSettings[tf].DSmoothing; p > need {
		need = p
	}
	if p := atrSettings[tf] + 1; p > need {
		need = p
	}
	return need
}
