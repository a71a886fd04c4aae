package types

import "fmt"

// Timeframe is a candle aggregation period, used both for bar granularity
// and for grouping users' trading cadence.
type Timeframe string

const (
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
)

// ValidTimeframes lists every timeframe the bar source accepts.
var ValidTimeframes = []Timeframe{
	Timeframe5m, Timeframe15m, Timeframe30m,
	Timeframe1h, Timeframe4h, Timeframe1d,
}

// IsValid reports whether tf is one of the supported timeframes.
func (tf Timeframe) IsValid() bool {
	for _, v := range ValidTimeframes {
		if tf == v {
			return true
		}
	}
	return false
}

// Candle represents a single OHLCV bar. Immutable once fetched.
type Candle struct {
	OpenTime int64   `json:"openTime"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

// IndicatorFamily is one named indicator's full output: sub-indicator key
// to either a numeric series ([]float64), a map of named series
// (map[string][]float64), or a scalar record (map[string]float64).
type IndicatorFamily struct {
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data"`
}

// IndicatorSet is the ordered set of indicator families computed for one
// (timeframe, instrument) refresh. Never mutated, always replaced wholesale.
type IndicatorSet []IndicatorFamily

// SeriesSummary reduces a numeric series to its last value and a fixed
// lookback slope for compact strategy prompts.
type SeriesSummary struct {
	LastValue float64 `json:"last_value"`
	Slope     float64 `json:"slope"`
}

// VolumeProfileSummary reduces a volume profile to its dominant bin,
// volume-weighted mean price and total traded volume.
type VolumeProfileSummary struct {
	PeakPriceLevel float64 `json:"peak_price_level"`
	MeanPrice      float64 `json:"mean_price"`
	TotalVolume    float64 `json:"total_volume"`
}

// CompressedFamily mirrors IndicatorFamily after compression: every series
// becomes a SeriesSummary, volume profiles a VolumeProfileSummary, and
// already-scalar records (Fibonacci levels) pass through unchanged.
type CompressedFamily struct {
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data"`
}

// CompressedIndicator is the lossy summary of an IndicatorSet. The distinct
// type keeps compressed output from being fed back into the compressor.
type CompressedIndicator []CompressedFamily

// MarketSnapshot holds the compressed indicator and price state for one
// (timeframe, instrument) as of the last refresh. Empty marks the explicit
// "refresh attempted, no usable data" sentinel, distinct from an absent key.
type MarketSnapshot struct {
	OptimizedIndicator CompressedIndicator `json:"optimizedIndicator,omitempty"`
	CurrentPrice       float64             `json:"currentPrice"`
	ChangePercent      string              `json:"changePercent"`
	Empty              bool                `json:"empty,omitempty"`
}

// IsEmpty reports whether the snapshot is the failure sentinel or carries
// no indicator data.
func (s *MarketSnapshot) IsEmpty() bool {
	return s == nil || s.Empty || len(s.OptimizedIndicator) == 0
}

// EmptySnapshot returns the sentinel published when an instrument's refresh
// exhausts its retries or fails validation.
func EmptySnapshot() *MarketSnapshot {
	return &MarketSnapshot{Empty: true}
}

// InstrumentPair formats a token as the tradable pair used as the snapshot
// store key, e.g. "BTC_USD".
func InstrumentPair(token string) string {
	return fmt.Sprintf("%s_USD", token)
}
