package market

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// BarSource is the external market-data collaborator: an ordered candle
// sequence per (timeframe, instrument pair).
type BarSource interface {
	FetchBars(ctx context.Context, tf types.Timeframe, pair string) ([]types.Candle, error)
}

// fetchLimit is the history depth requested per refresh; enough for the
// slowest configured period (daily MA200) with headroom.
const fetchLimit = 400

var intervalByTimeframe = map[types.Timeframe]string{
	types.Timeframe5m:  "5",
	types.Timeframe15m: "15",
	types.Timeframe30m: "30",
	types.Timeframe1h:  "60",
	types.Timeframe4h:  "240",
	types.Timeframe1d:  "D",
}

// BybitSource fetches klines from the Bybit v5 market API. Public market
// data needs no credentials.
type BybitSource struct {
	client   *bybit_api.Client
	category string
}

// NewBybitSource creates a bar source against the Bybit mainnet.
func NewBybitSource() *BybitSource {
	return &BybitSource{
		client:   bybit_api.NewBybitHttpClient("", "", bybit_api.WithBaseURL(bybit_api.MAINNET)),
		category: "linear",
	}
}

// symbolForPair maps an instrument pair to the venue symbol,
// e.g. "BTC_USD" -> "BTCUSDT".
func symbolForPair(pair string) string {
	return strings.ToUpper(strings.Replace(pair, "_USD", "USDT", 1))
}

// FetchBars returns up to fetchLimit bars in strictly increasing open-time
// order. The venue reports newest-first; the result is re-sorted ascending
// so consumers can index the last element as the latest close.
func (s *BybitSource) FetchBars(ctx context.Context, tf types.Timeframe, pair string) ([]types.Candle, error) {
	interval, ok := intervalByTimeframe[tf]
	if !ok {
		return nil, fmt.Errorf("invalid timeframe %q: must be one of 5m, 15m, 30m, 1h, 4h, 1d", tf)
	}

	params := map[string]interface{}{
		"category": s.category,
		"symbol":   symbolForPair(pair),
		"interval": interval,
		"limit":    fetchLimit,
	}

	result, err := s.client.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch klines for %s %s: %w", pair, tf, err)
	}

	candles, err := parseKlineResponse(result)
	if err != nil {
		return nil, fmt.Errorf("parse klines for %s %s: %w", pair, tf, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no kline data for %s %s", pair, tf)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime < candles[j].OpenTime })
	return candles, nil
}

func parseKlineResponse(response interface{}) ([]types.Candle, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", response)
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("venue error %d: %s", serverResp.RetCode, serverResp.RetMsg)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	var klineResult struct {
		List [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("unmarshal kline list: %w", err)
	}

	candles := make([]types.Candle, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		// [startTime, open, high, low, close, volume, turnover]
		if len(item) < 6 {
			continue
		}
		candles = append(candles, types.Candle{
			OpenTime: parseInt64(item[0]),
			Open:     parseFloat64(item[1]),
			High:     parseFloat64(item[2]),
			Low:      parseFloat64(item[3]),
			Close:    parseFloat64(item[4]),
			Volume:   parseFloat64(item[5]),
		})
	}
	return candles, nil
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
