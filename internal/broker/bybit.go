package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

const bybitCategory = "linear"

// BybitFactory builds per-user sessions against the Bybit v5 trading API.
type BybitFactory struct {
	testnet bool
}

// NewBybitFactory creates a session factory. Testnet sessions hit the
// venue's paper-trading environment.
func NewBybitFactory(testnet bool) *BybitFactory {
	return &BybitFactory{testnet: testnet}
}

// SessionFor builds a session from the user's stored API credentials.
func (f *BybitFactory) SessionFor(user types.UserData) (Session, error) {
	if user.APIKey == "" || user.APISecret == "" {
		return nil, errors.New("user has no venue credentials")
	}

	baseURL := bybit_api.MAINNET
	if f.testnet {
		baseURL = bybit_api.TESTNET
	}
	client := bybit_api.NewBybitHttpClient(user.APIKey, user.APISecret, bybit_api.WithBaseURL(baseURL))
	return &bybitSession{client: client}, nil
}

type bybitSession struct {
	client *bybit_api.Client
}

// symbolForPair maps "BTC_USD" to the venue symbol "BTCUSDT".
func symbolForPair(pair string) string {
	return strings.ToUpper(strings.Replace(pair, "_USD", "USDT", 1))
}

func (s *bybitSession) GetBalance(ctx context.Context) (float64, error) {
	params := map[string]interface{}{
		"accountType": "UNIFIED",
		"coin":        "USDT",
	}
	result, err := s.client.NewUtaBybitServiceWithParams(params).GetAccountWallet(ctx)
	if err != nil {
		return 0, fmt.Errorf("get wallet balance: %w", err)
	}

	var wallet struct {
		List []struct {
			Coin []struct {
				Coin          string `json:"coin"`
				WalletBalance string `json:"walletBalance"`
			} `json:"coin"`
		} `json:"list"`
	}
	if err := decodeResult(result, &wallet); err != nil {
		return 0, fmt.Errorf("parse wallet balance: %w", err)
	}

	for _, account := range wallet.List {
		for _, coin := range account.Coin {
			if coin.Coin == "USDT" {
				return parseFloat(coin.WalletBalance), nil
			}
		}
	}
	return 0, nil
}

func (s *bybitSession) GetPositions(ctx context.Context, pair string) ([]types.Position, error) {
	params := map[string]interface{}{
		"category": bybitCategory,
		"symbol":   symbolForPair(pair),
	}
	result, err := s.client.NewUtaBybitServiceWithParams(params).GetPositionList(ctx)
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	var positionResult struct {
		List []struct {
			Side       string `json:"side"`
			Size       string `json:"size"`
			AvgPrice   string `json:"avgPrice"`
			Leverage   string `json:"leverage"`
			StopLoss   string `json:"stopLoss"`
			TakeProfit string `json:"takeProfit"`
			PositionIM string `json:"positionIM"`
		} `json:"list"`
	}
	if err := decodeResult(result, &positionResult); err != nil {
		return nil, fmt.Errorf("parse positions: %w", err)
	}

	var positions []types.Position
	for _, p := range positionResult.List {
		size := parseFloat(p.Size)
		if size == 0 {
			continue
		}
		positions = append(positions, types.Position{
			Size:       size,
			AvgPrice:   parseFloat(p.AvgPrice),
			Collateral: parseFloat(p.PositionIM),
			IsLong:     p.Side == "Buy",
			StopLoss:   parseFloat(p.StopLoss),
			TakeProfit: parseFloat(p.TakeProfit),
			Leverage:   parseFloat(p.Leverage),
			Pair:       pair,
		})
	}
	return positions, nil
}

func (s *bybitSession) GetPendingOrders(ctx context.Context, pair string) ([]types.PendingOrder, error) {
	params := map[string]interface{}{
		"category": bybitCategory,
		"symbol":   symbolForPair(pair),
	}
	result, err := s.client.NewUtaBybitServiceWithParams(params).GetOpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("get open orders: %w", err)
	}

	var orderResult struct {
		List []struct {
			OrderID string `json:"orderId"`
			Price   string `json:"price"`
			Side    string `json:"side"`
		} `json:"list"`
	}
	if err := decodeResult(result, &orderResult); err != nil {
		return nil, fmt.Errorf("parse open orders: %w", err)
	}

	var orders []types.PendingOrder
	for _, o := range orderResult.List {
		orders = append(orders, types.PendingOrder{
			OrderID: o.OrderID,
			Entry:   parseFloat(o.Price),
			IsLong:  o.Side == "Buy",
		})
	}
	return orders, nil
}

func (s *bybitSession) OpenOrder(ctx context.Context, p OpenOrderParams) (*Transaction, error) {
	if p.Entry <= 0 {
		return nil, errors.New("entry price must be positive")
	}
	symbol := symbolForPair(p.Pair)

	// Leverage is a position-level setting on this venue; apply it before
	// placing the order. Rejection here is fatal for the decision.
	leverage := strconv.FormatFloat(p.Leverage, 'f', -1, 64)
	_, err := s.client.NewUtaBybitServiceWithParams(map[string]interface{}{
		"category":     bybitCategory,
		"symbol":       symbol,
		"buyLeverage":  leverage,
		"sellLeverage": leverage,
	}).SetPositionLeverage(ctx)
	if err != nil && !isLeverageNotModified(err) {
		return nil, fmt.Errorf("set leverage: %w", err)
	}

	side := "Sell"
	if p.IsLong {
		side = "Buy"
	}
	qty := p.Pay * p.Leverage / p.Entry

	orderParams := map[string]interface{}{
		"category":    bybitCategory,
		"symbol":      symbol,
		"side":        side,
		"orderType":   "Limit",
		"qty":         strconv.FormatFloat(qty, 'f', 4, 64),
		"price":       strconv.FormatFloat(p.Entry, 'f', -1, 64),
		"timeInForce": "GTC",
	}
	if p.StopLoss > 0 {
		orderParams["stopLoss"] = strconv.FormatFloat(p.StopLoss, 'f', -1, 64)
	}
	if p.TakeProfit > 0 {
		orderParams["takeProfit"] = strconv.FormatFloat(p.TakeProfit, 'f', -1, 64)
	}

	result, err := s.client.NewUtaBybitServiceWithParams(orderParams).PlaceOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	var orderResult struct {
		OrderID string `json:"orderId"`
	}
	if err := decodeResult(result, &orderResult); err != nil {
		return nil, fmt.Errorf("parse order response: %w", err)
	}
	return &Transaction{OrderID: orderResult.OrderID}, nil
}

func (s *bybitSession) CancelOrder(ctx context.Context, pair, orderID string) (*Transaction, error) {
	params := map[string]interface{}{
		"category": bybitCategory,
		"symbol":   symbolForPair(pair),
		"orderId":  orderID,
	}
	if _, err := s.client.NewUtaBybitServiceWithParams(params).CancelOrder(ctx); err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return &Transaction{OrderID: orderID}, nil
}

func (s *bybitSession) UpdateStopLossTakeProfit(ctx context.Context, pair string, isLong bool, stopLoss, takeProfit float64) (*Transaction, error) {
	params := map[string]interface{}{
		"category":    bybitCategory,
		"symbol":      symbolForPair(pair),
		"positionIdx": 0,
	}
	if stopLoss > 0 {
		params["stopLoss"] = strconv.FormatFloat(stopLoss, 'f', -1, 64)
	}
	if takeProfit > 0 {
		params["takeProfit"] = strconv.FormatFloat(takeProfit, 'f', -1, 64)
	}

	if _, err := s.client.NewUtaBybitServiceWithParams(params).SetPositionTradingStop(ctx); err != nil {
		return nil, fmt.Errorf("set trading stop: %w", err)
	}
	return &Transaction{}, nil
}

func (s *bybitSession) GetTradingHistory(ctx context.Context, since time.Time) ([]TradeRecord, error) {
	params := map[string]interface{}{
		"category": bybitCategory,
		"limit":    100,
	}
	if !since.IsZero() {
		params["startTime"] = since.UnixMilli()
	}

	result, err := s.client.NewUtaBybitServiceWithParams(params).GetClosePnl(ctx)
	if err != nil {
		return nil, fmt.Errorf("get closed pnl: %w", err)
	}
	return parseClosedPnl(result)
}

// parseClosedPnl decodes the venue's closed-pnl page into trade records.
func parseClosedPnl(result interface{}) ([]TradeRecord, error) {
	var pnlResult struct {
		List []struct {
			Symbol      string `json:"symbol"`
			ClosedPnl   string `json:"closedPnl"`
			UpdatedTime string `json:"updatedTime"`
		} `json:"list"`
	}
	if err := decodeResult(result, &pnlResult); err != nil {
		return nil, fmt.Errorf("parse closed pnl: %w", err)
	}

	var records []TradeRecord
	for _, entry := range pnlResult.List {
		ms, _ := strconv.ParseInt(entry.UpdatedTime, 10, 64)
		records = append(records, TradeRecord{
			Pair:     entry.Symbol,
			PnL:      parseFloat(entry.ClosedPnl),
			ClosedAt: time.UnixMilli(ms),
		})
	}
	return records, nil
}

// decodeResult re-marshals the SDK's generic result into a typed struct and
// surfaces venue-level error codes.
func decodeResult(response interface{}, dest interface{}) error {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}
	if serverResp.RetCode != 0 {
		return fmt.Errorf("venue error %d: %s", serverResp.RetCode, serverResp.RetMsg)
	}

	data, err := json.Marshal(serverResp.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// isLeverageNotModified matches the venue's "leverage not modified" error,
// which is benign when the requested leverage is already set.
func isLeverageNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "110043")
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
