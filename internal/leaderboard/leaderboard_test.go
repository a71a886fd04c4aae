package leaderboard

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Suharaz/MerkleAI/internal/broker"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

func record(pnl float64, daysAgo int) broker.TradeRecord {
	return broker.TradeRecord{
		Pair:     "BTCUSDT",
		PnL:      pnl,
		ClosedAt: time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestAggregate_WinsLossesAndRate(t *testing.T) {
	records := []broker.TradeRecord{
		record(100, 0),
		record(-40, 0),
		record(60, 0),
		record(0, 0), // neither win nor loss
	}

	entry := aggregate(records, time.Time{})

	assert.Equal(t, 2, entry.Wins)
	assert.Equal(t, 1, entry.Losses)
	assert.InDelta(t, 120.0, entry.PnL, 1e-9)
	assert.InDelta(t, 66.67, entry.WinRate, 0.01)
}

func TestAggregate_WindowCutoff(t *testing.T) {
	records := []broker.TradeRecord{
		record(100, 0),
		record(-50, 10), // outside a 7-day window
	}

	entry := aggregate(records, time.Now().AddDate(0, 0, -7))

	assert.Equal(t, 1, entry.Wins)
	assert.Equal(t, 0, entry.Losses)
	assert.InDelta(t, 100.0, entry.PnL, 1e-9)
}

func TestAggregate_NoTradesZeroRate(t *testing.T) {
	entry := aggregate(nil, time.Time{})
	assert.Zero(t, entry.WinRate)
	assert.Zero(t, entry.PnL)
}

func TestSortEntries_WinRateThenPnL(t *testing.T) {
	entries := []types.LeaderboardEntry{
		{Username: "carol", WinRate: 50, PnL: 10},
		{Username: "alice", WinRate: 80, PnL: 5},
		{Username: "bob", WinRate: 80, PnL: 100},
		{Username: "dave", WinRate: 50, PnL: 40},
	}

	sortEntries(entries)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Username
	}
	assert.Equal(t, []string{"bob", "alice", "dave", "carol"}, names)
}

func TestWindowStart_Bounds(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -1), windowStart("1d", now))
	assert.Equal(t, now.AddDate(0, 0, -7), windowStart("7d", now))
	assert.Equal(t, now.AddDate(0, -1, 0), windowStart("1m", now))
	assert.True(t, windowStart("all", now).IsZero())
}

func TestWindows_StableOrder(t *testing.T) {
	assert.Equal(t, []string{"1d", "7d", "1m", "all"}, Windows)
}

type fakeStore struct {
	agents []types.UserData
	saved  map[string][]types.LeaderboardEntry
}

func (f *fakeStore) ListActiveByTimeframe(context.Context, types.Timeframe) ([]types.UserData, error) {
	return nil, nil
}

func (f *fakeStore) ListAgents(context.Context) ([]types.UserData, error) {
	return f.agents, nil
}

func (f *fakeStore) SetRunning(context.Context, int64, bool) error { return nil }

func (f *fakeStore) SaveLeaderboard(_ context.Context, window string, entries []types.LeaderboardEntry) error {
	if f.saved == nil {
		f.saved = make(map[string][]types.LeaderboardEntry)
	}
	f.saved[window] = entries
	return nil
}

func (f *fakeStore) LoadLeaderboard(_ context.Context, window string) ([]types.LeaderboardEntry, error) {
	return f.saved[window], nil
}

type fakeSession struct {
	broker.Session
	records []broker.TradeRecord
}

func (f *fakeSession) GetTradingHistory(context.Context, time.Time) ([]broker.TradeRecord, error) {
	return f.records, nil
}

type fakeFactory struct {
	sessions map[int64]*fakeSession
}

func (f *fakeFactory) SessionFor(user types.UserData) (broker.Session, error) {
	return f.sessions[user.ChatID], nil
}

func TestUpdate_SavesRendersAndExports(t *testing.T) {
	store := &fakeStore{agents: []types.UserData{
		{ChatID: 1, Username: "alice"},
		{ChatID: 2, Username: "bob"},
	}}
	factory := &fakeFactory{sessions: map[int64]*fakeSession{
		1: {records: []broker.TradeRecord{record(100, 0), record(-20, 0)}},
		2: {records: []broker.TradeRecord{record(50, 0), record(30, 0)}},
	}}

	exportPath := filepath.Join(t.TempDir(), "leaderboard.xlsx")
	svc := NewService(store, factory, exportPath)
	console := &bytes.Buffer{}
	svc.console = console

	require.NoError(t, svc.Update(context.Background()))

	// Every window persisted, sorted by win rate then pnl.
	require.Len(t, store.saved, len(Windows))
	all := store.saved["all"]
	require.Len(t, all, 2)
	assert.Equal(t, "bob", all[0].Username)
	assert.Equal(t, "alice", all[1].Username)

	// Each window rendered to the console.
	out := console.String()
	for _, window := range Windows {
		assert.Contains(t, out, "Leaderboard ("+window+")")
	}
	assert.Contains(t, out, "alice")

	// Workbook written with one sheet per window.
	fx, err := excelize.OpenFile(exportPath)
	require.NoError(t, err)
	defer fx.Close()
	for _, window := range Windows {
		assert.Contains(t, fx.GetSheetList(), "Window "+window)
	}
	name, err := fx.GetCellValue("Window all", "B2")
	require.NoError(t, err)
	assert.Equal(t, "bob", name)
}

func TestRenderTable_RowsAndTitle(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, "7d", []types.LeaderboardEntry{
		{Username: "alice", WinRate: 66.67, PnL: 120, Wins: 2, Losses: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "Leaderboard (7d)")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "66.67%")
	assert.Contains(t, out, "120.00")
}

func TestExportExcel_MissingWindowLeavesEmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankings.xlsx")

	require.NoError(t, ExportExcel(path, map[string][]types.LeaderboardEntry{
		"1d": {{Username: "carol", WinRate: 100, PnL: 5, Wins: 1}},
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()
	name, err := fx.GetCellValue("Window 1d", "B2")
	require.NoError(t, err)
	assert.Equal(t, "carol", name)
	header, err := fx.GetCellValue("Window all", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Rank", header)
}
