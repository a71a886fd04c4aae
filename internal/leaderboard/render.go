package leaderboard

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// RenderTable writes one window's ranking as a console table.
func RenderTable(w io.Writer, window string, entries []types.LeaderboardEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Leaderboard (%s)", window))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "User", "Win Rate", "PnL", "Wins", "Losses"})
	for i, entry := range entries {
		t.AppendRow(table.Row{
			i + 1,
			entry.Username,
			fmt.Sprintf("%.2f%%", entry.WinRate),
			fmt.Sprintf("%.2f", entry.PnL),
			entry.Wins,
			entry.Losses,
		})
	}
	t.Render()
}
