package leaderboard

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// ExportExcel writes every window's ranking to one workbook, one sheet per
// window, at the given path.
func ExportExcel(path string, rankings map[string][]types.LeaderboardEntry) error {
	fx := excelize.NewFile()
	defer fx.Close()

	headStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headers := []string{"Rank", "User", "Win Rate (%)", "PnL", "Wins", "Losses"}

	for i, window := range Windows {
		sheet := "Window " + window
		if i == 0 {
			fx.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := fx.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		for col, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			fx.SetCellValue(sheet, cell, header)
			fx.SetCellStyle(sheet, cell, cell, headStyle)
		}

		for row, entry := range rankings[window] {
			values := []interface{}{
				row + 1,
				entry.Username,
				entry.WinRate,
				entry.PnL,
				entry.Wins,
				entry.Losses,
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				fx.SetCellValue(sheet, cell, value)
			}
		}

		fx.SetColWidth(sheet, "A", "F", 14)
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
