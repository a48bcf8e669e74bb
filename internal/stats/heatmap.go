package stats

import (
	"sort"

	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/shopspring/decimal"
)

// ExpenseHeatmap завершенные расходы года по дням солнечной хиджры, по возрастанию даты.
// Дней без расходов в результате нет
func ExpenseHeatmap(txs []models.Transaction, year int) []models.HeatmapCell {
	p := Period{Year: year}
	days := make(map[jalali.Date]*models.HeatmapCell)

	for _, t := range txs {
		if !counted(t, p) || !MatchesType(t, models.TransactionTypeExpense) {
			continue
		}
		d := jalali.FromGregorian(t.Date)
		cell, ok := days[d]
		if !ok {
			cell = &models.HeatmapCell{Date: d, Gregorian: t.Date, Total: decimal.Zero}
			days[d] = cell
		}
		cell.Count++
		cell.Total = cell.Total.Add(t.Amount)
	}

	cells := make([]models.HeatmapCell, 0, len(days))
	for _, c := range days {
		cells = append(cells, *c)
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Date.Before(cells[j].Date)
	})
	return cells
}
