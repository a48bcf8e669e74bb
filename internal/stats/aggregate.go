package stats

import (
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/shopspring/decimal"
)

var monthsInYear = decimal.NewFromInt(12)

// Aggregate сводка по завершенным транзакциям периода.
// Для года AvgMonthlyProfit = Profit/12 без округления, даже если данные есть не за все месяцы
func Aggregate(txs []models.Transaction, p Period) models.PeriodAggregate {
	agg := models.PeriodAggregate{
		Year:             p.Year,
		Month:            p.Month,
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		Profit:           decimal.Zero,
		AvgMonthlyProfit: decimal.Zero,
	}

	for _, t := range txs {
		if !counted(t, p) {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			agg.TotalIncome = agg.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			agg.TotalExpense = agg.TotalExpense.Add(t.Amount)
		default:
			continue
		}
		agg.TransactionCount++
	}

	agg.Profit = agg.TotalIncome.Sub(agg.TotalExpense)
	if p.IsYear() {
		agg.AvgMonthlyProfit = agg.Profit.Div(monthsInYear)
	} else {
		agg.AvgMonthlyProfit = agg.Profit
	}
	return agg
}

// MonthlyBreakdown ровно 12 сводок, фарвардин..эсфанд, пустые месяцы не пропускаются
func MonthlyBreakdown(txs []models.Transaction, year int) []models.PeriodAggregate {
	months := make([]models.PeriodAggregate, 12)
	for m := 1; m <= 12; m++ {
		months[m-1] = Aggregate(txs, Period{Year: year, Month: m})
	}
	return months
}

// YearToDate сводка с фарвардина по month включительно, AvgMonthlyProfit = Profit/month.
// Месяц вне 1..12 дает сводку за весь год
func YearToDate(txs []models.Transaction, year, month int) models.PeriodAggregate {
	if month < 1 || month > 12 {
		return Aggregate(txs, Period{Year: year})
	}

	agg := models.PeriodAggregate{
		Year:         year,
		Month:        month,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, m := range MonthlyBreakdown(txs, year)[:month] {
		agg.TotalIncome = agg.TotalIncome.Add(m.TotalIncome)
		agg.TotalExpense = agg.TotalExpense.Add(m.TotalExpense)
		agg.TransactionCount += m.TransactionCount
	}
	agg.Profit = agg.TotalIncome.Sub(agg.TotalExpense)
	agg.AvgMonthlyProfit = agg.Profit.Div(decimal.NewFromInt(int64(month)))
	return agg
}
