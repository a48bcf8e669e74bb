package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Summary"
	sheetMonthly    = "Monthly"
	sheetCategories = "Categories"
)

type ExportService interface {
	// YearlyXLSX годовой отчет книгой excel: сводка, месяцы, категории
	YearlyXLSX(ctx context.Context, userID string, year int) ([]byte, error)
}

type exportService struct {
	analytics AnalyticsService
	log       zerolog.Logger
}

func NewExportService(analytics AnalyticsService, log zerolog.Logger) ExportService {
	return &exportService{analytics: analytics, log: log}
}

func (s *exportService) YearlyXLSX(ctx context.Context, userID string, year int) ([]byte, error) {
	start := time.Now()

	report, err := s.analytics.YearlyReport(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// лист по умолчанию переименовываем в сводку
	if err := f.SetSheetName(f.GetSheetName(0), sheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetMonthly, sheetCategories} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	if err := writeSummarySheet(f, report); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeMonthlySheet(f, report.Months); err != nil {
		return nil, fmt.Errorf("monthly sheet: %w", err)
	}
	if err := writeCategoriesSheet(f, report); err != nil {
		return nil, fmt.Errorf("categories sheet: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Int("year", year).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("выгружен годовой отчет")
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// money суммы в туманах целые, среднее округляется только при выводе
func money(d decimal.Decimal) float64 {
	return d.Round(0).InexactFloat64()
}

func writeSummarySheet(f *excelize.File, r *models.YearlyReport) error {
	rows := [][]any{
		{"Year", r.Year},
		{"Metric", "Current", "Previous", "Change", "Change %"},
		{"Income", money(r.IncomeChange.Current), money(r.IncomeChange.Previous), money(r.IncomeChange.Change), r.IncomeChange.ChangePercent},
		{"Expense", money(r.ExpenseChange.Current), money(r.ExpenseChange.Previous), money(r.ExpenseChange.Change), r.ExpenseChange.ChangePercent},
		{"Profit", money(r.ProfitChange.Current), money(r.ProfitChange.Previous), money(r.ProfitChange.Change), r.ProfitChange.ChangePercent},
		{"Transactions", r.Summary.TransactionCount, r.PreviousSummary.TransactionCount},
		{"Avg monthly profit", money(r.Summary.AvgMonthlyProfit), money(r.PreviousSummary.AvgMonthlyProfit)},
	}
	if r.BestMonth != 0 {
		rows = append(rows,
			[]any{"Best month", monthName(r.BestMonth)},
			[]any{"Worst month", monthName(r.WorstMonth)},
		)
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "A", "A", 22)
}

func writeMonthlySheet(f *excelize.File, months []models.MonthSummary) error {
	rows := [][]any{{"Month", "Name", "Income", "Expense", "Profit", "Transactions", "Profit change %", "Expense change %"}}
	for _, m := range months {
		rows = append(rows, []any{
			m.Month, m.MonthName,
			money(m.TotalIncome), money(m.TotalExpense), money(m.Profit),
			m.TransactionCount, m.ProfitChange.ChangePercent, m.ExpenseChange.ChangePercent,
		})
	}
	if err := writeRows(f, sheetMonthly, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheetMonthly, "B", "B", 14)
}

func writeCategoriesSheet(f *excelize.File, r *models.YearlyReport) error {
	rows := [][]any{{"Type", "Category", "Label", "Amount", "Share %", "Transactions"}}
	add := func(typ models.TransactionType, buckets []models.CategoryBucket) {
		for _, b := range buckets {
			rows = append(rows, []any{
				string(typ), string(b.Category), b.Label,
				money(b.Value), b.Percentage.InexactFloat64(), b.Count,
			})
		}
	}
	add(models.TransactionTypeIncome, r.IncomeByCategory)
	add(models.TransactionTypeExpense, r.ExpenseByCategory)

	if err := writeRows(f, sheetCategories, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheetCategories, "C", "C", 18)
}

func monthName(month int) string {
	return fmt.Sprintf("%02d %s", month, jalali.MonthName(month))
}
