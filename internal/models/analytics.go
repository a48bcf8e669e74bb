package models

import (
	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/shopspring/decimal"
)

// PeriodAggregate сводка за jalali месяц или год. Считается на лету, не хранится
type PeriodAggregate struct {
	Year             int             `json:"year"`
	Month            int             `json:"month,omitempty"` // 0 = весь год
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Profit           decimal.Decimal `json:"profit"` // TotalIncome - TotalExpense, бывает отрицательным
	TransactionCount int             `json:"transaction_count"`
	AvgMonthlyProfit decimal.Decimal `json:"avg_monthly_profit"` // Profit для месяца, Profit/12 для года
}

// ChangeComparison сравнение метрики с предыдущим периодом
type ChangeComparison struct {
	Current       decimal.Decimal `json:"current"`
	Previous      decimal.Decimal `json:"previous"`
	Change        decimal.Decimal `json:"change"`         // current - previous
	ChangePercent int64           `json:"change_percent"` // знак никогда не инвертируется
	Inverse       bool            `json:"inverse"`        // рост плох (расходы), для UI
}

// CategoryBucket доля категории в сумме по типу
type CategoryBucket struct {
	Category   CategoryKey     `json:"category"`
	Label      string          `json:"label"`
	Color      string          `json:"color"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"` // один знак после запятой
	Count      int             `json:"count"`
}

// HeatmapCell один день тепловой карты расходов
type HeatmapCell struct {
	Date      jalali.Date     `json:"date"`
	Gregorian civil.Date      `json:"gregorian"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
}

// MonthSummary месяц помесячной разбивки вместе с изменением к предыдущему месяцу
type MonthSummary struct {
	PeriodAggregate
	MonthName     string           `json:"month_name"`
	ProfitChange  ChangeComparison `json:"profit_change"`
	ExpenseChange ChangeComparison `json:"expense_change"`
}

// DashboardStats карточки главной страницы
type DashboardStats struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Current       PeriodAggregate  `json:"current"`
	Previous      PeriodAggregate  `json:"previous"`
	YearToDate    PeriodAggregate  `json:"year_to_date"` // фарвардин..Month включительно
	IncomeChange  ChangeComparison `json:"income_change"`
	ExpenseChange ChangeComparison `json:"expense_change"`
	ProfitChange  ChangeComparison `json:"profit_change"`
}

// YearlyReport годовой отчет
type YearlyReport struct {
	Year              int              `json:"year"`
	Summary           PeriodAggregate  `json:"summary"`
	PreviousSummary   PeriodAggregate  `json:"previous_summary"`
	IncomeChange      ChangeComparison `json:"income_change"`
	ExpenseChange     ChangeComparison `json:"expense_change"`
	ProfitChange      ChangeComparison `json:"profit_change"`
	Months            []MonthSummary   `json:"months"`
	IncomeByCategory  []CategoryBucket `json:"income_by_category"`
	ExpenseByCategory []CategoryBucket `json:"expense_by_category"`
	BestMonth         int              `json:"best_month,omitempty"`  // месяц с наибольшей прибылью, 0 если данных нет
	WorstMonth        int              `json:"worst_month,omitempty"` // месяц с наименьшей прибылью
}

// CalendarMonth данные для сетки календаря
type CalendarMonth struct {
	Year         int        `json:"year"`
	Month        int        `json:"month"`
	MonthName    string     `json:"month_name"`
	Days         int        `json:"days"`
	FirstWeekday int        `json:"first_weekday"` // 0 = شنبه
	Start        civil.Date `json:"start"`
	End          civil.Date `json:"end"`
}
