package stats

import (
	"errors"
	"testing"

	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/shopspring/decimal"
)

func tx(t *testing.T, jy, jm, jd int, typ models.TransactionType, amount int64, status models.TransactionStatus, category string) models.Transaction {
	t.Helper()
	g, err := jalali.ToGregorian(jy, jm, jd)
	if err != nil {
		t.Fatalf("ToGregorian(%d/%d/%d): %v", jy, jm, jd, err)
	}
	return models.Transaction{
		Date:     g,
		Type:     typ,
		Amount:   decimal.NewFromInt(amount),
		Status:   status,
		Category: category,
	}
}

const (
	income    = models.TransactionTypeIncome
	expense   = models.TransactionTypeExpense
	completed = models.TransactionStatusCompleted
	pending   = models.TransactionStatusPending
	failed    = models.TransactionStatusFailed
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestPeriodConstructors(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantField string
	}{
		{"valid month", 1404, 9, ""},
		{"first month", 1404, 1, ""},
		{"last month", 1404, 12, ""},
		{"month zero", 1404, 0, "month"},
		{"month 13", 1404, 13, "month"},
		{"negative month", 1404, -1, "month"},
		{"year zero", 0, 5, "year"},
		{"year too big", 3178, 5, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := MonthPeriod(tt.year, tt.month)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("MonthPeriod(%d, %d): %v", tt.year, tt.month, err)
				}
				if p.Year != tt.year || p.Month != tt.month {
					t.Errorf("got %+v", p)
				}
				return
			}
			var perr *InvalidPeriodError
			if !errors.As(err, &perr) {
				t.Fatalf("MonthPeriod(%d, %d) error = %v, want *InvalidPeriodError", tt.year, tt.month, err)
			}
			if perr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", perr.Field, tt.wantField)
			}
		})
	}

	if _, err := YearPeriod(1404); err != nil {
		t.Errorf("YearPeriod(1404): %v", err)
	}
}

func TestPeriodPrevious(t *testing.T) {
	tests := []struct {
		in, want Period
	}{
		{Period{1404, 9}, Period{1404, 8}},
		{Period{1404, 1}, Period{1403, 12}},
		{Period{1404, 0}, Period{1403, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Previous(); got != tt.want {
			t.Errorf("%s.Previous() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestInPeriod(t *testing.T) {
	// 1403/12/30 (2025-03-20) последний день високосного 1403, новруз 1404 на следующий день
	lastOf1403 := tx(t, 1403, 12, 30, income, 1, completed, "")
	nowruz1404 := tx(t, 1404, 1, 1, income, 1, completed, "")

	tests := []struct {
		name string
		t    models.Transaction
		p    Period
		want bool
	}{
		{"esfand 30 in its year", lastOf1403, Period{Year: 1403}, true},
		{"esfand 30 in its month", lastOf1403, Period{1403, 12}, true},
		{"esfand 30 not in next year", lastOf1403, Period{Year: 1404}, false},
		{"nowruz in year", nowruz1404, Period{Year: 1404}, true},
		{"nowruz in farvardin", nowruz1404, Period{1404, 1}, true},
		{"nowruz not in ordibehesht", nowruz1404, Period{1404, 2}, false},
		{"zero date", models.Transaction{}, Period{Year: 1404}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InPeriod(tt.t, tt.p); got != tt.want {
				t.Errorf("InPeriod = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregateScenario(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 9, 5, income, 45000000, completed, "salary"),
		tx(t, 1404, 9, 18, expense, 10000000, completed, "rent"),
		tx(t, 1404, 9, 20, expense, 999999, pending, "food"),
	}

	got := Aggregate(txs, Period{1404, 9})

	if !got.TotalIncome.Equal(dec(45000000)) {
		t.Errorf("TotalIncome = %s", got.TotalIncome)
	}
	if !got.TotalExpense.Equal(dec(10000000)) {
		t.Errorf("TotalExpense = %s", got.TotalExpense)
	}
	if !got.Profit.Equal(dec(35000000)) {
		t.Errorf("Profit = %s", got.Profit)
	}
	if got.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", got.TransactionCount)
	}
	if !got.AvgMonthlyProfit.Equal(got.Profit) {
		t.Errorf("AvgMonthlyProfit = %s, want profit for a month aggregate", got.AvgMonthlyProfit)
	}
}

func TestAggregateEmpty(t *testing.T) {
	for _, p := range []Period{{Year: 1404}, {1404, 3}} {
		got := Aggregate(nil, p)
		if !got.TotalIncome.IsZero() || !got.TotalExpense.IsZero() || !got.Profit.IsZero() || !got.AvgMonthlyProfit.IsZero() {
			t.Errorf("Aggregate(nil, %s) = %+v, want zeros", p, got)
		}
		if got.TransactionCount != 0 {
			t.Errorf("TransactionCount = %d", got.TransactionCount)
		}
	}
}

func TestAggregateCompletedOnly(t *testing.T) {
	base := []models.Transaction{
		tx(t, 1404, 2, 1, income, 1000, completed, ""),
		tx(t, 1404, 5, 10, expense, 300, completed, ""),
	}
	want := Aggregate(base, Period{Year: 1404})

	noisy := append([]models.Transaction{}, base...)
	noisy = append(noisy,
		tx(t, 1404, 2, 2, income, 777777, pending, ""),
		tx(t, 1404, 3, 3, expense, 123456, failed, ""),
		tx(t, 1404, 5, 10, expense, 5, pending, ""),
	)
	got := Aggregate(noisy, Period{Year: 1404})

	if !got.TotalIncome.Equal(want.TotalIncome) || !got.TotalExpense.Equal(want.TotalExpense) || got.TransactionCount != want.TransactionCount {
		t.Errorf("pending/failed changed totals: got %+v, want %+v", got, want)
	}
}

func TestAggregateProfitIdentity(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 1, 1, income, 100, completed, ""),
		tx(t, 1404, 1, 2, expense, 250, completed, ""),
		tx(t, 1404, 7, 30, income, 3, completed, ""),
		tx(t, 1404, 12, 29, expense, 17, completed, ""),
	}

	for _, p := range []Period{{Year: 1404}, {1404, 1}, {1404, 7}, {1404, 12}, {1404, 6}} {
		got := Aggregate(txs, p)
		if !got.Profit.Equal(got.TotalIncome.Sub(got.TotalExpense)) {
			t.Errorf("%s: profit %s != %s - %s", p, got.Profit, got.TotalIncome, got.TotalExpense)
		}
	}

	year := Aggregate(txs, Period{Year: 1404})
	if !year.Profit.Equal(dec(-164)) {
		t.Errorf("year profit = %s, want -164", year.Profit)
	}
}

func TestAggregateYearAverage(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 1, 15, income, 1200, completed, ""),
	}
	got := Aggregate(txs, Period{Year: 1404})
	if !got.AvgMonthlyProfit.Equal(dec(100)) {
		t.Errorf("AvgMonthlyProfit = %s, want 100", got.AvgMonthlyProfit)
	}

	// без округления: 1000/12
	txs[0].Amount = dec(1000)
	got = Aggregate(txs, Period{Year: 1404})
	if want := dec(1000).Div(dec(12)); !got.AvgMonthlyProfit.Equal(want) {
		t.Errorf("AvgMonthlyProfit = %s, want %s", got.AvgMonthlyProfit, want)
	}
}

func TestYearToDate(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1403, 12, 29, income, 999, completed, ""),
		tx(t, 1404, 1, 1, income, 300, completed, ""),
		tx(t, 1404, 2, 31, expense, 100, completed, ""),
		tx(t, 1404, 3, 1, income, 5000, completed, ""),
		tx(t, 1404, 2, 10, income, 7000, pending, ""),
	}

	tests := []struct {
		month  int
		profit int64
		count  int
		avg    decimal.Decimal
	}{
		{1, 300, 1, dec(300)},
		{2, 200, 2, dec(100)},
		{3, 5200, 3, dec(5200).Div(dec(3))},
		{12, 5200, 3, dec(5200).Div(dec(12))},
	}
	for _, tt := range tests {
		got := YearToDate(txs, 1404, tt.month)
		if !got.Profit.Equal(dec(tt.profit)) || got.TransactionCount != tt.count || !got.AvgMonthlyProfit.Equal(tt.avg) {
			t.Errorf("YearToDate(1404, %d) = profit %s count %d avg %s, want %d %d %s",
				tt.month, got.Profit, got.TransactionCount, got.AvgMonthlyProfit, tt.profit, tt.count, tt.avg)
		}
		if got.Month != tt.month {
			t.Errorf("YearToDate(1404, %d).Month = %d", tt.month, got.Month)
		}
	}

	if got := YearToDate(txs, 1404, 0); !got.Profit.Equal(dec(5200)) || got.Month != 0 {
		t.Errorf("YearToDate month 0 = %+v, want whole year", got)
	}
}

func TestCheckDates(t *testing.T) {
	valid := []models.Transaction{tx(t, 1404, 1, 1, expense, 10, completed, "")}
	if err := CheckDates(valid); err != nil {
		t.Errorf("CheckDates(valid) = %v", err)
	}
	if err := CheckDates(nil); err != nil {
		t.Errorf("CheckDates(nil) = %v", err)
	}

	zero := append(valid, models.Transaction{Type: expense, Amount: dec(50), Status: completed})
	err := CheckDates(zero)
	var perr *jalali.DateParseError
	if !errors.As(err, &perr) || !errors.Is(err, jalali.ErrInvalidDate) {
		t.Errorf("CheckDates(zero date) = %v, want *jalali.DateParseError wrapping ErrInvalidDate", err)
	}
}

func TestAggregateDoesNotMutate(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 4, 4, expense, 40, completed, "unknown-key"),
		tx(t, 1404, 4, 1, expense, 10, completed, ""),
	}
	before := append([]models.Transaction{}, txs...)

	Aggregate(txs, Period{Year: 1404})
	CategoryBreakdown(txs, expense, 1404)
	ExpenseHeatmap(txs, 1404)
	MonthlyBreakdown(txs, 1404)

	for i := range txs {
		if txs[i].Category != before[i].Category || txs[i].Date != before[i].Date || !txs[i].Amount.Equal(before[i].Amount) {
			t.Errorf("txs[%d] mutated: %+v", i, txs[i])
		}
	}
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		current, previous int64
		want              int64
	}{
		{0, 0, 0},
		{500, 0, 100},
		{-500, 0, 0},
		{100, 200, -50},
		{150, 100, 50},
		{100, 100, 0},
		{0, 100, -100},
		{1, 3, -67},
		{2, 3, -33},
		{1005, 1000, 1}, // 0.5 от нуля
		{995, 1000, -1}, // -0.5 от нуля
		{50, -100, 150},
		{-300, -100, -200},
	}

	for _, tt := range tests {
		got := ChangePercent(dec(tt.current), dec(tt.previous))
		if got != tt.want {
			t.Errorf("ChangePercent(%d, %d) = %d, want %d", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	c := Compare(dec(300), dec(200))
	if !c.Change.Equal(dec(100)) || c.ChangePercent != 50 || c.Inverse {
		t.Errorf("Compare = %+v", c)
	}

	inv := CompareInverse(dec(300), dec(200))
	if !inv.Inverse {
		t.Error("CompareInverse did not set Inverse")
	}
	if inv.ChangePercent != c.ChangePercent || !inv.Change.Equal(c.Change) {
		t.Errorf("CompareInverse changed numbers: %+v vs %+v", inv, c)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 1, 10, expense, 300, completed, "rent"),
		tx(t, 1404, 2, 10, expense, 100, completed, "food"),
		tx(t, 1404, 3, 10, expense, 100, completed, "transport"),
		tx(t, 1404, 3, 11, expense, 400, completed, ""),
		tx(t, 1404, 3, 12, expense, 100, completed, "no-such-category"),
		tx(t, 1404, 3, 13, expense, 9999, pending, "food"),
		tx(t, 1404, 3, 14, income, 9999, completed, "salary"),
		tx(t, 1403, 3, 14, expense, 9999, completed, "food"),
	}

	got := CategoryBreakdown(txs, expense, 1404)

	want := []struct {
		key   models.CategoryKey
		value int64
		pct   string
	}{
		{models.CategoryOther, 500, "50"},
		{models.CategoryRent, 300, "30"},
		{models.CategoryFood, 100, "10"},
		{models.CategoryTransport, 100, "10"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Category != w.key {
			t.Errorf("[%d] category = %s, want %s", i, got[i].Category, w.key)
		}
		if !got[i].Value.Equal(dec(w.value)) {
			t.Errorf("[%d] value = %s, want %d", i, got[i].Value, w.value)
		}
		if got[i].Percentage.String() != w.pct {
			t.Errorf("[%d] percentage = %s, want %s", i, got[i].Percentage, w.pct)
		}
		if got[i].Label == "" || got[i].Color == "" {
			t.Errorf("[%d] missing display metadata: %+v", i, got[i])
		}
	}
	if got[0].Count != 2 {
		t.Errorf("other count = %d, want 2", got[0].Count)
	}
}

func TestCategoryBreakdownPercentagesSum(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 1, 1, expense, 1, completed, "food"),
		tx(t, 1404, 1, 1, expense, 1, completed, "rent"),
		tx(t, 1404, 1, 1, expense, 1, completed, "bills"),
		tx(t, 1404, 1, 2, expense, 7, completed, "travel"),
		tx(t, 1404, 1, 3, expense, 13, completed, "health"),
	}

	got := CategoryBreakdown(txs, expense, 1404)
	sum := decimal.Zero
	for _, b := range got {
		sum = sum.Add(b.Percentage)
	}
	if sum.Sub(dec(100)).Abs().GreaterThan(decimal.NewFromFloat(0.5)) {
		t.Errorf("percentages sum to %s", sum)
	}

	// 1/23 = 4.347... -> 4.3
	for _, b := range got {
		if b.Category == models.CategoryFood && b.Percentage.String() != "4.3" {
			t.Errorf("food percentage = %s, want 4.3", b.Percentage)
		}
	}
}

func TestCategoryBreakdownZeroTotal(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 1, 1, income, 0, completed, "salary"),
		tx(t, 1404, 1, 1, income, 0, completed, "gift"),
	}
	got := CategoryBreakdown(txs, income, 1404)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, b := range got {
		if !b.Percentage.IsZero() {
			t.Errorf("%s percentage = %s, want 0", b.Category, b.Percentage)
		}
	}
	// стабильность: порядок первого появления
	if got[0].Category != models.CategorySalary || got[1].Category != models.CategoryGift {
		t.Errorf("order = %s, %s", got[0].Category, got[1].Category)
	}

	if got := CategoryBreakdown(nil, income, 1404); len(got) != 0 {
		t.Errorf("empty input gave %d buckets", len(got))
	}
}

func TestExpenseHeatmap(t *testing.T) {
	txs := []models.Transaction{
		tx(t, 1404, 9, 5, expense, 10, completed, ""),
		tx(t, 1404, 1, 1, expense, 5, completed, ""),
		tx(t, 1404, 9, 5, expense, 15, completed, ""),
		tx(t, 1404, 12, 29, expense, 1, completed, ""),
		tx(t, 1404, 9, 6, expense, 100, pending, ""),
		tx(t, 1404, 9, 7, income, 100, completed, ""),
		tx(t, 1403, 12, 30, expense, 100, completed, ""),
	}

	got := ExpenseHeatmap(txs, 1404)

	want := []struct {
		date  string
		count int
		total int64
	}{
		{"1404/01/01", 1, 5},
		{"1404/09/05", 2, 25},
		{"1404/12/29", 1, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Date.String() != w.date || got[i].Count != w.count || !got[i].Total.Equal(dec(w.total)) {
			t.Errorf("[%d] = %s %d %s, want %s %d %d", i, got[i].Date, got[i].Count, got[i].Total, w.date, w.count, w.total)
		}
		if jalali.FromGregorian(got[i].Gregorian) != got[i].Date {
			t.Errorf("[%d] gregorian %s does not match %s", i, got[i].Gregorian, got[i].Date)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Errorf("cells out of order at %d", i)
		}
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	if got := MonthlyBreakdown(nil, 1404); len(got) != 12 {
		t.Fatalf("empty: len = %d, want 12", len(got))
	}

	txs := []models.Transaction{
		tx(t, 1404, 1, 1, income, 100, completed, ""),
		tx(t, 1404, 12, 29, expense, 40, completed, ""),
		tx(t, 1405, 1, 1, income, 999, completed, ""),
	}
	got := MonthlyBreakdown(txs, 1404)
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}
	for i, m := range got {
		if m.Month != i+1 || m.Year != 1404 {
			t.Errorf("[%d] period = %d/%d", i, m.Year, m.Month)
		}
	}
	if !got[0].Profit.Equal(dec(100)) || !got[11].Profit.Equal(dec(-40)) {
		t.Errorf("farvardin %s, esfand %s", got[0].Profit, got[11].Profit)
	}
	for _, m := range got[1:11] {
		if m.TransactionCount != 0 {
			t.Errorf("month %d count = %d", m.Month, m.TransactionCount)
		}
	}
}
