// Package stats агрегирует транзакции по периодам солнечной хиджры:
// суммы доходов и расходов, изменение к прошлому периоду, разбивка по категориям
// и тепловая карта расходов. Все функции чистые и не изменяют входной срез.
package stats

import (
	"fmt"

	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
)

// InvalidPeriodError месяц вне 1..12 или год вне поддерживаемого диапазона
type InvalidPeriodError struct {
	Field string // "year" | "month"
	Value int
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period %s: %d", e.Field, e.Value)
}

// Period год солнечной хиджры и, опционально, месяц. Month == 0 означает весь год
type Period struct {
	Year  int
	Month int
}

func YearPeriod(year int) (Period, error) {
	if year < jalali.MinYear || year > jalali.MaxYear {
		return Period{}, &InvalidPeriodError{Field: "year", Value: year}
	}
	return Period{Year: year}, nil
}

func MonthPeriod(year, month int) (Period, error) {
	p, err := YearPeriod(year)
	if err != nil {
		return Period{}, err
	}
	if month < 1 || month > 12 {
		return Period{}, &InvalidPeriodError{Field: "month", Value: month}
	}
	p.Month = month
	return p, nil
}

func (p Period) IsYear() bool {
	return p.Month == 0
}

// Previous предыдущий период той же длины: для фарвардина это эсфанд прошлого года
func (p Period) Previous() Period {
	switch {
	case p.IsYear():
		return Period{Year: p.Year - 1}
	case p.Month == 1:
		return Period{Year: p.Year - 1, Month: 12}
	default:
		return Period{Year: p.Year, Month: p.Month - 1}
	}
}

func (p Period) String() string {
	if p.IsYear() {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d/%02d", p.Year, p.Month)
}

func IsCompleted(t models.Transaction) bool {
	return t.Status == models.TransactionStatusCompleted
}

func MatchesType(t models.Transaction, typ models.TransactionType) bool {
	return t.Type == typ
}

// InPeriod попадает ли день транзакции в период. Время суток не хранится, поэтому
// граница периода всегда совпадает с границей календарного дня.
// Невалидная дата не входит ни в один период; загрузчики отсекают такие данные через CheckDates
func InPeriod(t models.Transaction, p Period) bool {
	if !t.Date.IsValid() {
		return false
	}
	d := jalali.FromGregorian(t.Date)
	if d.Year != p.Year {
		return false
	}
	return p.IsYear() || d.Month == p.Month
}

// counted транзакция участвует в агрегатах периода
func counted(t models.Transaction, p Period) bool {
	return IsCompleted(t) && InPeriod(t, p)
}

// CheckDates первая транзакция с невалидной или неподдерживаемой датой как *jalali.DateParseError.
// Даты, прошедшие через jalali.ParseDate и сканеры хранилищ, всегда проходят проверку
func CheckDates(txs []models.Transaction) error {
	for _, t := range txs {
		if !jalali.Supported(t.Date) {
			return &jalali.DateParseError{Raw: t.Date.String(), Err: jalali.ErrInvalidDate}
		}
	}
	return nil
}
