package stats

import (
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ChangePercent изменение в процентах, округленное до целого (половина от нуля).
// При previous == 0: 100 если current > 0, иначе 0. Знак не инвертируется никогда
func ChangePercent(current, previous decimal.Decimal) int64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).Mul(hundred).Div(previous.Abs()).Round(0).IntPart()
}

func Compare(current, previous decimal.Decimal) models.ChangeComparison {
	return models.ChangeComparison{
		Current:       current,
		Previous:      previous,
		Change:        current.Sub(previous),
		ChangePercent: ChangePercent(current, previous),
	}
}

// CompareInverse то же сравнение для метрик, где рост плох (расходы).
// Число не меняется, только флаг для отображения
func CompareInverse(current, previous decimal.Decimal) models.ChangeComparison {
	c := Compare(current, previous)
	c.Inverse = true
	return c
}
