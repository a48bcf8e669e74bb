package stats

import (
	"sort"

	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/shopspring/decimal"
)

// CategoryBreakdown суммы завершенных транзакций типа typ за год по категориям.
// Неизвестные и пустые категории сворачиваются в "other". Сортировка по убыванию суммы,
// при равенстве сохраняется порядок первого появления
func CategoryBreakdown(txs []models.Transaction, typ models.TransactionType, year int) []models.CategoryBucket {
	p := Period{Year: year}

	var order []models.CategoryKey
	buckets := make(map[models.CategoryKey]*models.CategoryBucket)
	total := decimal.Zero

	for _, t := range txs {
		if !counted(t, p) || !MatchesType(t, typ) {
			continue
		}
		key := models.NormalizeCategory(t.Category)
		b, ok := buckets[key]
		if !ok {
			meta := models.LookupCategory(string(key))
			b = &models.CategoryBucket{
				Category: key,
				Label:    meta.Label,
				Color:    meta.Color,
				Value:    decimal.Zero,
			}
			buckets[key] = b
			order = append(order, key)
		}
		b.Value = b.Value.Add(t.Amount)
		b.Count++
		total = total.Add(t.Amount)
	}

	result := make([]models.CategoryBucket, 0, len(order))
	for _, key := range order {
		b := *buckets[key]
		b.Percentage = share(b.Value, total)
		result = append(result, b)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value.GreaterThan(result[j].Value)
	})
	return result
}

// share доля в процентах с одним знаком после запятой, 0 при нулевом итоге
func share(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Mul(hundred).Div(total).Round(1)
}
