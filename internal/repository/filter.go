package repository

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/models"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// dialect различия SQL между postgres и sqlite
type dialect struct {
	placeholder func(n int) string
	like        string
	date        func(d civil.Date) any
}

// transactionWhere условия выборки по фильтру, аргументы начинаются с userID
func (d dialect) transactionWhere(userID string, filter *models.TransactionFilter) (string, []any) {
	conditions := []string{"t.user_id = " + d.placeholder(1), "t.deleted_at IS NULL"}
	args := []any{userID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, d.placeholder(len(args))))
	}

	if filter.Type != nil {
		add("t.type = %s", string(*filter.Type))
	}
	if filter.Status != nil {
		add("t.status = %s", string(*filter.Status))
	}
	if filter.Category != "" {
		add("t.category = %s", string(models.NormalizeCategory(filter.Category)))
	}
	if filter.DateFrom != nil {
		add("t.date >= %s", d.date(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		add("t.date <= %s", d.date(*filter.DateTo))
	}
	if filter.Search != "" {
		add("t.description "+d.like+" %s ESCAPE '\\'", "%"+escapeLike(filter.Search)+"%")
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike поиск по подстроке буквальный: % и _ из запроса не работают как шаблон
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// normalizePage выставляет значения по умолчанию и возвращает offset
func normalizePage(filter *models.TransactionFilter) int {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return (filter.Page - 1) * filter.Limit
}

func orderClause(filter *models.TransactionFilter) string {
	if filter.SortOrder == "asc" {
		return " ORDER BY t.date ASC, t.created_at ASC"
	}
	return " ORDER BY t.date DESC, t.created_at DESC"
}

func totalPages(total int64, limit int) int {
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}
