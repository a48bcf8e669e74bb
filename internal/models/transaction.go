package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction запись о доходе или расходе. Сумма всегда неотрицательна (в туманах), знак задает Type
type Transaction struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	UserID      string            `json:"user_id" db:"user_id"` // гость или зарегистрированный пользователь, для ядра непрозрачен
	Date        civil.Date        `json:"date" db:"date"`       // григорианский календарный день
	Type        TransactionType   `json:"type" db:"type"`
	Amount      decimal.Decimal   `json:"amount" db:"amount"`
	Status      TransactionStatus `json:"status" db:"status"`
	Category    string            `json:"category" db:"category"`
	Description string            `json:"description" db:"description"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// даты приходят строками и нормализуются через jalali.ParseDate на входе
type TransactionCreate struct {
	Date        string            `json:"date" binding:"required"`
	Type        TransactionType   `json:"type" binding:"required"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
}

type TransactionUpdate struct {
	Date        *string            `json:"date"`
	Type        *TransactionType   `json:"type"`
	Amount      *decimal.Decimal   `json:"amount"`
	Status      *TransactionStatus `json:"status"`
	Category    *string            `json:"category"`
	Description *string            `json:"description"`
}

type TransactionFilter struct {
	Type      *TransactionType   `form:"type"`
	Status    *TransactionStatus `form:"status"`
	Category  string             `form:"category"`
	Year      int                `form:"year"`  // jalali год, 0 = без ограничения
	Month     int                `form:"month"` // jalali месяц, только вместе с year
	From      string             `form:"from"`  // любая дата, понятная jalali.ParseDate
	To        string             `form:"to"`
	DateFrom  *civil.Date        `form:"-"` // заполняет сервис из year/month/from/to
	DateTo    *civil.Date        `form:"-"`
	Search    string             `form:"search"` // по description
	Page      int                `form:"page"`
	Limit     int                `form:"limit"`
	SortOrder string             `form:"sort_order"` // asc | desc по дате
}

// структура пагинированного ответа
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"total_pages"`
}
