package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	like:        "ILIKE",
	date:        func(d civil.Date) any { return d.In(time.UTC) },
}

const transactionColumns = `t.id, t.user_id, t.date, t.type, t.amount, t.status, t.category, t.description, t.created_at, t.updated_at`

type transactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, date, type, amount, status, category, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		tx.ID, tx.UserID, tx.Date.In(time.UTC), tx.Type, tx.Amount,
		tx.Status, tx.Category, tx.Description, tx.CreatedAt, tx.UpdatedAt,
	)
	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1 AND t.user_id = $2 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(r.db(ctx).QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (r *transactionRepository) GetByFilter(ctx context.Context, userID string, filter *models.TransactionFilter) (*models.TransactionList, error) {
	where, args := postgresDialect.transactionWhere(userID, filter)

	var total int64
	if err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM transactions t`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	offset := normalizePage(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions t` + where + orderClause(filter) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	transactions, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &models.TransactionList{
		Transactions: transactions,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   totalPages(total, filter.Limit),
	}, nil
}

func (r *transactionRepository) ListByDateRange(ctx context.Context, userID string, from, to civil.Date) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3 AND t.deleted_at IS NULL
		ORDER BY t.date ASC, t.created_at ASC`
	return r.query(ctx, query, userID, from.In(time.UTC), to.In(time.UTC))
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions SET
			date = $3, type = $4, amount = $5, status = $6, category = $7, description = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	tx.UpdatedAt = time.Now()
	tag, err := r.db(ctx).Exec(ctx, query,
		tx.ID, tx.UserID, tx.Date.In(time.UTC), tx.Type, tx.Amount,
		tx.Status, tx.Category, tx.Description, tx.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `UPDATE transactions SET deleted_at = $3 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	tag, err := r.db(ctx).Exec(ctx, query, id, userID, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) query(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		tx   models.Transaction
		date time.Time
	)
	err := row.Scan(
		&tx.ID, &tx.UserID, &date, &tx.Type, &tx.Amount,
		&tx.Status, &tx.Category, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// date без часового пояса приходит как полночь UTC
	tx.Date = civil.DateOf(date.UTC())
	return &tx, nil
}
