package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/google/uuid"
)

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	like:        "LIKE",
	date:        func(d civil.Date) any { return d.String() },
}

// время в sqlite хранится текстом с фиксированной шириной, чтобы сортировка строк совпадала с хронологией
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

type sqliteTransactionRepository struct {
	db *sql.DB
}

func NewSQLiteTransactionRepository(db *sql.DB) TransactionRepository {
	return &sqliteTransactionRepository{db: db}
}

func (r *sqliteTransactionRepository) conn(ctx context.Context) SQLDBTX {
	return GetSQLTxOrDB(ctx, r.db)
}

func (r *sqliteTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, date, type, amount, status, category, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.conn(ctx).ExecContext(ctx, query,
		tx.ID.String(), tx.UserID, tx.Date.String(), string(tx.Type), tx.Amount.String(),
		string(tx.Status), tx.Category, tx.Description, formatTime(tx.CreatedAt), formatTime(tx.UpdatedAt),
	)
	return err
}

func (r *sqliteTransactionRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = ? AND t.user_id = ? AND t.deleted_at IS NULL`

	tx, err := scanSQLiteTransaction(r.conn(ctx).QueryRowContext(ctx, query, id.String(), userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (r *sqliteTransactionRepository) GetByFilter(ctx context.Context, userID string, filter *models.TransactionFilter) (*models.TransactionList, error) {
	where, args := sqliteDialect.transactionWhere(userID, filter)

	var total int64
	if err := r.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	offset := normalizePage(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions t` + where + orderClause(filter) + ` LIMIT ? OFFSET ?`
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

func (r *sqliteTransactionRepository) ListByDateRange(ctx context.Context, userID string, from, to civil.Date) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t
		WHERE t.user_id = ? AND t.date >= ? AND t.date <= ? AND t.deleted_at IS NULL
		ORDER BY t.date ASC, t.created_at ASC`
	return r.query(ctx, query, userID, from.String(), to.String())
}

func (r *sqliteTransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions SET
			date = ?, type = ?, amount = ?, status = ?, category = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	tx.UpdatedAt = time.Now()
	res, err := r.conn(ctx).ExecContext(ctx, query,
		tx.Date.String(), string(tx.Type), tx.Amount.String(), string(tx.Status),
		tx.Category, tx.Description, formatTime(tx.UpdatedAt), tx.ID.String(), tx.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteTransactionRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `UPDATE transactions SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`
	res, err := r.conn(ctx).ExecContext(ctx, query, formatTime(time.Now()), id.String(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteTransactionRepository) query(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanSQLiteTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx                   models.Transaction
		id, date             string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&id, &tx.UserID, &date, &tx.Type, &tx.Amount,
		&tx.Status, &tx.Category, &tx.Description, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tx.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if tx.Date, err = civil.ParseDate(date); err != nil {
		return nil, &jalali.DateParseError{Raw: date, Err: err}
	}
	if tx.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, err
	}
	if tx.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, err
	}
	return &tx, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := GetSQLTxOrDB(ctx, r.db).ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, formatTime(now), formatTime(now),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `email = ?`, email)
}

func (r *sqliteUserRepository) getOne(ctx context.Context, cond string, arg any) (*models.User, error) {
	query := `SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE ` + cond + ` AND deleted_at IS NULL`

	var (
		user                 models.User
		createdAt, updatedAt string
	)
	err := GetSQLTxOrDB(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}
