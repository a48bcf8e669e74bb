package repository

import (
	"context"
	"database/sql"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	// GetByID ищет только среди транзакций пользователя, чужая транзакция = ErrNotFound
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Transaction, error)
	GetByFilter(ctx context.Context, userID string, filter *models.TransactionFilter) (*models.TransactionList, error)
	// ListByDateRange все транзакции за [from, to] включительно, любые статусы, по возрастанию даты
	ListByDateRange(ctx context.Context, userID string, from, to civil.Date) ([]models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Repositories struct {
	TxManager   TxManager
	User        UserRepository
	Transaction TransactionRepository
}

func NewPostgresRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		TxManager:   NewTxManager(pool),
		User:        NewUserRepository(pool),
		Transaction: NewTransactionRepository(pool),
	}
}

func NewSQLiteRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		TxManager:   NewSQLTxManager(db),
		User:        NewSQLiteUserRepository(db),
		Transaction: NewSQLiteTransactionRepository(db),
	}
}

func NewMemoryRepositories() *Repositories {
	store := newMemoryStore()
	return &Repositories{
		TxManager:   store,
		User:        &memoryUserRepository{store: store},
		Transaction: &memoryTransactionRepository{store: store},
	}
}
