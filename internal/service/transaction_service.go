package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/cache"
	"github.com/alligatorO15/jalali-finance/internal/events"
	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/alligatorO15/jalali-finance/internal/repository"
	"github.com/alligatorO15/jalali-finance/internal/stats"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidAmount            = errors.New("amount must be a non-negative whole number of toman")
	ErrInvalidDateRange         = errors.New("date range start is after its end")
	ErrTransactionNotFound      = errors.New("transaction not found")
)

type TransactionService interface {
	Create(ctx context.Context, userID string, input *models.TransactionCreate) (*models.Transaction, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Transaction, error)
	GetByFilter(ctx context.Context, userID string, filter *models.TransactionFilter) (*models.TransactionList, error)
	Update(ctx context.Context, userID string, id uuid.UUID, update *models.TransactionUpdate) (*models.Transaction, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type transactionService struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	cache           *cache.TransactionCache
	publisher       events.Publisher
	log             zerolog.Logger
}

func NewTransactionService(txManager repository.TxManager, transactionRepo repository.TransactionRepository, txCache *cache.TransactionCache, publisher events.Publisher, log zerolog.Logger) TransactionService {
	return &transactionService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		cache:           txCache,
		publisher:       publisher,
		log:             log,
	}
}

func (s *transactionService) Create(ctx context.Context, userID string, input *models.TransactionCreate) (*models.Transaction, error) {
	date, err := jalali.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.TransactionStatusCompleted
	}

	tx := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Type:        input.Type,
		Amount:      input.Amount,
		Status:      status,
		Category:    string(models.NormalizeCategory(input.Category)),
		Description: strings.TrimSpace(input.Description),
	}
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.changed(ctx, userID)
	return tx, nil
}

func (s *transactionService) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	return tx, err
}

func (s *transactionService) GetByFilter(ctx context.Context, userID string, filter *models.TransactionFilter) (*models.TransactionList, error) {
	if err := resolveFilterDates(filter); err != nil {
		return nil, err
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, ErrInvalidTransactionType
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidTransactionStatus
	}
	return s.transactionRepo.GetByFilter(ctx, userID, filter)
}

func (s *transactionService) Update(ctx context.Context, userID string, id uuid.UUID, update *models.TransactionUpdate) (*models.Transaction, error) {
	var tx *models.Transaction

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.transactionRepo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if update.Date != nil {
			if existing.Date, err = jalali.ParseDate(*update.Date); err != nil {
				return err
			}
		}
		if update.Type != nil {
			existing.Type = *update.Type
		}
		if update.Amount != nil {
			existing.Amount = *update.Amount
		}
		if update.Status != nil {
			existing.Status = *update.Status
		}
		if update.Category != nil {
			existing.Category = string(models.NormalizeCategory(*update.Category))
		}
		if update.Description != nil {
			existing.Description = strings.TrimSpace(*update.Description)
		}

		if err := validateTransaction(existing); err != nil {
			return err
		}
		if err := s.transactionRepo.Update(ctx, existing); err != nil {
			return err
		}
		tx = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	s.changed(ctx, userID)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	s.changed(ctx, userID)
	return nil
}

// changed сбрасывает локальный кэш и оповещает остальные инстансы.
// Ошибка публикации не откатывает запись, только логируется
func (s *transactionService) changed(ctx context.Context, userID string) {
	s.cache.InvalidateUser(userID)
	if err := s.publisher.PublishTransactionsChanged(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("не удалось опубликовать изменение транзакций")
	}
}

func validateTransaction(tx *models.Transaction) error {
	if !tx.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if !tx.Status.IsValid() {
		return ErrInvalidTransactionStatus
	}
	// сумма в туманах: неотрицательная и целая, знак задает тип
	if tx.Amount.IsNegative() || !tx.Amount.Equal(tx.Amount.Truncate(0)) {
		return ErrInvalidAmount
	}
	return nil
}

// resolveFilterDates переводит jalali год/месяц и строки from/to в григорианские границы
func resolveFilterDates(filter *models.TransactionFilter) error {
	if filter.Year != 0 || filter.Month != 0 {
		var (
			p   stats.Period
			err error
		)
		if filter.Month != 0 {
			p, err = stats.MonthPeriod(filter.Year, filter.Month)
		} else {
			p, err = stats.YearPeriod(filter.Year)
		}
		if err != nil {
			return err
		}
		from, to, err := periodBounds(p)
		if err != nil {
			return err
		}
		filter.DateFrom, filter.DateTo = &from, &to
	}

	if filter.From != "" {
		d, err := jalali.ParseDate(filter.From)
		if err != nil {
			return err
		}
		if filter.DateFrom == nil || d.After(*filter.DateFrom) {
			filter.DateFrom = &d
		}
	}
	if filter.To != "" {
		d, err := jalali.ParseDate(filter.To)
		if err != nil {
			return err
		}
		if filter.DateTo == nil || d.Before(*filter.DateTo) {
			filter.DateTo = &d
		}
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, filter.DateFrom, filter.DateTo)
	}
	return nil
}

func periodBounds(p stats.Period) (civil.Date, civil.Date, error) {
	if p.IsYear() {
		return jalali.YearBounds(p.Year)
	}
	return jalali.MonthBounds(p.Year, p.Month)
}
