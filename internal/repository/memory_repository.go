package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/google/uuid"
)

// memoryStore хранилище для DATA_BACKEND=memory и тестов. Данные живут до перезапуска
type memoryStore struct {
	mu           sync.RWMutex
	users        map[string]models.User
	emails       map[string]string
	transactions map[uuid.UUID]models.Transaction
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        make(map[string]models.User),
		emails:       make(map[string]string),
		transactions: make(map[uuid.UUID]models.Transaction),
	}
}

// WithTx у памяти нет отката, fn выполняется как есть
func (s *memoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryTransactionRepository struct {
	store *memoryStore
}

func (r *memoryTransactionRepository) Create(_ context.Context, tx *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if _, ok := r.store.transactions[tx.ID]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *memoryTransactionRepository) GetByID(_ context.Context, userID string, id uuid.UUID) (*models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tx, ok := r.store.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, ErrNotFound
	}
	return &tx, nil
}

func (r *memoryTransactionRepository) GetByFilter(_ context.Context, userID string, filter *models.TransactionFilter) (*models.TransactionList, error) {
	r.store.mu.RLock()
	matched := []models.Transaction{}
	for _, tx := range r.store.transactions {
		if tx.UserID == userID && matchesFilter(tx, filter) {
			matched = append(matched, tx)
		}
	}
	r.store.mu.RUnlock()

	asc := filter.SortOrder == "asc"
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Date != b.Date {
			if asc {
				return a.Date.Before(b.Date)
			}
			return a.Date.After(b.Date)
		}
		if asc {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	offset := normalizePage(filter)
	total := int64(len(matched))
	page := []models.Transaction{}
	if offset < len(matched) {
		end := min(offset+filter.Limit, len(matched))
		page = matched[offset:end]
	}

	return &models.TransactionList{
		Transactions: page,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   totalPages(total, filter.Limit),
	}, nil
}

func matchesFilter(tx models.Transaction, f *models.TransactionFilter) bool {
	switch {
	case f.Type != nil && tx.Type != *f.Type:
		return false
	case f.Status != nil && tx.Status != *f.Status:
		return false
	case f.Category != "" && tx.Category != string(models.NormalizeCategory(f.Category)):
		return false
	case f.DateFrom != nil && tx.Date.Before(*f.DateFrom):
		return false
	case f.DateTo != nil && tx.Date.After(*f.DateTo):
		return false
	case f.Search != "" && !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Search)):
		return false
	}
	return true
}

func (r *memoryTransactionRepository) ListByDateRange(_ context.Context, userID string, from, to civil.Date) ([]models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []models.Transaction{}
	for _, tx := range r.store.transactions {
		if tx.UserID == userID && !tx.Date.Before(from) && !tx.Date.After(to) {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryTransactionRepository) Update(_ context.Context, tx *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return ErrNotFound
	}
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = time.Now()
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *memoryTransactionRepository) Delete(_ context.Context, userID string, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, ok := r.store.transactions[id]
	if !ok || tx.UserID != userID {
		return ErrNotFound
	}
	delete(r.store.transactions, id)
	return nil
}

type memoryUserRepository struct {
	store *memoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.emails[user.Email]; ok {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	r.store.emails[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	id, ok := r.store.emails[email]
	r.store.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
