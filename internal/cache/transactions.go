package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/rs/zerolog"
)

// TransactionCache списки транзакций пользователя за jalali год.
// Поколение пользователя растет при каждой инвалидации; список, загруженный
// в старом поколении, в кэш не попадает
type TransactionCache struct {
	lru *LRU[[]models.Transaction]

	mu          sync.Mutex
	generations map[string]uint64
}

func NewTransactionCache(size int, ttl time.Duration) *TransactionCache {
	return &TransactionCache{
		lru:         NewLRU[[]models.Transaction](size, ttl),
		generations: make(map[string]uint64),
	}
}

// userPrefix id в кавычках: префикс одного пользователя не может совпасть с ключом другого
func userPrefix(userID string) string {
	return strconv.Quote(userID) + "|"
}

func yearKey(userID string, year int) string {
	return userPrefix(userID) + strconv.Itoa(year)
}

// Get возвращает копию, чтобы вызывающий не мог испортить закэшированный срез
func (c *TransactionCache) Get(userID string, year int) ([]models.Transaction, bool) {
	txs, ok := c.lru.Get(yearKey(userID, year))
	if !ok {
		return nil, false
	}
	return append([]models.Transaction(nil), txs...), true
}

func (c *TransactionCache) Set(userID string, year int, txs []models.Transaction) {
	c.lru.Set(yearKey(userID, year), append([]models.Transaction(nil), txs...))
}

// Generation снимается до чтения из хранилища и передается в SetIfCurrent
func (c *TransactionCache) Generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}

// SetIfCurrent кладет список, только если с момента Generation не было инвалидации
func (c *TransactionCache) SetIfCurrent(userID string, year int, gen uint64, txs []models.Transaction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != gen {
		return false
	}
	c.Set(userID, year, txs)
	return true
}

// InvalidateUser сбрасывает все годы пользователя и начинает новое поколение
func (c *TransactionCache) InvalidateUser(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	return c.lru.DeletePrefix(userPrefix(userID))
}

func (c *TransactionCache) Len() int {
	return c.lru.Len()
}

// RunCleanup периодически чистит просроченные записи до отмены ctx
func (c *TransactionCache) RunCleanup(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.lru.CleanExpired(); n > 0 {
				log.Debug().Int("removed", n).Msg("очищены просроченные записи кэша")
			}
		}
	}
}
