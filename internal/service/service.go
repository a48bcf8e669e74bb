package service

import (
	"github.com/alligatorO15/jalali-finance/internal/cache"
	"github.com/alligatorO15/jalali-finance/internal/config"
	"github.com/alligatorO15/jalali-finance/internal/events"
	"github.com/alligatorO15/jalali-finance/internal/repository"
	"github.com/rs/zerolog"
)

type Services struct {
	Auth        AuthService
	User        UserService
	Category    CategoryService
	Transaction TransactionService
	Analytics   AnalyticsService
	Export      ExportService
}

// NewServices кэш общий: транзакции его сбрасывают, аналитика читает
func NewServices(repos *repository.Repositories, txCache *cache.TransactionCache, publisher events.Publisher, cfg *config.Config, log zerolog.Logger) *Services {
	analytics := NewAnalyticsService(repos.Transaction, txCache, log.With().Str("service", "analytics").Logger())

	return &Services{
		Auth:        NewAuthService(repos.User, cfg),
		User:        NewUserService(repos.User, cfg),
		Category:    NewCategoryService(),
		Transaction: NewTransactionService(repos.TxManager, repos.Transaction, txCache, publisher, log.With().Str("service", "transaction").Logger()),
		Analytics:   analytics,
		Export:      NewExportService(analytics, log.With().Str("service", "export").Logger()),
	}
}
