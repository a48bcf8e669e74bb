package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/alligatorO15/jalali-finance/internal/api"
	"github.com/alligatorO15/jalali-finance/internal/cache"
	"github.com/alligatorO15/jalali-finance/internal/config"
	"github.com/alligatorO15/jalali-finance/internal/database"
	"github.com/alligatorO15/jalali-finance/internal/events"
	"github.com/alligatorO15/jalali-finance/internal/logger"
	"github.com/alligatorO15/jalali-finance/internal/repository"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// загрузка .env файла
	envErr := godotenv.Load()

	// загрузка конфигурации
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	if envErr != nil {
		log.Info().Msg("файл .env не найден, используются переменные окружения")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("некорректная конфигурация")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// хранилище + миграции
	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.DataBackend).Msg("ошибка инициализации хранилища")
	}
	defer closeStore()

	txCache := cache.NewTransactionCache(cfg.CacheSize, cfg.CacheTTL)
	go txCache.RunCleanup(ctx, cfg.CacheTTL, log.With().Str("component", "cache").Logger())

	publisher := startEvents(ctx, cfg, txCache, log)
	defer publisher.Close()

	// инициализация сервисов
	services := service.NewServices(repos, txCache, publisher, cfg, log)

	// инициализация и запуск API сервера
	server := api.NewServer(cfg, services, log)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.DataBackend).Msg("запуск сервера")
		serverErr <- server.Run()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("ошибка запуска сервера")
		}
	case <-ctx.Done():
		log.Info().Msg("получен сигнал остановки")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ошибка остановки сервера")
	}
	log.Info().Msg("сервер остановлен")
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repository.Repositories, func(), error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		pool, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePostgres(pool, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresRepositories(pool), pool.Close, nil

	case config.BackendSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db, log); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewSQLiteRepositories(db), func() { db.Close() }, nil

	case config.BackendMemory:
		log.Warn().Msg("данные хранятся только в памяти процесса")
		return repository.NewMemoryRepositories(), func() {}, nil
	}
	return nil, nil, errors.New("unknown data backend " + cfg.DataBackend)
}

// startEvents без AMQP_URL события не рассылаются; при недоступном брокере работаем без него
func startEvents(ctx context.Context, cfg *config.Config, txCache *cache.TransactionCache, log zerolog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}

	eventsLog := log.With().Str("component", "events").Logger()
	client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, eventsLog)
	if err != nil {
		eventsLog.Error().Err(err).Msg("брокер недоступен, кэш сбрасывается только локально")
		return events.Nop{}
	}

	go func() {
		err := client.Consume(ctx, func(msg events.TransactionsChanged) error {
			n := txCache.InvalidateUser(msg.UserID)
			eventsLog.Debug().Str("user_id", msg.UserID).Int("removed", n).Msg("кэш пользователя сброшен по событию")
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			eventsLog.Error().Err(err).Msg("подписка на события остановлена")
		}
	}()
	return client
}
