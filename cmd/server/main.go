package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"

	httpAdapter "github.com/imelnyk/bankcore/internal/adapter/http"
	"github.com/imelnyk/bankcore/internal/adapter/http/handler"
	"github.com/imelnyk/bankcore/internal/adapter/http/middleware"
	"github.com/imelnyk/bankcore/internal/adapter/idgen"
	memoryRepo "github.com/imelnyk/bankcore/internal/adapter/repository/memory"
	postgresRepo "github.com/imelnyk/bankcore/internal/adapter/repository/postgres"
	redisRepo "github.com/imelnyk/bankcore/internal/adapter/repository/redis"
	"github.com/imelnyk/bankcore/internal/infrastructure/config"
	"github.com/imelnyk/bankcore/internal/infrastructure/logger"
	"github.com/imelnyk/bankcore/internal/infrastructure/metrics"
	"github.com/imelnyk/bankcore/internal/infrastructure/postgres"
	"github.com/imelnyk/bankcore/internal/infrastructure/redis"
	"github.com/imelnyk/bankcore/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Storage
	var (
		accountRepo usecase.AccountRepository
		txManager   usecase.TransactionManager
		retrier     usecase.Retrier
		pool        *pgxpool.Pool
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		accountRepo = postgresRepo.NewAccountRepository(pool)
		txManager = postgresRepo.NewTxManager(pool)
		retrier = postgresRepo.NewRetrier(log)

	case config.DriverMemory:
		repo := memoryRepo.NewAccountRepository()
		accountRepo = repo
		txManager = repo
		log.Info().Msg("using in-memory storage")
	}

	// Redis (optional)
	var (
		redisClient      *redislib.Client
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	idGen := buildIDGenerator(cfg.IDScheme)
	m := metrics.New()

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, m)
	withdrawalUC := usecase.NewWithdrawalUseCase(txManager, accountRepo, idGen, retrier, m)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    accountHandler,
		WithdrawalHandler: withdrawalHandler,
		HealthHandler:     healthHandler,
		Logger:            log,
		Metrics:           m,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("driver", cfg.StorageDriver).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// buildIDGenerator picks the transaction ID scheme. The timerand scheme
// exists for compatibility with identifiers issued by earlier releases.
func buildIDGenerator(scheme string) usecase.IDGenerator {
	if scheme == config.IDSchemeTimeRand {
		return idgen.NewTimeRandGenerator()
	}

	return idgen.NewULIDGenerator()
}
