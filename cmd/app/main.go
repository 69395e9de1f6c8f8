package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edu-entitlement-platform/internal/config"
	"edu-entitlement-platform/internal/domain/ports/adapter"
	"edu-entitlement-platform/internal/domain/ports/repository"
	aiAdapters "edu-entitlement-platform/internal/infra/adapters/ai"
	pg "edu-entitlement-platform/internal/infra/db/postgres"
	"edu-entitlement-platform/internal/infra/localstore"
	"edu-entitlement-platform/internal/infra/logging"
	"edu-entitlement-platform/internal/infra/metrics"
	red "edu-entitlement-platform/internal/infra/redis"
	"edu-entitlement-platform/internal/infra/sched"
	"edu-entitlement-platform/internal/infra/web"
	"edu-entitlement-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Storage backend ----
	var (
		subRepo     repository.SubscriptionRepository
		reqRepo     repository.SubscriptionRequestRepository
		codeRepo    repository.PrepaidCodeRepository
		notifRepo   repository.NotificationRepository
		userRepo    repository.UserDirectory
		catalogRepo repository.CatalogRepository
		tm          repository.TransactionManager
	)
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		subRepo = pg.NewSubscriptionRepo(pool)
		reqRepo = pg.NewRequestRepo(pool)
		codeRepo = pg.NewCodeRepo(pool)
		notifRepo = pg.NewNotificationRepo(pool)
		userRepo = pg.NewUserRepo(pool)
		catalogRepo = pg.NewCatalogRepo(pool)
		tm = pg.NewTxManager(pool)
		logger.Info().Msg("storage backend: postgres")
	default:
		store, err := localstore.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("localstore: %v", err)
		}
		subRepo = localstore.NewSubscriptionRepo(store)
		reqRepo = localstore.NewRequestRepo(store)
		codeRepo = localstore.NewCodeRepo(store)
		notifRepo = localstore.NewNotificationRepo(store)
		userRepo = localstore.NewUserRepo(store)
		catalogRepo = localstore.NewCatalogRepo(store)
		tm = localstore.NewTxManager(store)
		logger.Info().Str("path", cfg.Store.Path).Msg("storage backend: local snapshot")
	}

	// ---- Redis (optional: badge cache + redeem guard) ----
	var badge usecase.BadgeCache
	var guard web.RedeemGuard
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		badge = red.NewBadgeCache(redisClient, cfg.Redis.TTL)
		guard = red.NewRedeemGuard(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; badge cache and redeem guard disabled")
	}

	// ---- Use cases ----
	activity := logging.NewActivityLog(logger)
	ledgerUC := usecase.NewLedgerUseCase(subRepo, reqRepo, codeRepo, catalogRepo, tm, activity, logger)
	notifUC := usecase.NewNotificationUseCase(subRepo, notifRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo)
	statsUC := usecase.NewStatsUseCase(reqRepo, subRepo, badge, logger)

	priceTable, err := cfg.PriceTable()
	if err != nil {
		log.Fatalf("pricing: %v", err)
	}
	pricingUC := usecase.NewPricingUseCase(priceTable)

	// ---- AI adapter ----
	var ai adapter.AIServiceAdapter
	if cfg.AI.APIKey != "" {
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("AI adapter: OpenAI compatible")
	} else {
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("ai.api_key not set; using noop AI adapter")
	}
	quizUC := usecase.NewQuizUseCase(ai, ledgerUC, cfg.AI.Model, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret, !cfg.Runtime.Dev, 30*time.Minute)
	srv := web.NewServer(ledgerUC, notifUC, pricingUC, userUC, statsUC, quizUC, guard, cfg.Server.APIKey, auth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Badge worker ----
	worker := sched.NewBadgeWorker(cfg.Scheduler.BadgeInterval, statsUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
