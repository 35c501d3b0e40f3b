package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/auth"
	"github.com/flickduel/flickduel-engine/pkg/catalog"
	"github.com/flickduel/flickduel-engine/pkg/config"
	"github.com/flickduel/flickduel-engine/pkg/database"
	"github.com/flickduel/flickduel-engine/pkg/handlers"
	"github.com/flickduel/flickduel-engine/pkg/middleware"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
	"github.com/flickduel/flickduel-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Host),
		zap.String("redis", cfg.Redis.Host),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Repositories
	contentRepo := repositories.NewCachedContentRepository(
		repositories.NewContentRepository(db.Pool), redisClient, cfg.Redis.CatalogTTL, logger)
	interactionRepo := repositories.NewInteractionRepository(db.Pool)
	sessionRepo := repositories.NewSessionRepository(db.Pool)
	recommendationRepo := repositories.NewRecommendationRepository(db.Pool)
	watchlistRepo := repositories.NewWatchlistRepository(db.Pool)

	// First-boot catalog seed
	seeder := catalog.NewSeeder(contentRepo, logger)
	if err := seeder.SeedIfEmpty(ctx, cfg.Catalog.SeedPath); err != nil {
		logger.Fatal("Failed to seed catalog", zap.Error(err))
	}

	// Services
	profileBuilder := services.NewProfileBuilder(interactionRepo, contentRepo, logger)
	scorer := services.NewContentScorer(nil)
	pairSelector := services.NewPairSelector(contentRepo, interactionRepo, sessionRepo, profileBuilder, &cfg.Engine, logger)
	recommendationService := services.NewRecommendationService(
		recommendationRepo, contentRepo, interactionRepo, sessionRepo, watchlistRepo,
		profileBuilder, scorer, &cfg.Engine, logger)
	refreshScheduler := services.NewRefreshScheduler(recommendationService, &cfg.Engine, logger)
	defer refreshScheduler.Shutdown()
	interactionService := services.NewInteractionService(
		interactionRepo, contentRepo, sessionRepo, watchlistRepo,
		refreshScheduler, &cfg.Engine, logger)
	sessionService := services.NewSessionService(sessionRepo, logger)
	watchlistService := services.NewWatchlistService(watchlistRepo, sessionRepo, logger)

	// HTTP surface
	authMiddleware := auth.NewMiddleware(sessionRepo, logger)
	requireSession := authMiddleware.RequireSession

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSessionHandler(sessionService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewVotingHandler(pairSelector, interactionService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewRecommendationHandler(recommendationService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewWatchlistHandler(watchlistService, logger).RegisterRoutes(mux, requireSession)

	handler := middleware.Recoverer(logger)(middleware.RequestLogger(logger)(mux))

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting flickduel-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
