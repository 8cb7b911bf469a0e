package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pqrssi-service/internal/api/http"
	"github.com/spec-kit/pqrssi-service/internal/api/http/handlers"
	"github.com/spec-kit/pqrssi-service/internal/auth"
	"github.com/spec-kit/pqrssi-service/internal/config"
	"github.com/spec-kit/pqrssi-service/internal/events"
	"github.com/spec-kit/pqrssi-service/internal/observability"
	"github.com/spec-kit/pqrssi-service/internal/persistence"
	"github.com/spec-kit/pqrssi-service/internal/repository"
	"github.com/spec-kit/pqrssi-service/internal/service"
	"github.com/spec-kit/pqrssi-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)

	sessionStore := auth.NewRedisSessionStore(redis.Client, cfg.Auth.SessionTTL())
	tokenManager := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL())
	sessionManager := auth.NewSessionManager(sessionStore, tokenManager)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Sessions:   sessionManager,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err := authService.SeedAdmin(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin user", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		RequestRepo:  requestRepo,
		CategoryRepo: categoryRepo,
		StatusRepo:   statusRepo,
		Dispatcher:   dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewSessionMiddleware(sessionManager)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:              handlers.NewAuthHandler(authService),
		Requests:          handlers.NewRequestsHandler(lifecycleService),
		Admin:             handlers.NewAdminHandler(lifecycleService),
		SessionMiddleware: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
