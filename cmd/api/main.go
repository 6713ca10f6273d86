package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jobboard/api/internal/cache"
	"jobboard/api/internal/config"
	"jobboard/api/internal/database"
	"jobboard/api/internal/handlers"
	"jobboard/api/internal/jobs"
	"jobboard/api/internal/log"
	"jobboard/api/internal/metrics"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/security"
	"jobboard/api/internal/seed"
	"jobboard/api/internal/server"
	"jobboard/api/internal/service"
	"jobboard/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	users := repository.NewUserRepository(dbPool)
	roles := repository.NewRoleRepository(dbPool)
	permissions := repository.NewPermissionRepository(dbPool)
	sessions := repository.NewSessionRepository(dbPool)
	jobRepo := repository.NewJobRepository(dbPool)

	if err := seed.New(permissions, roles, users, security.HashPassword, cfg.Seed, logger).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	tokens := security.NewTokenIssuer(cfg.Security)
	resolver := service.NewPermissionResolver(
		roles,
		cache.NewPermissionCache(redisClient, cfg.Security.PermissionCacheTTL),
		logger,
	)

	svc := handlers.Services{
		Auth:        service.NewAuthService(users, roles, sessions, resolver, tokens, logger),
		Users:       service.NewUserService(users, roles, sessions, security.HashPassword, logger),
		Roles:       service.NewRoleService(roles, permissions, resolver, logger),
		Permissions: service.NewPermissionService(permissions, resolver, logger),
		Jobs:        service.NewJobService(jobRepo, logger),
		Resumes:     service.NewResumeService(repository.NewResumeRepository(dbPool), jobRepo, logger),
		Subscribers: service.NewSubscriberService(repository.NewSubscriberRepository(dbPool), logger),
		Files:       service.NewFileService(objectStore, cfg.Storage.MaxSize, logger),
	}

	m := metrics.New()
	handlerSet := handlers.NewHandlerSet(logger, cfg, tokens, svc, m,
		handlers.HealthCheck{Name: "database", Ping: dbPool.Ping},
		handlers.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
	)
	httpServer := server.NewHTTPServer(cfg, logger, m, handlerSet)

	scheduler := jobs.NewScheduler(redisClient, cfg.Matching, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
