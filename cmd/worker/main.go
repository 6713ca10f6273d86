package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"jobboard/api/internal/cache"
	"jobboard/api/internal/config"
	"jobboard/api/internal/database"
	"jobboard/api/internal/log"
	"jobboard/api/internal/queue"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/service"
	"jobboard/api/internal/tasks"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic(err)
	}

	logger := log.NewWithLevel(cfg.Environment, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	client, err := cache.NewRedisClient(ctx, config.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	matching := service.NewMatchingService(
		repository.NewSubscriberRepository(dbPool),
		repository.NewJobRepository(dbPool),
		service.LogNotifier{Log: logger},
		logger,
	)
	processor := tasks.NewProcessor(matching, repository.NewSessionRepository(dbPool), logger)
	consumer := queue.NewConsumer(client, queue.Options{
		Stream:        cfg.Redis.Stream,
		Group:         cfg.Redis.Group,
		Consumer:      cfg.Redis.Consumer,
		ClaimInterval: cfg.Queues.ClaimInterval,
		BatchSize:     cfg.Queues.BatchSize,
	}, logger, processor)

	logger.Info().Str("stream", cfg.Redis.Stream).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("worker exited")
}
