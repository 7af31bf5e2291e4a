package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"restoflow/config"
	"restoflow/internal/service"
	"restoflow/internal/storage"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if !cfg.Kafka.Enabled() {
		logger.Fatalw("KAFKA_BROKER is required for the aggregator")
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		logger.Fatalw("the aggregator needs the postgres store", "store", cfg.StoreDriver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg.DB, logger)
	defer db.Close()
	store := storage.NewPostgresStore(db)

	var cache service.RatingCache
	if cfg.Redis.Enabled() {
		client := config.MustInitRedis(cfg.Redis, logger)
		defer client.Close()
		cache = storage.NewRatingCache(client, cfg.Redis.RatingTTL)
	}

	reader := config.NewKafkaReader(cfg.Kafka)
	defer reader.Close()

	agg := service.NewAggregator(
		reader,
		service.NewUserService(store),
		service.NewReviewService(store, cache, nil, logger),
		logger,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return agg.Start(gctx)
	})
	if err := g.Wait(); err != nil {
		logger.Fatalw("aggregator stopped", "error", err)
	}
	logger.Infow("aggregator stopped", "topic", cfg.Kafka.Topic)
}
