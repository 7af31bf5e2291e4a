package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restoflow/config"
	httpapi "restoflow/internal/api/http"
	"restoflow/internal/eav"
	"restoflow/internal/service"
	"restoflow/internal/storage"
	"restoflow/internal/storage/memory"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store eav.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warnw("using in-memory store, data is lost on exit")
		store = memory.NewStore()
	default:
		db := config.MustInitPostgres(cfg.DB, logger)
		defer db.Close()
		if err := storage.EnsureSchema(ctx, db); err != nil {
			logger.Fatalw("failed to ensure schema", "error", err)
		}
		store = storage.NewPostgresStore(db)
	}

	var cache service.RatingCache
	if cfg.Redis.Enabled() {
		client := config.MustInitRedis(cfg.Redis, logger)
		defer client.Close()
		cache = storage.NewRatingCache(client, cfg.Redis.RatingTTL)
	}

	users := service.NewUserService(store)

	// Without a broker, events are applied in process by the same aggregator
	// the standalone consumer runs.
	var publisher service.EventPublisher
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		ratings := service.NewReviewService(store, cache, nil, logger)
		publisher = service.NewDirectPublisher(service.NewAggregator(nil, users, ratings, logger))
	}
	reviews := service.NewReviewService(store, cache, publisher, logger)

	handler := httpapi.NewHandler(httpapi.Services{
		Menu:      service.NewMenuService(store),
		Admin:     service.NewAdminService(store, service.NewRegistry()),
		Cart:      service.NewCartService(store),
		Orders:    service.NewOrderService(store, publisher, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}, logger),
		Bookings:  service.NewBookingService(store),
		Tables:    service.NewTableService(store),
		Reviews:   reviews,
		Users:     users,
		News:      service.NewNewsService(store),
		Contact:   service.NewContactService(store),
		Analytics: service.NewAnalyticsService(store),
	}, cfg.Version, logger)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, httpapi.RouterConfig{
			RPS:    cfg.RateLimit.RPS,
			Burst:  cfg.RateLimit.Burst,
			Logger: logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("api starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("api stopped", "error", err)
	}
	logger.Infow("api stopped")
}
