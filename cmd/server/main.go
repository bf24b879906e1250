package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"roster/internal/platform/config"
	"roster/internal/platform/httpserver"
	"roster/internal/platform/logger"
	"roster/internal/platform/middleware"
	platformredis "roster/internal/platform/redis"
	"roster/internal/user/events"
	"roster/internal/user/handler"
	usermetrics "roster/internal/user/metrics"
	"roster/internal/user/service"
	"roster/internal/user/store/cache"
	"roster/internal/user/store/memory"
	"roster/internal/user/store/postgres"
	"roster/pkg/platform/events/kafka"
)

// main wires high-level dependencies and keeps the server lifecycle
// small. Business logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roster: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc, publisher, worker := buildService(ctx, cfg, store, log)
	if publisher != nil {
		defer publisher.Close()
	}

	router := buildRouter(svc, log)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	if worker != nil {
		group.Go(func() error {
			if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("event worker: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		log.Info("starting roster", "addr", cfg.Addr, "min_age", cfg.MinAge)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return group.Wait()
}

// buildStore selects the persistence backend from config: Postgres when a
// DSN is set, in-memory otherwise, with an optional Redis read-through
// cache in front of either.
func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.Store, func(), error) {
	var (
		store   service.Store
		cleanup = func() {}
	)

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		store = postgres.New(db)
		cleanup = func() { db.Close() }
		log.Info("using postgres store")
	} else {
		store = memory.New()
		log.Info("using in-memory store")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		store = cache.New(store, redisClient.Client, cache.WithLogger(log))
		inner := cleanup
		cleanup = func() {
			redisClient.Close()
			inner()
		}
		log.Info("redis cache enabled")
	}

	return store, cleanup, nil
}

// buildService assembles the user service with metrics and, when brokers
// are configured, an async Kafka event pipeline.
func buildService(ctx context.Context, cfg config.Server, store service.Store, log *slog.Logger) (*service.Service, *kafka.Publisher, *events.Worker) {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(usermetrics.New()),
	}

	var (
		publisher *kafka.Publisher
		worker    *events.Worker
	)
	if len(cfg.Kafka.Brokers) > 0 {
		var err error
		publisher, err = kafka.NewPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			// Events are best-effort; a down broker must not block startup.
			log.Warn("kafka publisher disabled", "error", err)
		} else {
			inbox := events.NewChannelPublisher(256)
			worker = events.NewWorker(publisher, inbox.Inbox(), log)
			opts = append(opts, service.WithPublisher(inbox))
			log.Info("kafka events enabled", "topic", cfg.Kafka.Topic)
		}
	}

	return service.New(store, cfg.MinAge, opts...), publisher, worker
}

func buildRouter(svc *service.Service, log *slog.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestContext)
	router.Use(middleware.RequestLogger(log))

	handler.New(svc, log).Register(router)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	return router
}
