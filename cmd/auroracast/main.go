// Package main is the entry point for the AuroraCast service.
//
// It loads the configuration, wires the data sources, store, engine,
// scheduler, and alert publishers, and runs the HTTP server and the
// evaluation loop side by side until an OS signal (SIGINT, SIGTERM)
// requests shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"auroracast/internal/config"
	"auroracast/internal/engine"
	"auroracast/internal/fetchers"
	"auroracast/internal/notifications"
	"auroracast/internal/scheduler"
	"auroracast/internal/server"
	"auroracast/internal/store"
	"auroracast/internal/types"
)

// shutdownGrace bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit
// on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("auroracast starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
		"lat", cfg.Location.Lat,
		"lon", cfg.Location.Lon,
		"store_backend", cfg.Store.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer cleanup()

	client := fetchers.NewClient(cfg.Upstream.FetchTimeout)
	source := fetchers.NewSource(
		fetchers.NewOvationSource(client, cfg.Upstream.OvationURL, logger),
		fetchers.NewWeatherSource(client, cfg.Upstream.WeatherURL, types.RealClock{}, logger),
	)

	eng := engine.New(source, st, types.RealClock{}, logger)

	publishers, err := newPublishers(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing alert publishers: %w", err)
	}

	runner := scheduler.NewRunner(
		eng,
		st,
		publishers,
		cfg.Location.Lat,
		cfg.Location.Lon,
		cfg.Schedule.TickInterval,
		cfg.DefaultAlertState(),
		types.RealClock{},
		logger,
	)

	srv := server.NewServer(
		runner,
		st,
		cfg.DefaultAlertState(),
		cfg.Schedule.StaleAfter,
		types.RealClock{},
		logger,
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runner.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("auroracast stopped")
	return nil
}

// newStore selects the persistence backend. The returned cleanup closes
// the connection pool for the postgres backend and is a no-op for memory.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.Store.Backend == "memory" {
		return store.NewMemory(), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL.Unmask())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing database url: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Store.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("postgres store ready", "max_conns", cfg.Store.MaxConns)
	return pg, pool.Close, nil
}

// newPublishers builds the alert channels. The log channel is always
// active; SQS is added only when a queue URL is configured.
func newPublishers(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]notifications.Publisher, error) {
	publishers := []notifications.Publisher{
		notifications.NewLogPublisher(logger),
	}

	if cfg.Alerts.QueueURL == "" {
		return publishers, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWS.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
		}
	})

	publishers = append(publishers,
		notifications.NewSQSPublisher(client, cfg.Alerts.QueueURL, logger))
	logger.Info("sqs alert channel enabled", "queue_url", cfg.Alerts.QueueURL)

	return publishers, nil
}

// newLogger creates a structured slog.Logger configured for the given log
// level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
