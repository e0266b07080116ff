package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"earnings/internal/amqp"
	"earnings/internal/cache"
	"earnings/internal/cli"
	"earnings/internal/config"
	apphttp "earnings/internal/http"
	"earnings/internal/log"
	"earnings/internal/roster"
	"earnings/internal/sample"
	"earnings/internal/services"
	"earnings/internal/store"
)

const (
	cacheCleanupInterval = 5 * time.Minute
	publishQueueSize     = 64
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		cli.Exit(logger, "Dashboard stopped with error", err)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	team, err := roster.Load(cfg.RosterFile)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	logger.Info("Roster loaded", log.FieldCount, len(team), "file", cfg.RosterFile)

	projects := store.New()
	if cfg.SampleSeed != 0 {
		seeded := sample.NewGenerator(cfg.SampleSeed).Projects(cfg.SampleCount, time.Now().In(loc), team)
		projects = store.New(seeded...)
		logger.Info("Sample projects generated", log.FieldCount, len(seeded), "seed", cfg.SampleSeed)
	}

	snapshots := cache.NewLRUCache[services.Snapshot](cfg.CacheSize, cfg.CacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(snapshots)
	caches.StartCleanup(cacheCleanupInterval)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	opts := services.Options{
		Roster:   team,
		Settings: cfg.DisplaySettings(),
		Location: loc,
		Cache:    snapshots,
		Logger:   logger,
	}

	var broker *amqp.Client
	if cfg.AMQPEnabled() {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Warn("AMQP unavailable, dashboard updates will not be published", log.FieldError, err.Error())
		} else {
			publisher := amqp.NewAsyncPublisher(broker, publishQueueSize, logger)
			opts.Publisher = publisher
			g.Go(func() error { return publisher.Run(gctx) })
		}
	}

	svc := services.NewDashboardService(projects, opts)
	srv := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.WithCacheStats(snapshots.Stats))

	g.Go(func() error {
		logger.Info("Starting dashboard server",
			"port", cfg.Port,
			log.FieldCurrency, opts.Settings.Currency,
			"timezone", loc.String(),
			"amqp", opts.Publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		return cli.GracefulShutdown(logger, cfg.ShutdownTimeout,
			srv.Shutdown,
			func(context.Context) error {
				caches.Stop()
				return nil
			},
			func(context.Context) error {
				if broker == nil {
					return nil
				}
				return broker.Close()
			},
		)
	})

	return g.Wait()
}
