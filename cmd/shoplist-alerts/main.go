package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"shoplist/internal/amqp"
	"shoplist/internal/cache"
	"shoplist/internal/cli"
	"shoplist/internal/log"
	"shoplist/internal/worker"
)

const statsInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shoplist-alerts:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := cli.LoadEnvFile(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentAlerts)
	if !cfg.AlertsEnabled() {
		return errors.New("AMQP_URL is required for the alerts worker")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	latest := cache.NewLRUCache[time.Time](cfg.AlertCacheSize, cfg.AlertCacheTTL)
	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	caches.Register(latest)
	w := worker.NewAlertWorker(latest, logger)

	logger.Info("Starting shoplist-alerts", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeBudgetAlerts(ctx, w.HandleBudgetAlert)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		caches.StartCleanup(ctx, cfg.AlertCacheTTL)
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				caches.Stop()
				return nil
			case <-ticker.C:
				s := w.Stats()
				logger.Info("Budget alert stats",
					"received", s.Received,
					"escalations", s.Escalations,
					"recoveries", s.Recoveries,
					"stale", s.Stale)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Alerts worker stopped")
	return nil
}
