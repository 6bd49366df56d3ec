package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdash/config"
	"flightdash/internal/cache"
	"flightdash/internal/dataset"
	"flightdash/internal/kafka"
	"flightdash/internal/service/dashboard"
)

// The worker keeps the dashboard cache warm: it consumes dataset events
// published by the app and recomputes the default view and filter options
// into Redis, then re-warms them on a sweep ticker before their TTLs lapse.
// It never mutates the dataset itself.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, cleanup, err := dataset.NewSourceFromConfig(ctx, cfg.Dataset)
	if err != nil {
		log.Fatalf("dataset source: %v", err)
	}
	defer cleanup()

	loader := dataset.NewLoader(source)

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Cache.ViewTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.OptionsTTLSeconds)*time.Second,
	)
	dashboardSvc := dashboard.NewDashboardService(loader, dashboard.WithCache(redisCache))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.DatasetTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.ConsumeDatasetEvents(ctx, func(ctx context.Context, event kafka.DatasetEvent) error {
			if event.Type != kafka.EventDatasetLoaded {
				return nil
			}
			log.Printf("dataset event: snapshot=%s rows=%d, warming cache", event.SnapshotID, event.Rows)
			if err := dashboardSvc.Warm(ctx); err != nil {
				log.Printf("warm cache error: %v", err)
			}
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	warmTicker := time.NewTicker(time.Duration(cfg.Worker.WarmSweepMinutes) * time.Minute)
	defer warmTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-warmTicker.C:
			if err := dashboardSvc.Warm(ctx); err != nil {
				log.Printf("warm cache error: %v", err)
				continue
			}
			log.Printf("cache re-warmed")
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
