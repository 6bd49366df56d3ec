package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdash/config"
	"flightdash/internal/bootstrap"
	"flightdash/internal/cache"
	"flightdash/internal/dataset"
	"flightdash/internal/kafka"
	"flightdash/internal/service/dashboard"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	snap, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	log.Printf("dataset loaded: snapshot=%s source=%s rows=%d", snap.ID, snap.SourceKey, len(snap.Table))

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.DatasetTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		event := kafka.DatasetEvent{
			Type:       kafka.EventDatasetLoaded,
			SnapshotID: snap.ID,
			SourceKey:  snap.SourceKey,
			Rows:       len(snap.Table),
			LoadedAt:   snap.LoadedAt,
		}
		if err := producer.Publish(ctx, cfg.Kafka.DatasetTopic, snap.ID, event); err != nil {
			log.Printf("WARNING: failed to publish dataset event: %v", err)
		}
	}

	if err := bootstrap.Run(ctx, cfg, dashboardSvc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
