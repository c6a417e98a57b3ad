package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/zerotwo/meteo-collector/internal/aggregate"
	"github.com/zerotwo/meteo-collector/internal/config"
	"github.com/zerotwo/meteo-collector/internal/db"
	"github.com/zerotwo/meteo-collector/internal/dispatcher"
	"github.com/zerotwo/meteo-collector/internal/reading"
	"github.com/zerotwo/meteo-collector/internal/scheduler"
	"github.com/zerotwo/meteo-collector/internal/station"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("collector failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireBroker(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer store.Close()

	registry := station.NewRegistry(store)
	stations, err := registry.StationIDs(ctx)
	if err != nil {
		return fmt.Errorf("load stations: %w", err)
	}
	log.Printf("loaded %d stations", len(stations))

	engine, err := aggregate.NewEngine(store)
	if err != nil {
		return err
	}

	pipeline := dispatcher.NewPipeline(reading.NewAssembler(registry), store, engine)

	client, err := dispatcher.NewClient(cfg, fmt.Sprintf("meteo-collector-%d", os.Getpid()))
	if err != nil {
		return fmt.Errorf("build mqtt client: %w", err)
	}

	sweeper := scheduler.New(engine, stations, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("start sweep: %w", err)
	}
	defer sweeper.Stop()

	return dispatcher.New(client, pipeline, stations).Run(ctx)
}
