package main

import (
	"context"
	"log"

	"ga-covid-server/config"
	"ga-covid-server/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Without a first dataset the server still starts; /readyz reports 503 until a refresh succeeds.
	log.Println("Loading dataset")
	if _, err := container.DatasetService.Load(ctx); err != nil {
		log.Printf("Initial dataset load failed: %v", err)
	}
	container.DatasetRefresherService.StartPeriodicJob(ctx, cfg.DataRefreshInterval)

	if err := container.DashboardHttpServer.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
