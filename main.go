// @title Taqyim Assessment API
// @version 1.0
// @description Assessment delivery and scoring engine for employee assessments.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey DeliveryToken
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"taqyim_backend/internal/app"
	"taqyim_backend/internal/config"
	"taqyim_backend/pkg/configwatcher"
	"taqyim_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration finished, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
