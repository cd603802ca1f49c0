package main

import (
	"context"
	"log"
	"time"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/implementations"
	"github.com/kook-app/mining-service/src/internal/config"
	"github.com/kook-app/mining-service/src/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Configure(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := implementations.Open(ctx, cfg.DatabaseDSN, 0)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	applied, err := implementations.RunMigrations(ctx, db, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	log.Printf("migrations completed successfully (%d applied)", applied)
}
