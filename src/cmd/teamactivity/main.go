// Command teamactivity runs the team activity check once and exits. It is
// meant for an external scheduler when the API runs with the in-process
// scheduler disabled or on several replicas.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kook-app/mining-service/src/internal/adapter/repository"
	"github.com/kook-app/mining-service/src/internal/config"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Configure(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	repos, err := repository.Open(ctx, cfg, false)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer repos.Close()

	report, err := services.NewTeamActivityService(repos.Teams, cfg.TeamActivityWorkers, time.Now).Run(ctx)
	if err != nil {
		log.Fatalf("team activity check: %v", err)
	}

	log.Printf("team activity check completed: %d teams checked, %d owner rates decreased", report.TeamsChecked, report.OwnersDecayed)
}
