package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kook-app/mining-service/src/internal/adapter/http/controller"
	"github.com/kook-app/mining-service/src/internal/adapter/http/middleware"
	"github.com/kook-app/mining-service/src/internal/adapter/http/router"
	"github.com/kook-app/mining-service/src/internal/adapter/repository"
	"github.com/kook-app/mining-service/src/internal/config"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/scheduler"
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

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	repos, err := repository.Open(startupCtx, cfg, true)
	cancel()
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Error("close storage failed", err, nil)
		}
	}()

	accountService := services.NewAccountService(repos.Accounts, cfg.DefaultMiningRate, time.Now)
	miningService := services.NewMiningService(repos.Accounts, repos.Teams, time.Now)
	teamService := services.NewTeamService(repos.Teams, repos.Accounts, time.Now)
	taskService := services.NewTaskService(repos.Tasks, repos.Accounts, 0)
	teamActivityService := services.NewTeamActivityService(repos.Teams, cfg.TeamActivityWorkers, time.Now)

	teamActivity, err := scheduler.NewTeamActivityScheduler(cfg.TeamActivitySchedule, teamActivityService, 10*time.Minute)
	if err != nil {
		log.Fatalf("configure team activity scheduler: %v", err)
	}
	teamActivity.Start(ctx)
	defer teamActivity.Stop()

	handler := router.New(
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst).Handler,
		controller.NewAccountController(accountService),
		controller.NewMiningController(miningService),
		controller.NewTeamController(teamService),
		controller.NewTaskController(taskService),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{
			"addr":          cfg.HTTPAddr,
			"storageDriver": cfg.StorageDriver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			logger.Error("http server failed", err, nil)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", err, nil)
	}
	logger.Info("http server stopped", nil)
}
