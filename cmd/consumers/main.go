package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ovation/cmd/consumers/jobs"
	"ovation/internal/config"
	"ovation/internal/consumers"
	"ovation/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Consumers need their own NATS client identity
	cfg.NATS.ClientID = "ovation-consumers"

	logger.Get().Info("Starting consumers service...")

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	reaper := jobs.NewHoldReaperJob(consumerService.Repos().Seats, consumerService.NATS(), cfg.ReaperInterval)
	reaper.Start(ctx)

	retry := jobs.NewIssuanceRetryJob(consumerService.Repos().Bookings, consumerService.Handlers(), cfg.IssuanceRetryInterval)
	retry.Start(ctx)

	logger.Get().Info("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down consumers service...")

	reaper.Stop()
	retry.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error("Error during shutdown", "error", err)
	}

	logger.Get().Info("Consumers service stopped")
}
