package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinewire/internal/app"
	"cinewire/internal/config"
	"cinewire/internal/logging"
)

func main() {
	var (
		agentName = flag.String("agent", "", "run only the named agent")
		sweepOnce = flag.Bool("sweep", false, "expire stale top stories and exit")
		serve     = flag.Bool("serve", false, "after the run, keep sweeping top stories on schedule")
	)
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, logger, *agentName, *sweepOnce, *serve); err != nil {
		logger.Error("cinewire stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, agentName string, sweepOnce, serve bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	switch {
	case sweepOnce:
		return application.SweepOnce(ctx)
	case agentName != "":
		err = application.RunAgent(ctx, agentName)
	default:
		err = application.RunAgents(ctx)
	}
	if err != nil {
		return err
	}

	if !serve {
		return nil
	}

	if err := application.StartSweeper(ctx); err != nil {
		return err
	}
	logger.Info("sweeper running", "cron", cfg.Sweeper.CronExpression)
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return application.StopSweeper(shutdownCtx)
}
