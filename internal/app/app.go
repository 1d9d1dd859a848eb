// Package app wires configuration into the runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cinewire/internal/config"
	"cinewire/internal/dedupe"
	"cinewire/internal/extract"
	"cinewire/internal/generate"
	"cinewire/internal/infrastructure/fetch"
	"cinewire/internal/infrastructure/llm"
	"cinewire/internal/infrastructure/scheduler"
	"cinewire/internal/infrastructure/sites"
	"cinewire/internal/infrastructure/storage"
	"cinewire/internal/infrastructure/telegram"
	"cinewire/internal/logging"
	"cinewire/internal/ports"
	"cinewire/internal/publish"
	"cinewire/internal/rating"
	"cinewire/internal/resolve"
	"cinewire/internal/usecase"
)

// Application owns the pipeline, the background sweeper and the store they
// share.
type Application struct {
	cfg      config.Config
	log      *slog.Logger
	store    ports.ContentStore
	pipeline *usecase.Pipeline
	sweeper  *usecase.Sweeper
}

// New builds a runnable application instance. The context bounds store
// setup only.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	fetcher := fetch.NewClient(cfg.Fetch, nil)
	resolver := resolve.NewResolver(fetcher)

	registry := extract.NewRegistry()
	sites.RegisterAll(registry)

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram, nil); tg.Configured() {
		notifier = tg
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Config:    cfg.Pipeline,
		Fetcher:   fetcher,
		Resolver:  resolver,
		Extractor: registry,
		Dedupe:    dedupe.New(store),
		Publisher: publish.NewPublisher(store, baseLogger.With("component", "publisher")),
		Generator: func(model string) (ports.Generator, error) {
			completer, err := llm.NewCompleter(model, cfg.Providers, nil)
			if err != nil {
				return nil, err
			}
			return generate.NewSession(completer, baseLogger.With("component", "generate")), nil
		},
		Notifier: notifier,
		Verdicts: rating.NewTable(verdictOverrides(cfg.Verdicts)),
		Log:      baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Sweeper.CronExpression, cfg.Sweeper.Location())
	sweeper := usecase.NewSweeper(driver, store, baseLogger.With("component", "sweeper"))

	return &Application{
		cfg:      cfg,
		log:      baseLogger,
		store:    store,
		pipeline: pipeline,
		sweeper:  sweeper,
	}, nil
}

// RunAgents executes every configured agent sequentially. One agent's
// failure does not stop the rest; failures are joined into the returned
// error.
func (a *Application) RunAgents(ctx context.Context) error {
	var errs []error
	for _, agent := range a.cfg.Agents {
		if _, err := a.pipeline.RunAgent(ctx, agent); err != nil {
			a.log.Error("agent run failed", "agent", agent.Name, "error", err)
			errs = append(errs, fmt.Errorf("agent %s: %w", agent.Name, err))
		}
	}
	return errors.Join(errs...)
}

// RunAgent executes one named agent.
func (a *Application) RunAgent(ctx context.Context, name string) error {
	for _, agent := range a.cfg.Agents {
		if agent.Name == name {
			_, err := a.pipeline.RunAgent(ctx, agent)
			return err
		}
	}
	return fmt.Errorf("agent %q is not configured", name)
}

// SweepOnce expires stale top stories immediately.
func (a *Application) SweepOnce(ctx context.Context) error {
	n, err := a.store.ExpireTopStories(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sweep top stories: %w", err)
	}
	a.log.Info("top stories expired", "count", n)
	return nil
}

// StartSweeper begins the scheduled expiry sweep.
func (a *Application) StartSweeper(ctx context.Context) error {
	return a.sweeper.Start(ctx)
}

// StopSweeper halts the scheduled sweep.
func (a *Application) StopSweeper(ctx context.Context) error {
	return a.sweeper.Stop(ctx)
}

// Close releases the content store.
func (a *Application) Close() error {
	return a.store.Close()
}

func verdictOverrides(cfgs []config.VerdictConfig) []rating.Override {
	if len(cfgs) == 0 {
		return nil
	}
	overrides := make([]rating.Override, 0, len(cfgs))
	for _, v := range cfgs {
		overrides = append(overrides, rating.Override{Value: v.Value, Tag: v.Tag, Phrase: v.Phrase})
	}
	return overrides
}
