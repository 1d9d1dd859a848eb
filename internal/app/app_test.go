package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"cinewire/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		Store: config.StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "app.db"),
		},
		Sweeper: config.SweeperConfig{CronExpression: "@every 1h"},
	}
}

func TestNewWiresApplication(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	application, err := New(context.Background(), testConfig(t), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer application.Close()

	if err := application.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
}

func TestRunAgentUnknownName(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	application, err := New(context.Background(), testConfig(t), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer application.Close()

	err = application.RunAgent(context.Background(), "nope")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected unknown-agent error, got %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Store.Driver = "oracle"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New(context.Background(), cfg, logger); err == nil {
		t.Fatal("expected error for unsupported store driver")
	}
}
