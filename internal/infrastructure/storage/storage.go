// Package storage provides the content store backends.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cinewire/internal/config"
	"cinewire/internal/ports"
)

// ErrDuplicate reports an insert that lost the uniqueness race on
// (normalized_title, language_code, content_type).
var ErrDuplicate = errors.New("record already exists")

// recordColumns is the shared insert column order for both backends.
var recordColumns = []string{
	"id", "title", "normalized_title", "slug", "content", "summary",
	"language_code", "states", "category", "content_type", "status",
	"is_published", "is_scheduled", "rating", "verdict_tag",
	"poster_image", "source_url", "source_name",
	"top_story", "top_story_until", "created_at", "published_at",
}

// Open builds the store selected by configuration.
func Open(ctx context.Context, cfg config.StoreConfig) (ports.ContentStore, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	case "", "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// statesJSON encodes the states list for its TEXT column.
func statesJSON(states []string) (string, error) {
	if len(states) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(states)
	if err != nil {
		return "", fmt.Errorf("encode states: %w", err)
	}
	return string(encoded), nil
}
