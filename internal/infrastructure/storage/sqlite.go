package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Timestamps are stored as unix seconds so expiry comparisons stay exact
// under SQLite's text affinity rules.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS content_records (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	normalized_title TEXT NOT NULL,
	slug TEXT NOT NULL,
	content TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	language_code TEXT NOT NULL,
	states TEXT NOT NULL DEFAULT '[]',
	category TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL,
	status TEXT NOT NULL,
	is_published INTEGER NOT NULL DEFAULT 0,
	is_scheduled INTEGER NOT NULL DEFAULT 0,
	rating REAL NOT NULL DEFAULT 0,
	verdict_tag TEXT NOT NULL DEFAULT '',
	poster_image TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	source_name TEXT NOT NULL DEFAULT '',
	top_story INTEGER NOT NULL DEFAULT 0,
	top_story_until INTEGER,
	created_at INTEGER NOT NULL,
	published_at INTEGER
);
CREATE UNIQUE INDEX IF NOT EXISTS content_identity
	ON content_records (normalized_title, language_code, content_type);`

// SQLiteStore persists content records in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

var _ ports.ContentStore = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database file and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "cinewire.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Pipeline and sweeper share the file.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteStore{db: db, sb: squirrel.StatementBuilder}, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, key domain.IdentityKey) (bool, error) {
	query, args, err := s.sb.Select("1").
		From("content_records").
		Where(squirrel.Eq{
			"normalized_title": key.NormalizedTitle,
			"language_code":    key.LanguageCode,
			"content_type":     string(key.Family),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build identity query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query identity: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *domain.ContentRecord) error {
	states, err := statesJSON(rec.States)
	if err != nil {
		return err
	}

	query, args, err := s.sb.Insert("content_records").
		Columns(recordColumns...).
		Values(
			rec.ID, rec.Title, rec.NormalizedTitle, rec.Slug, rec.Content, rec.Summary,
			rec.LanguageCode, states, rec.Category, string(rec.ContentType), rec.Status,
			rec.IsPublished, rec.IsScheduled, rec.Rating, rec.VerdictTag,
			rec.PosterImage, rec.SourceURL, rec.SourceName,
			rec.TopStory, unixOrNil(rec.TopStoryUntil), rec.CreatedAt.UTC().Unix(), unixOrNil(rec.PublishedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("insert record: %w", ErrDuplicate)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ExpireTopStories(ctx context.Context, now time.Time) (int, error) {
	query, args, err := s.sb.Update("content_records").
		Set("top_story", false).
		Where(squirrel.Eq{"top_story": true}).
		Where(squirrel.LtOrEq{"top_story_until": now.UTC().Unix()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expiry update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire top stories: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expiry rows affected: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}
