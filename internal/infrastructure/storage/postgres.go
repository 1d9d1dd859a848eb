package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

const postgresSchema = `
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
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	is_scheduled BOOLEAN NOT NULL DEFAULT FALSE,
	rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	verdict_tag TEXT NOT NULL DEFAULT '',
	poster_image TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	source_name TEXT NOT NULL DEFAULT '',
	top_story BOOLEAN NOT NULL DEFAULT FALSE,
	top_story_until TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS content_identity
	ON content_records (normalized_title, language_code, content_type);`

// uniqueViolation is the Postgres error code for a unique index hit.
const uniqueViolation = "23505"

// PostgresStore persists content records in Postgres.
type PostgresStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

var _ ports.ContentStore = (*PostgresStore)(nil)

// NewPostgresStore wires an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// OpenPostgres connects, verifies the connection and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := NewPostgresStore(db)
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, key domain.IdentityKey) (bool, error) {
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

func (s *PostgresStore) Save(ctx context.Context, rec *domain.ContentRecord) error {
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
			rec.TopStory, rec.TopStoryUntil, rec.CreatedAt, rec.PublishedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert record: %w", ErrDuplicate)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ExpireTopStories(ctx context.Context, now time.Time) (int, error) {
	query, args, err := s.sb.Update("content_records").
		Set("top_story", false).
		Where(squirrel.Eq{"top_story": true}).
		Where(squirrel.LtOrEq{"top_story_until": now}).
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

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
