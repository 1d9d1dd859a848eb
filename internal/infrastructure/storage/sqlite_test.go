package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cinewire/internal/config"
	"cinewire/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id, title, normalized string) *domain.ContentRecord {
	return &domain.ContentRecord{
		ID:              id,
		Title:           title,
		NormalizedTitle: normalized,
		Slug:            normalized,
		Content:         "<p>Body.</p>",
		Summary:         "Teaser.",
		LanguageCode:    "te",
		States:          []string{"Andhra Pradesh"},
		Category:        "Movie Reviews",
		ContentType:     domain.FamilyReview,
		Status:          domain.StatusPublished,
		IsPublished:     true,
		Rating:          3.25,
		VerdictTag:      "Very Good",
		SourceURL:       "https://www.123telugu.com/reviews/" + normalized + ".html",
		SourceName:      "123telugu",
		CreatedAt:       time.Now().UTC(),
	}
}

func TestSQLiteSaveAndExists(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testRecord("id-1", "Devara", "devara")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	key := domain.IdentityKey{NormalizedTitle: "devara", LanguageCode: "te", Family: domain.FamilyReview}
	found, err := store.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !found {
		t.Error("saved record not found by identity key")
	}

	other := key
	other.NormalizedTitle = "pushpa"
	if found, err := store.Exists(ctx, other); err != nil || found {
		t.Errorf("Exists(other title) = %v, %v", found, err)
	}

	article := key
	article.Family = domain.FamilyArticle
	if found, err := store.Exists(ctx, article); err != nil || found {
		t.Errorf("Exists(other family) = %v, %v; families must not collide", found, err)
	}
}

func TestSQLiteDuplicateInsert(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testRecord("id-1", "Devara Review", "devara")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	err := store.Save(ctx, testRecord("id-2", "Devara", "devara"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Save err = %v, want ErrDuplicate", err)
	}
}

func TestSQLiteExpireTopStories(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := testRecord("id-1", "Old Story", "old-story")
	expired.TopStory = true
	past := now.Add(-time.Hour)
	expired.TopStoryUntil = &past

	current := testRecord("id-2", "Fresh Story", "fresh-story")
	current.TopStory = true
	future := now.Add(time.Hour)
	current.TopStoryUntil = &future

	unbounded := testRecord("id-3", "Pinned Story", "pinned-story")
	unbounded.TopStory = true

	plain := testRecord("id-4", "Plain Story", "plain-story")

	for _, rec := range []*domain.ContentRecord{expired, current, unbounded, plain} {
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save %s: %v", rec.ID, err)
		}
	}

	n, err := store.ExpireTopStories(ctx, now)
	if err != nil {
		t.Fatalf("ExpireTopStories: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d records, want 1", n)
	}

	var topStory bool
	if err := store.db.QueryRowContext(ctx, "SELECT top_story FROM content_records WHERE id = ?", "id-1").Scan(&topStory); err != nil {
		t.Fatalf("query expired record: %v", err)
	}
	if topStory {
		t.Error("expired record still flagged as top story")
	}
	if err := store.db.QueryRowContext(ctx, "SELECT top_story FROM content_records WHERE id = ?", "id-2").Scan(&topStory); err != nil {
		t.Fatalf("query current record: %v", err)
	}
	if !topStory {
		t.Error("current record lost top story flag")
	}

	n, err = store.ExpireTopStories(ctx, now)
	if err != nil {
		t.Fatalf("second ExpireTopStories: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep expired %d records, want 0", n)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Parallel()

	store, err := Open(context.Background(), config.StoreConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "factory.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("Open returned %T, want *SQLiteStore", store)
	}

	if _, err := Open(context.Background(), config.StoreConfig{Driver: "oracle"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
