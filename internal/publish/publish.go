// Package publish maps a finished draft onto a content record and writes it
// through the content store.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Mapping resolves a workflow mode to the persisted status pair. Publish
// and auto post both go live immediately; unknown modes fall back to the
// review queue.
func Mapping(w domain.Workflow) (status string, isPublished bool) {
	switch w {
	case domain.WorkflowAutoPost, domain.WorkflowPublish:
		return domain.StatusPublished, true
	case domain.WorkflowReadyToPublish:
		return domain.StatusApproved, false
	default:
		return domain.StatusInReview, false
	}
}

var slugPat = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug derives the URL slug from a title.
func Slug(title string) string {
	slug := slugPat.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// Item carries everything the publisher needs to persist one accepted item.
type Item struct {
	Draft         *domain.Draft
	Source        *domain.ExtractedContent
	Key           domain.IdentityKey
	Category      string
	Workflow      domain.Workflow
	States        []string
	Rating        float64
	VerdictTag    string
	TopStory      bool
	TopStoryHours int
}

// Publisher is the single writer of content records.
type Publisher struct {
	store ports.ContentStore
	log   *slog.Logger
}

func NewPublisher(store ports.ContentStore, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{store: store, log: log}
}

// Publish creates exactly one record for the item. Store rejections,
// including uniqueness races, surface to the caller; there is no retry.
func (p *Publisher) Publish(ctx context.Context, item Item) (*domain.ContentRecord, error) {
	now := time.Now().UTC()
	status, published := Mapping(item.Workflow)

	rec := &domain.ContentRecord{
		ID:              uuid.NewString(),
		Title:           item.Draft.Title,
		NormalizedTitle: item.Key.NormalizedTitle,
		Slug:            Slug(item.Draft.Title),
		Content:         item.Draft.Content,
		Summary:         item.Draft.Summary,
		LanguageCode:    item.Key.LanguageCode,
		States:          item.States,
		Category:        item.Category,
		ContentType:     item.Key.Family,
		Status:          status,
		IsPublished:     published,
		Rating:          item.Rating,
		VerdictTag:      item.VerdictTag,
		PosterImage:     item.Draft.Image,
		SourceURL:       item.Source.SourceURL,
		SourceName:      item.Source.SourceName,
		CreatedAt:       now,
	}
	if published {
		at := now
		rec.PublishedAt = &at
	}
	if item.TopStory && item.TopStoryHours > 0 {
		until := now.Add(time.Duration(item.TopStoryHours) * time.Hour)
		rec.TopStory = true
		rec.TopStoryUntil = &until
	}

	if err := p.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save record %q: %w", rec.Title, err)
	}
	p.log.Info("record created",
		"id", rec.ID,
		"title", rec.Title,
		"status", rec.Status,
		"published", rec.IsPublished,
	)
	return rec, nil
}
