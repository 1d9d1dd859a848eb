package ports

import (
	"context"
	"time"

	"cinewire/internal/domain"
)

// Fetcher retrieves a page body, decoded to UTF-8.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Resolver turns a listing page into ranked item URLs.
type Resolver interface {
	Resolve(ctx context.Context, listingURL string) ([]domain.DiscoveredItem, error)
}

// Extractor pulls structured content out of one page of a known site family.
type Extractor interface {
	Name() string
	Matches(host string) bool
	Extract(url string, body []byte) (*domain.ExtractedContent, error)
}

// PageExtractor maps a fetched page to structured content, dispatching on
// the page's host.
type PageExtractor interface {
	Extract(url string, body []byte) (*domain.ExtractedContent, error)
}

// Completer sends one prompt pair to a text model and returns the reply.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Generator produces a publishable draft from one generation request.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Draft, error)
}

// ContentStore persists generated records and answers duplicate checks.
type ContentStore interface {
	Exists(ctx context.Context, key domain.IdentityKey) (bool, error)
	Save(ctx context.Context, rec *domain.ContentRecord) error
	ExpireTopStories(ctx context.Context, now time.Time) (int, error)
	Close() error
}

// Notifier posts run digests to an outside channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when background jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
