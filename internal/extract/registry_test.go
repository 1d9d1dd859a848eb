package extract

import (
	"strings"
	"testing"

	"cinewire/internal/domain"
)

type fakeExtractor struct {
	name string
	host string
}

func (f fakeExtractor) Name() string { return f.name }

func (f fakeExtractor) Matches(host string) bool {
	return strings.Contains(host, f.host)
}

func (f fakeExtractor) Extract(_ string, _ []byte) (*domain.ExtractedContent, error) {
	return &domain.ExtractedContent{Title: f.name}, nil
}

func TestRegistryResolvesByHost(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(fakeExtractor{name: "site-a", host: "site-a.com"})
	r.Register(fakeExtractor{name: "site-b", host: "site-b.com"})

	e, err := r.Resolve("https://www.site-b.com/reviews/item-1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if e.Name() != "site-b" {
		t.Fatalf("wrong extractor: %s", e.Name())
	}
}

func TestRegistryFallsBackForUnknownHost(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(fakeExtractor{name: "site-a", host: "site-a.com"})
	r.SetFallback(fakeExtractor{name: "generic", host: ""})

	e, err := r.Resolve("https://unknown.example.org/post/1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if e.Name() != "generic" {
		t.Fatalf("expected fallback, got %s", e.Name())
	}
}

func TestRegistryErrorsWithoutFallback(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(fakeExtractor{name: "site-a", host: "site-a.com"})

	if _, err := r.Resolve("https://unknown.example.org/post/1"); err == nil {
		t.Fatal("expected error for unmatched host")
	}
}

func TestRegistryExtractStampsSource(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(fakeExtractor{name: "site-a", host: "site-a.com"})

	content, err := r.Extract("https://www.site-a.com/reviews/item-1", []byte("<html></html>"))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if content.SourceURL != "https://www.site-a.com/reviews/item-1" {
		t.Fatalf("source url not stamped: %s", content.SourceURL)
	}
	if content.SourceName != "site-a" {
		t.Fatalf("source name not stamped: %s", content.SourceName)
	}
}
