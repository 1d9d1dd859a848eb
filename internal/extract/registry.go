// Package extract dispatches fetched pages to site-specific extractors.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Registry keeps the registered site extractors plus the generic fallback
// for unknown hosts. Dispatch walks registration order, so narrower
// extractors should register before broader ones.
type Registry struct {
	extractors []ports.Extractor
	fallback   ports.Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a site extractor.
func (r *Registry) Register(e ports.Extractor) {
	r.extractors = append(r.extractors, e)
}

// SetFallback installs the extractor used when no registered site matches.
func (r *Registry) SetFallback(e ports.Extractor) {
	r.fallback = e
}

// Resolve returns the extractor responsible for the URL's host.
func (r *Registry) Resolve(rawURL string) (ports.Extractor, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract: parse url %q: %w", rawURL, err)
	}
	host := strings.ToLower(u.Host)

	for _, e := range r.extractors {
		if e.Matches(host) {
			return e, nil
		}
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("extract: no extractor for host %s", host)
}

// Extract resolves the extractor for the URL and runs it, stamping source
// URL and name onto the result.
func (r *Registry) Extract(rawURL string, body []byte) (*domain.ExtractedContent, error) {
	extractor, err := r.Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	content, err := extractor.Extract(rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	if content.SourceURL == "" {
		content.SourceURL = rawURL
	}
	if content.SourceName == "" {
		content.SourceName = extractor.Name()
	}
	return content, nil
}
