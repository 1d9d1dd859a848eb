// Package dedupe builds identity keys for generated content and answers
// skip-or-proceed against the content store. The check runs before any
// model call so duplicate items never cost generation tokens.
package dedupe

import (
	"context"
	"regexp"
	"strings"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

var (
	punctPat  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	spacePat  = regexp.MustCompile(`\s+`)
	yearTail  = regexp.MustCompile(`(?:19|20)\d{2}$`)
	noiseTail = regexp.MustCompile(`(?:movie\s+review(?:\s+and\s+rating)?|review(?:\s+and\s+rating)?|rating)$`)
)

// NormalizeTitle reduces a title to its dedupe form: lower case, no
// punctuation, no trailing review/rating suffix or year, single spaces.
// "Devara Review" and "devara review 2025" collapse to the same value.
func NormalizeTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = punctPat.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spacePat.ReplaceAllString(s, " "))

	for {
		prev := s
		s = strings.TrimSpace(yearTail.ReplaceAllString(s, ""))
		s = strings.TrimSpace(noiseTail.ReplaceAllString(s, ""))
		if s == prev {
			break
		}
	}
	return s
}

// Key builds the identity key a record must be unique under.
func Key(title, language string, family domain.ContentFamily) domain.IdentityKey {
	return domain.IdentityKey{
		NormalizedTitle: NormalizeTitle(title),
		LanguageCode:    language,
		Family:          family,
	}
}

// Deduplicator consults the content store for identity collisions.
type Deduplicator struct {
	store ports.ContentStore
}

// New wires a content store.
func New(store ports.ContentStore) *Deduplicator {
	return &Deduplicator{store: store}
}

// ShouldSkip reports whether a record with the same identity key already
// exists. Store errors propagate; the caller decides how to record them.
func (d *Deduplicator) ShouldSkip(ctx context.Context, title, language string, family domain.ContentFamily) (bool, error) {
	return d.store.Exists(ctx, Key(title, language, family))
}
