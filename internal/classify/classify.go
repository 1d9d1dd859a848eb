// Package classify decides whether a reference URL points at a listing
// page or a single item. It is a pure function of the URL string and a
// small keyword table; no network I/O happens here.
package classify

import (
	"net/url"
	"strings"

	"cinewire/internal/domain"
)

// listingSegments are path segments that mark section/archive pages on the
// sites we ingest. Matching is on the final meaningful path segment, so
// an article living under /reviews/ still classifies as direct.
var listingSegments = map[string]bool{
	"reviews":        true,
	"review":         true,
	"category":       true,
	"tag":            true,
	"topics":         true,
	"news":           true,
	"movie-news":     true,
	"latest":         true,
	"latest-news":    true,
	"videos":         true,
	"trailers":       true,
	"gossips":        true,
	"ott":            true,
	"telugu-news":    true,
	"telugu-reviews": true,
}

// Classify resolves a reference to listing or direct. An explicit type on
// the reference is honored as-is; auto references are classified from the
// URL shape alone. Unparseable URLs come back direct so the pipeline does
// the least possible work with them.
func Classify(ref domain.SourceReference) domain.URLType {
	switch ref.Type {
	case domain.URLTypeListing, domain.URLTypeDirect:
		return ref.Type
	}

	u, err := url.Parse(strings.TrimSpace(ref.URL))
	if err != nil || u.Host == "" {
		return domain.URLTypeDirect
	}

	path := strings.Trim(u.EscapedPath(), "/")
	if path == "" {
		return domain.URLTypeListing
	}

	if last := lastSegment(path); listingSegments[last] {
		return domain.URLTypeListing
	}

	if hasItemID(path) {
		return domain.URLTypeDirect
	}

	return domain.URLTypeListing
}

// IsListing is a convenience wrapper over Classify.
func IsListing(ref domain.SourceReference) bool {
	return Classify(ref) == domain.URLTypeListing
}

func lastSegment(path string) string {
	segments := strings.Split(strings.ToLower(path), "/")
	last := segments[len(segments)-1]
	// Pagination tails like /reviews/page/3 classify by the section they
	// paginate, not by the page counter.
	if len(segments) >= 3 && isDigits(last) && segments[len(segments)-2] == "page" {
		return segments[len(segments)-3]
	}
	return last
}

// hasItemID reports whether the path carries a numeric run of five or more
// digits, the shape of per-article IDs on the supported sites.
func hasItemID(path string) bool {
	run := 0
	for _, r := range path {
		if r >= '0' && r <= '9' {
			run++
			if run >= 5 {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
