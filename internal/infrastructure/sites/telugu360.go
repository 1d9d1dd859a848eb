package sites

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Telugu360 extracts content from telugu360.com. Reviews there put the
// film credits into a two-column table and print the site rating as
// "Telugu360 Rating: x/5" in the closing paragraph.
type Telugu360 struct{}

var _ ports.Extractor = (*Telugu360)(nil)

// NewTelugu360 builds the extractor.
func NewTelugu360() *Telugu360 {
	return &Telugu360{}
}

func (*Telugu360) Name() string {
	return "telugu360"
}

func (*Telugu360) Matches(host string) bool {
	return strings.Contains(host, "telugu360.com")
}

func (t *Telugu360) Extract(pageURL string, body []byte) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", t.Name(), err)
	}

	scope := firstMatch(doc, "div.td-post-content", "div.entry-content", "article")

	content := &domain.ExtractedContent{
		Title:       cleanTitle(pageTitle(doc, scope)),
		PosterImage: posterImage(doc, scope),
		TrailerURL:  trailerLink(doc),
		SourceURL:   pageURL,
		SourceName:  t.Name(),
		Sections:    collectSections(scope),
	}

	if rating, scale, ok := ratingFromStructuredData(doc); ok {
		content.Rating, content.RatingScale = rating, scale
	} else if rating, scale, ok := ratingFromText(normalizeSpace(scope.Text())); ok {
		content.Rating, content.RatingScale = rating, scale
	}

	credits := t.tableCredits(scope)
	for name, value := range creditPairs(scope) {
		if _, exists := credits[name]; !exists {
			credits[name] = value
		}
	}
	applyCredits(content, credits)

	if len(content.Sections) == 0 {
		content.Body = bodyText(scope)
	}

	return content, nil
}

// tableCredits reads label/value rows out of the credit table.
func (t *Telugu360) tableCredits(scope *goquery.Selection) map[string]string {
	credits := map[string]string{}

	scope.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		name, ok := canonicalLabel(cells.First().Text())
		if !ok {
			return
		}
		value := normalizeSpace(cells.Last().Text())
		if value == "" {
			return
		}
		if _, exists := credits[name]; !exists {
			credits[name] = value
		}
	})

	return credits
}
