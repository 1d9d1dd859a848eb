package sites

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Gulte extracts content from gulte.com. Credits there come as a bullet
// list under the poster ("Cast: ...", "Director: ..."), and the rating is
// a plain text line near the verdict.
type Gulte struct{}

var _ ports.Extractor = (*Gulte)(nil)

// NewGulte builds the extractor.
func NewGulte() *Gulte {
	return &Gulte{}
}

func (*Gulte) Name() string {
	return "gulte"
}

func (*Gulte) Matches(host string) bool {
	return strings.Contains(host, "gulte.com")
}

func (g *Gulte) Extract(pageURL string, body []byte) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", g.Name(), err)
	}

	scope := firstMatch(doc, "div.single-content", "div.td-post-content", "div.post-body", "article")

	content := &domain.ExtractedContent{
		Title:       cleanTitle(pageTitle(doc, scope)),
		PosterImage: posterImage(doc, scope),
		TrailerURL:  trailerLink(doc),
		SourceURL:   pageURL,
		SourceName:  g.Name(),
		Sections:    collectSections(scope),
	}

	if rating, scale, ok := ratingFromStructuredData(doc); ok {
		content.Rating, content.RatingScale = rating, scale
	} else if rating, scale, ok := ratingFromText(normalizeSpace(scope.Text())); ok {
		content.Rating, content.RatingScale = rating, scale
	}

	applyCredits(content, g.listCredits(scope))

	if len(content.Sections) == 0 {
		content.Body = bodyText(scope)
	}

	return content, nil
}

// listCredits reads the bullet-list credit block, falling back to bold
// labels for older article templates.
func (g *Gulte) listCredits(scope *goquery.Selection) map[string]string {
	var lines []string
	scope.Find("ul li").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	credits := creditLines(strings.Join(lines, "\n"))
	for name, value := range creditPairs(scope) {
		if _, exists := credits[name]; !exists {
			credits[name] = value
		}
	}
	return credits
}
