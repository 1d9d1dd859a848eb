package sites

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// GreatAndhra extracts content from greatandhra.com. Its review pages lead
// with a film fact box, head sections with bold phrases ("Artistes'
// Performances", "Bottom Line") and publish the rating both as JSON-LD and
// as a "Rating: x/5" line.
type GreatAndhra struct{}

var _ ports.Extractor = (*GreatAndhra)(nil)

// NewGreatAndhra builds the extractor.
func NewGreatAndhra() *GreatAndhra {
	return &GreatAndhra{}
}

func (*GreatAndhra) Name() string {
	return "greatandhra"
}

func (*GreatAndhra) Matches(host string) bool {
	return strings.Contains(host, "greatandhra.com")
}

func (g *GreatAndhra) Extract(pageURL string, body []byte) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", g.Name(), err)
	}

	scope := firstMatch(doc, "div.article-wrap", "div.news-content", "div.inner-article", "article")

	content := &domain.ExtractedContent{
		Title:       cleanTitle(g.title(doc, scope)),
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

	applyCredits(content, creditLines(paragraphLines(scope)))

	if len(content.Sections) == 0 {
		content.Body = bodyText(scope)
	}

	return content, nil
}

// title prefers the dedicated headline node over generic candidates.
func (g *GreatAndhra) title(doc *goquery.Document, scope *goquery.Selection) string {
	if headline := normalizeSpace(doc.Find("h1.news-title, h1.article-title").First().Text()); headline != "" {
		return headline
	}
	return pageTitle(doc, scope)
}
