package sites

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// minReadableLength is the shortest readability result worth trusting.
const minReadableLength = 100

// Generic is the fallback extractor for hosts without a dedicated
// strategy. It leans on readability for the main text and applies the
// shared label/rating/poster heuristics on top.
type Generic struct{}

var _ ports.Extractor = (*Generic)(nil)

// NewGeneric builds the fallback extractor.
func NewGeneric() *Generic {
	return &Generic{}
}

func (*Generic) Name() string {
	return "generic"
}

// Matches accepts every host; the registry only consults the fallback
// after all site extractors declined.
func (*Generic) Matches(string) bool {
	return true
}

func (g *Generic) Extract(pageURL string, body []byte) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", g.Name(), err)
	}

	scope := firstMatch(doc, "article", "main", "div.post-content", "div.entry-content", "body")

	content := &domain.ExtractedContent{
		Title:       cleanTitle(pageTitle(doc, scope)),
		PosterImage: posterImage(doc, scope),
		TrailerURL:  trailerLink(doc),
		SourceURL:   pageURL,
		SourceName:  g.Name(),
		Sections:    collectSections(scope),
	}

	article, readErr := g.readable(pageURL, body)
	if readErr == nil {
		if content.Title == "" && article.Title != "" {
			content.Title = cleanTitle(article.Title)
		}
		if content.PosterImage == "" {
			content.PosterImage = article.Image
		}
	}

	if rating, scale, ok := ratingFromStructuredData(doc); ok {
		content.Rating, content.RatingScale = rating, scale
	} else if rating, scale, ok := ratingFromText(normalizeSpace(scope.Text())); ok {
		content.Rating, content.RatingScale = rating, scale
	}

	credits := creditPairs(scope)
	for name, value := range creditLines(paragraphLines(scope)) {
		if _, exists := credits[name]; !exists {
			credits[name] = value
		}
	}
	applyCredits(content, credits)

	if len(content.Sections) == 0 {
		if readErr == nil && len(article.TextContent) >= minReadableLength {
			content.Body = strings.TrimSpace(article.TextContent)
		} else {
			content.Body = bodyText(scope)
		}
	}

	return content, nil
}

// readable runs the readability pass; failures are soft, the caller falls
// back to raw paragraph text.
func (g *Generic) readable(pageURL string, body []byte) (readability.Article, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return readability.Article{}, err
	}
	return readability.FromReader(bytes.NewReader(body), parsed)
}
