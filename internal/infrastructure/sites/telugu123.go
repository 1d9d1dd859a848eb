package sites

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Telugu123 extracts reviews and articles from 123telugu.com. Review pages
// there carry a credit block of "Label: value" paragraphs, section
// headings like "Story:" and "Plus Points:", and the site's own rating
// line in the body text.
type Telugu123 struct{}

var _ ports.Extractor = (*Telugu123)(nil)

// NewTelugu123 builds the extractor.
func NewTelugu123() *Telugu123 {
	return &Telugu123{}
}

// Name identifies the strategy inside the registry.
func (*Telugu123) Name() string {
	return "123telugu"
}

// Matches reports whether the host belongs to this site.
func (*Telugu123) Matches(host string) bool {
	return strings.Contains(host, "123telugu.com")
}

// Extract converts one fetched page into a content record.
func (t *Telugu123) Extract(pageURL string, body []byte) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", t.Name(), err)
	}

	scope := firstMatch(doc, "div.post-content", "div.entry-content", "article", "div#content")

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
	} else if rating, scale, ok := ratingFromText(ratingLine(scope)); ok {
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
		content.Body = bodyText(scope)
	}

	return content, nil
}

// ratingLine narrows the rating scan to paragraphs that mention a rating,
// falling back to the whole scope text.
func ratingLine(scope *goquery.Selection) string {
	var line string
	scope.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := normalizeSpace(sel.Text())
		if strings.Contains(strings.ToLower(text), "rating") {
			line = text
			return false
		}
		return true
	})
	if line != "" {
		return line
	}
	return normalizeSpace(scope.Text())
}

// paragraphLines renders each paragraph as one line so the line-based
// credit scan can run over markup that lacks bold labels.
func paragraphLines(scope *goquery.Selection) string {
	var lines []string
	scope.Find("p, li").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}
