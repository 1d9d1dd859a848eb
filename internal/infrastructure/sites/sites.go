// Package sites holds the per-source extractors that turn fetched markup
// into canonical content records, plus the heuristics they share: credit
// label vocabulary, section heading recognition, rating pattern scans and
// structured-data lookups. Extraction is lenient: a field that cannot be
// found stays empty, only unusable markup is an error.
package sites

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cinewire/internal/domain"
)

// labelAliases maps the credit labels seen across the supported sites to
// canonical field names.
var labelAliases = map[string]string{
	"cast":               "cast",
	"starring":           "cast",
	"star cast":          "cast",
	"actors":             "cast",
	"director":           "director",
	"directed by":        "director",
	"direction":          "director",
	"producer":           "producer",
	"producers":          "producer",
	"produced by":        "producer",
	"music":              "music",
	"music director":     "music",
	"music composed by":  "music",
	"cinematography":     "cinematography",
	"cinematographer":    "cinematography",
	"dop":                "cinematography",
	"editor":             "editor",
	"editing":            "editor",
	"banner":             "banner",
	"production company": "banner",
	"genre":              "genre",
	"runtime":            "runtime",
	"duration":           "runtime",
	"movie length":       "runtime",
	"release date":       "release date",
	"released on":        "release date",
	"release":            "release date",
}

// sectionAliases maps recognized section heading phrases to the closed
// section set. Phrases are matched after normalizeHeading.
var sectionAliases = map[string]domain.SectionKey{
	"story":                  domain.SectionPlot,
	"storyline":              domain.SectionPlot,
	"plot":                   domain.SectionPlot,
	"what is it about":       domain.SectionPlot,
	"performances":           domain.SectionPerformances,
	"artistes performances":  domain.SectionPerformances,
	"artists performances":   domain.SectionPerformances,
	"performances of actors": domain.SectionPerformances,
	"acting":                 domain.SectionPerformances,
	"plus points":            domain.SectionHighlights,
	"positives":              domain.SectionHighlights,
	"highlights":             domain.SectionHighlights,
	"minus points":           domain.SectionDrawbacks,
	"negatives":              domain.SectionDrawbacks,
	"drawbacks":              domain.SectionDrawbacks,
	"drawback":               domain.SectionDrawbacks,
	"technical aspects":      domain.SectionTechnical,
	"technical excellence":   domain.SectionTechnical,
	"technicalities":         domain.SectionTechnical,
	"verdict":                domain.SectionVerdict,
	"final word":             domain.SectionVerdict,
	"final verdict":          domain.SectionVerdict,
	"bottom line":            domain.SectionVerdict,
	"bottomline":             domain.SectionVerdict,
}

var (
	ratingPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)
	labelLinePat   = regexp.MustCompile(`^([A-Za-z’' ]{3,40}?)\s*[:\-–]\s*(.+)$`)
	titleNoisePat  = regexp.MustCompile(`(?i)[\s\-–—:|]*((telugu\s+)?movie\s+review( and rating)?|review( and rating)?|rating)[\s\-–—:|!]*$`)
	trailingYear   = regexp.MustCompile(`\s*\(?((19|20)\d{2})\)?\s*$`)
	headingTrimPat = regexp.MustCompile(`[^a-z ]+`)
	spacePat       = regexp.MustCompile(`\s+`)
)

// canonicalLabel resolves a raw credit label to its canonical name.
func canonicalLabel(raw string) (string, bool) {
	key := normalizeSpace(strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), ":-– ")))
	name, ok := labelAliases[key]
	return name, ok
}

// sectionForHeading resolves a heading phrase to a section key. Headings
// longer than a short phrase never match; they are body text.
func sectionForHeading(raw string) (domain.SectionKey, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > 60 {
		return "", false
	}
	normalized := normalizeHeading(raw)
	key, ok := sectionAliases[normalized]
	return key, ok
}

func normalizeHeading(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	lower = strings.TrimSuffix(lower, ":")
	lower = headingTrimPat.ReplaceAllString(lower, " ")
	return normalizeSpace(lower)
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePat.ReplaceAllString(s, " "))
}

// collectSections walks the block elements of an article body in document
// order, switching the active section whenever a heading (or a leading
// bold label inside a paragraph) names one, and gathering paragraph text
// under it until the next recognized heading.
func collectSections(scope *goquery.Selection) map[domain.SectionKey]string {
	parts := map[domain.SectionKey][]string{}
	var current domain.SectionKey

	scope.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := normalizeSpace(sel.Text())
		if text == "" {
			return
		}

		if key, ok := sectionForHeading(text); ok {
			current = key
			return
		}

		// Paragraphs of the form "<strong>Story:</strong> text" open the
		// section and contribute the rest of their text to it.
		if label := normalizeSpace(sel.Find("strong, b").First().Text()); label != "" {
			if key, ok := sectionForHeading(label); ok {
				current = key
				if rest := strings.TrimSpace(strings.TrimPrefix(text, normalizeSpace(label))); rest != "" {
					rest = strings.TrimSpace(strings.TrimLeft(rest, ":-– "))
					if rest != "" {
						parts[key] = append(parts[key], rest)
					}
				}
				return
			}
		}

		if current == "" {
			return
		}
		if goquery.NodeName(sel) == "p" || goquery.NodeName(sel) == "li" {
			parts[current] = append(parts[current], text)
		}
	})

	if len(parts) == 0 {
		return nil
	}
	sections := make(map[domain.SectionKey]string, len(parts))
	for key, texts := range parts {
		sections[key] = strings.Join(texts, "\n\n")
	}
	return sections
}

// creditPairs reads label/value pairs from bold markup: the bold node
// carries the label, the remainder of its paragraph the value.
func creditPairs(scope *goquery.Selection) map[string]string {
	credits := map[string]string{}

	scope.Find("strong, b").Each(func(_ int, sel *goquery.Selection) {
		name, ok := canonicalLabel(sel.Text())
		if !ok {
			return
		}
		parent := sel.Parent()
		value := strings.TrimSpace(strings.TrimPrefix(normalizeSpace(parent.Text()), normalizeSpace(sel.Text())))
		value = strings.TrimSpace(strings.TrimLeft(value, ":-– "))
		if value == "" {
			return
		}
		if _, exists := credits[name]; !exists {
			credits[name] = value
		}
	})

	return credits
}

// creditLines reads label/value pairs from plain "Label: value" lines.
func creditLines(text string) map[string]string {
	credits := map[string]string{}

	for _, line := range strings.Split(text, "\n") {
		match := labelLinePat.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		name, ok := canonicalLabel(match[1])
		if !ok {
			continue
		}
		value := strings.TrimSpace(match[2])
		if value == "" {
			continue
		}
		if _, exists := credits[name]; !exists {
			credits[name] = value
		}
	}

	return credits
}

// applyCredits copies recognized credit fields onto the content record;
// labels outside the dedicated fields land in ProductionCrew.
func applyCredits(content *domain.ExtractedContent, credits map[string]string) {
	for name, value := range credits {
		switch name {
		case "cast":
			if content.Cast == "" {
				content.Cast = value
			}
		case "director":
			if content.Director == "" {
				content.Director = value
			}
		case "genre":
			if content.Genre == "" {
				content.Genre = value
			}
		case "runtime":
			if content.Runtime == "" {
				content.Runtime = value
			}
		case "release date":
			if content.ReleaseDate == "" {
				content.ReleaseDate = value
			}
		default:
			if content.ProductionCrew == nil {
				content.ProductionCrew = map[string]string{}
			}
			if _, exists := content.ProductionCrew[name]; !exists {
				content.ProductionCrew[name] = value
			}
		}
	}
}

// ratingFromStructuredData scans embedded JSON-LD blocks for review or
// aggregate ratings. The walk tolerates @graph wrappers and arrays.
func ratingFromStructuredData(doc *goquery.Document) (float64, float64, bool) {
	var rating, scale float64
	found := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return true
		}
		if r, s, ok := walkForRating(payload); ok {
			rating, scale, found = r, s, true
			return false
		}
		return true
	})

	return rating, scale, found
}

func walkForRating(node any) (float64, float64, bool) {
	switch value := node.(type) {
	case map[string]any:
		for _, key := range []string{"reviewRating", "aggregateRating"} {
			if nested, ok := value[key]; ok {
				if r, s, ok := ratingObject(nested); ok {
					return r, s, true
				}
			}
		}
		for _, nested := range value {
			if r, s, ok := walkForRating(nested); ok {
				return r, s, true
			}
		}
	case []any:
		for _, nested := range value {
			if r, s, ok := walkForRating(nested); ok {
				return r, s, true
			}
		}
	}
	return 0, 0, false
}

func ratingObject(node any) (float64, float64, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		return 0, 0, false
	}
	rating, ok := numericValue(obj["ratingValue"])
	if !ok || rating <= 0 {
		return 0, 0, false
	}
	scale, ok := numericValue(obj["bestRating"])
	if !ok || scale <= 0 {
		scale = 5
	}
	return rating, scale, true
}

func numericValue(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// ratingFromText finds an x/y rating in free text. Only scales of 5 or 10
// qualify, which keeps dates and fractions out.
func ratingFromText(text string) (float64, float64, bool) {
	for _, match := range ratingPattern.FindAllStringSubmatch(text, -1) {
		rating, err1 := strconv.ParseFloat(match[1], 64)
		scale, err2 := strconv.ParseFloat(match[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if (scale == 5 || scale == 10) && rating > 0 && rating <= scale {
			return rating, scale, true
		}
	}
	return 0, 0, false
}

// cleanTitle strips review-suffix noise and a trailing year from a page
// title.
func cleanTitle(raw string) string {
	title := normalizeSpace(raw)
	title = titleNoisePat.ReplaceAllString(title, "")
	title = trailingYear.ReplaceAllString(title, "")
	return strings.TrimRight(strings.TrimSpace(title), "-–—:|")
}

// metaContent reads a meta tag by property or name attribute.
func metaContent(doc *goquery.Document, key string) string {
	if v := doc.Find(`meta[property="` + key + `"]`).AttrOr("content", ""); v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(doc.Find(`meta[name="` + key + `"]`).AttrOr("content", ""))
}

// posterImage prefers the page's og:image and falls back to the first
// image inside the article scope.
func posterImage(doc *goquery.Document, scope *goquery.Selection) string {
	if img := metaContent(doc, "og:image"); img != "" {
		return img
	}
	return strings.TrimSpace(scope.Find("img").First().AttrOr("src", ""))
}

// trailerLink finds an embedded or linked YouTube trailer.
func trailerLink(doc *goquery.Document) string {
	if src := doc.Find(`iframe[src*="youtube.com"], iframe[src*="youtu.be"]`).First().AttrOr("src", ""); src != "" {
		return strings.TrimSpace(src)
	}
	return strings.TrimSpace(doc.Find(`a[href*="youtube.com/watch"], a[href*="youtu.be/"]`).First().AttrOr("href", ""))
}

// firstMatch returns the first selector with matches, or the whole
// document when none hit.
func firstMatch(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Selection
}

// bodyText joins the scope's paragraph texts into running text.
func bodyText(scope *goquery.Selection) string {
	var paragraphs []string
	scope.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

// pageTitle picks the first non-empty candidate among h1 within scope,
// og:title and the document title.
func pageTitle(doc *goquery.Document, scope *goquery.Selection) string {
	if h1 := normalizeSpace(scope.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if h1 := normalizeSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og := metaContent(doc, "og:title"); og != "" {
		return og
	}
	return normalizeSpace(doc.Find("title").First().Text())
}
