package generate

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// maxTitleRunes is the CMS headline column limit.
const maxTitleRunes = 125

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// artifactReplacer removes the meta-labels and fence markers models wrap
// around their output.
var artifactReplacer = strings.NewReplacer(
	"**Title:**", "",
	"**Headline:**", "",
	"**Summary:**", "",
	"**Article:**", "",
	"**Content:**", "",
	"```html", "",
	"```markdown", "",
	"```", "",
)

var (
	separatorLine = regexp.MustCompile(`^\s*(?:[-*_]\s*){3,}$`)
	labelPrefix   = regexp.MustCompile(`(?i)^(?:title|headline|summary|article|content)\s*:\s*`)
)

func stripArtifacts(text string) string {
	text = artifactReplacer.Replace(text)
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if separatorLine.MatchString(line) {
			continue
		}
		kept = append(kept, labelPrefix.ReplaceAllString(line, ""))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func renderHTML(text string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return text
	}
	return strings.TrimSpace(buf.String())
}

func cleanTitle(text string) string {
	title := strings.TrimSpace(stripArtifacts(text))
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}
	title = strings.TrimLeft(title, "# ")
	title = strings.ReplaceAll(title, "**", "")
	title = strings.Trim(title, `"'“”‘’`)
	return strings.TrimSpace(title)
}

// truncateAtWord cuts at the last whole word within max runes.
func truncateAtWord(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := string([]rune(s)[:max])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:-")
}

// imageURL keeps only absolute http(s) poster URLs.
func imageURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return raw
}
