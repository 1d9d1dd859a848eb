package generate

import (
	"fmt"
	"strings"

	"cinewire/internal/domain"
)

const (
	optimizeSystem = "You refine writing prompts for a news desk. Return only the improved prompt text."
	polishSystem   = "You format news copy. Break the article into short paragraphs of two or three sentences each. Keep every fact and name exactly as written. Return only the formatted article."
	titleSystem    = "You write news headlines. Return only the headline text without quotes or labels."
	summarySystem  = "You write story teasers for a news site. Return only the teaser text."
)

const (
	minGenerateTokens = 600
	optimizeTokens    = 500
	titleTokens       = 80
	summaryTokens     = 200
)

func generateTokens(wordCount int) int {
	budget := wordCount * 2
	if budget < minGenerateTokens {
		budget = minGenerateTokens
	}
	return budget
}

func generateSystem(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("You are an entertainment journalist")
	if req.TargetLanguage != "" {
		fmt.Fprintf(&b, " covering %s cinema", req.TargetLanguage)
	}
	b.WriteString(".")
	if req.ReferenceContent != "" {
		b.WriteString(" The complete source material is included in the user prompt.")
		b.WriteString(" Never claim you lack internet or browsing access.")
		b.WriteString(" Write directly from the supplied material and do not invent facts.")
	} else {
		b.WriteString(" Write engaging, factual copy in a newsroom register.")
	}
	return b.String()
}

func buildUserPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s of around %d words.\n", describeContent(req), req.WordCount)
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s.\n", req.Category)
	}
	if req.TargetLanguage != "" {
		fmt.Fprintf(&b, "Write in %s.\n", req.TargetLanguage)
	}
	if req.TargetState != "" {
		fmt.Fprintf(&b, "The audience is readers in %s.\n", req.TargetState)
	}
	if req.RatingValue > 0 {
		fmt.Fprintf(&b, "The rating is %.2f out of 5 (%s).", req.RatingValue, req.RatingTag)
		if req.RatingPhrase != "" {
			fmt.Fprintf(&b, " %s.", req.RatingPhrase)
		}
		b.WriteString(" Keep the tone consistent with this rating.\n")
	}
	if req.OriginalTitle != "" {
		fmt.Fprintf(&b, "Original title: %s\n", req.OriginalTitle)
	}
	if req.ReferenceContent != "" {
		b.WriteString("\nSource material:\n")
		b.WriteString(req.ReferenceContent)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func describeContent(req domain.GenerationRequest) string {
	switch req.ContentType {
	case domain.FamilyReview:
		return "movie review"
	case domain.FamilyVideo:
		return "video story"
	default:
		return "news article"
	}
}

func optimizeUser(prompt string) string {
	return "Improve this prompt so the resulting article is vivid and well structured:\n\n" + prompt
}

func polishUser(content string) string {
	return "Format this article:\n\n" + content
}

func titleUser(originalTitle, content string) string {
	if originalTitle != "" {
		return fmt.Sprintf("Rewrite this title for the article below. Keep names and film titles intact.\nTitle: %s\n\nArticle:\n%s", originalTitle, content)
	}
	return "Write a headline for this article:\n\n" + content
}

func shortenUser(title string) string {
	return fmt.Sprintf("Shorten this headline to at most %d characters:\n%s", maxTitleRunes, title)
}

func summaryUser(content string) string {
	return "Summarize this article in two or three sentences:\n\n" + content
}
