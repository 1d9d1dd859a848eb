// Package generate turns one extracted page into a publishable draft by
// driving a fixed sequence of model calls.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// Stage names one step of the generation sequence.
type Stage int

const (
	StageBuildPrompt Stage = iota
	StageOptimize
	StageGenerate
	StagePolish
	StageTitle
	StageSummary
	StageImage
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageBuildPrompt:
		return "build_prompt"
	case StageOptimize:
		return "optimize"
	case StageGenerate:
		return "generate"
	case StagePolish:
		return "polish"
	case StageTitle:
		return "title"
	case StageSummary:
		return "summary"
	case StageImage:
		return "image"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session runs the generation sequence for one request. Construct a fresh
// session per pipeline run; it holds the provider client chosen for that
// run's model.
type Session struct {
	completer ports.Completer
	log       *slog.Logger
}

var _ ports.Generator = (*Session)(nil)

func NewSession(completer ports.Completer, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{completer: completer, log: log}
}

// Generate walks the stage sequence and assembles the draft. Optimize and
// polish degrade to passthrough on provider failure; generate, title and
// summary failures abort the request.
func (s *Session) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Draft, error) {
	var (
		prompt  string
		content string
		draft   domain.Draft
	)
	for st := StageBuildPrompt; st < StageDone; st++ {
		s.log.Debug("generation stage", "stage", st.String())
		switch st {
		case StageBuildPrompt:
			prompt = buildUserPrompt(req)
		case StageOptimize:
			prompt = s.optimize(ctx, req, prompt)
		case StageGenerate:
			text, err := s.generate(ctx, req, prompt)
			if err != nil {
				return nil, err
			}
			content = text
		case StagePolish:
			content = s.polish(ctx, req, content)
		case StageTitle:
			title, err := s.title(ctx, req, content)
			if err != nil {
				return nil, err
			}
			draft.Title = title
		case StageSummary:
			summary, err := s.summarize(ctx, content)
			if err != nil {
				return nil, err
			}
			draft.Summary = summary
		case StageImage:
			draft.Image = imageURL(req.PosterImage)
		}
	}
	// Headline and summary prompts saw plain text; render the body once
	// they are settled.
	draft.Content = renderHTML(content)
	return &draft, nil
}

func (s *Session) optimize(ctx context.Context, req domain.GenerationRequest, prompt string) string {
	if req.ReferenceContent != "" {
		// Rewriting a prompt that embeds fetched source text makes the
		// model drop real facts.
		return prompt
	}
	improved, err := s.completer.Complete(ctx, optimizeSystem, optimizeUser(prompt), optimizeTokens)
	if err != nil || strings.TrimSpace(improved) == "" {
		s.log.Warn("prompt optimization failed, keeping original", "error", err)
		return prompt
	}
	return improved
}

func (s *Session) generate(ctx context.Context, req domain.GenerationRequest, prompt string) (string, error) {
	text, err := s.completer.Complete(ctx, generateSystem(req), prompt, generateTokens(req.WordCount))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("generate content: empty completion")
	}
	return text, nil
}

func (s *Session) polish(ctx context.Context, req domain.GenerationRequest, content string) string {
	if req.SplitContent {
		split, err := s.completer.Complete(ctx, polishSystem, polishUser(content), generateTokens(req.WordCount))
		if err != nil || strings.TrimSpace(split) == "" {
			s.log.Warn("polish failed, keeping draft as generated", "error", err)
		} else {
			content = split
		}
	}
	return stripArtifacts(content)
}

func (s *Session) title(ctx context.Context, req domain.GenerationRequest, content string) (string, error) {
	text, err := s.completer.Complete(ctx, titleSystem, titleUser(req.OriginalTitle, content), titleTokens)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	title := cleanTitle(text)
	if title == "" {
		return "", fmt.Errorf("generate title: empty completion")
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		shorter, err := s.completer.Complete(ctx, titleSystem, shortenUser(title), titleTokens)
		if err == nil {
			if t := cleanTitle(shorter); t != "" {
				title = t
			}
		}
		title = truncateAtWord(title, maxTitleRunes)
	}
	return title, nil
}

func (s *Session) summarize(ctx context.Context, content string) (string, error) {
	text, err := s.completer.Complete(ctx, summarySystem, summaryUser(content), summaryTokens)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	summary := stripArtifacts(text)
	if summary == "" {
		return "", fmt.Errorf("generate summary: empty completion")
	}
	return summary, nil
}
