package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cinewire/internal/classify"
	"cinewire/internal/config"
	"cinewire/internal/dedupe"
	"cinewire/internal/domain"
	"cinewire/internal/ports"
	"cinewire/internal/publish"
	"cinewire/internal/rating"
)

// GeneratorFactory builds the generation session for one run's model.
type GeneratorFactory func(model string) (ports.Generator, error)

// PipelineDeps wires all driven adapters into the discovery pipeline.
type PipelineDeps struct {
	Config    config.PipelineConfig
	Fetcher   ports.Fetcher
	Resolver  ports.Resolver
	Extractor ports.PageExtractor
	Dedupe    *dedupe.Deduplicator
	Publisher *publish.Publisher
	Generator GeneratorFactory
	Notifier  ports.Notifier
	Verdicts  *rating.Table
	Log       *slog.Logger
}

// Pipeline implements one agent run: discover, fetch, extract, dedupe,
// generate, publish. Items are processed sequentially; a failed item never
// aborts the run.
type Pipeline struct {
	fetcher   ports.Fetcher
	resolver  ports.Resolver
	extractor ports.PageExtractor
	dedupe    *dedupe.Deduplicator
	publisher *publish.Publisher
	generator GeneratorFactory
	notifier  ports.Notifier
	verdicts  *rating.Table
	log       *slog.Logger

	itemDelay       time.Duration
	defaultMaxItems int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	verdicts := deps.Verdicts
	if verdicts == nil {
		verdicts = rating.DefaultTable()
	}
	maxItems := deps.Config.DefaultMaxItems
	if maxItems <= 0 {
		maxItems = 1
	}
	return &Pipeline{
		fetcher:         deps.Fetcher,
		resolver:        deps.Resolver,
		extractor:       deps.Extractor,
		dedupe:          deps.Dedupe,
		publisher:       deps.Publisher,
		generator:       deps.Generator,
		notifier:        deps.Notifier,
		verdicts:        verdicts,
		log:             log,
		itemDelay:       deps.Config.ItemDelay(),
		defaultMaxItems: maxItems,
	}
}

// RunAgent processes every reference of one agent and returns the run
// summary. Only generator construction fails the run as a whole; item
// errors are recorded and the run continues.
func (p *Pipeline) RunAgent(ctx context.Context, agent config.AgentConfig) (*domain.RunResult, error) {
	log := p.log.With("agent", agent.Name)
	log.Info("run started", "references", len(agent.References), "model", agent.Model)

	generator, err := p.generator(agent.Model)
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}

	result := &domain.RunResult{}
	items := p.discover(ctx, agent, result, log)
	result.ScrapedCount = len(items)

	for i, item := range items {
		if i > 0 {
			p.pause(ctx)
		}
		if ctx.Err() != nil {
			break
		}
		p.processItem(ctx, agent, generator, item, result, log)
	}

	log.Info("run finished",
		"scraped", result.ScrapedCount,
		"created", result.CreatedCount,
		"skipped", result.SkippedCount,
		"failed", len(result.Failed),
	)
	p.notify(ctx, agent, result, log)
	return result, nil
}

// discover expands the agent references into concrete item URLs. Listing
// resolution failures are recorded against the listing URL; an empty
// listing is no content, not an error.
func (p *Pipeline) discover(ctx context.Context, agent config.AgentConfig, result *domain.RunResult, log *slog.Logger) []domain.DiscoveredItem {
	maxItems := agent.MaxItems
	if maxItems <= 0 {
		maxItems = p.defaultMaxItems
	}

	var items []domain.DiscoveredItem
	for _, ref := range agent.References {
		source := domain.SourceReference{URL: ref.URL, Type: domain.URLType(ref.Type)}
		if !classify.IsListing(source) {
			items = append(items, domain.DiscoveredItem{URL: ref.URL})
			continue
		}

		discovered, err := p.resolver.Resolve(ctx, ref.URL)
		if err != nil {
			log.Warn("listing resolution failed", "url", ref.URL, "error", err)
			result.RecordFailed(ref.URL, domain.ReasonFetchFailed)
			continue
		}
		if len(discovered) == 0 {
			log.Info("listing has no candidates", "url", ref.URL)
			continue
		}
		if len(discovered) > maxItems {
			discovered = discovered[:maxItems]
		}
		items = append(items, discovered...)
	}
	return items
}

func (p *Pipeline) processItem(ctx context.Context, agent config.AgentConfig, generator ports.Generator, item domain.DiscoveredItem, result *domain.RunResult, log *slog.Logger) {
	log = log.With("url", item.URL)

	body, err := p.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		log.Warn("fetch failed", "error", err)
		result.RecordFailed(item.URL, domain.ReasonFetchFailed)
		return
	}

	content, err := p.extractor.Extract(item.URL, body)
	if err != nil || content == nil || content.Title == "" {
		log.Warn("extraction failed", "error", err)
		result.RecordFailed(item.URL, domain.ReasonExtractionFailed)
		return
	}

	family := familyOf(agent.ContentType)
	skip, err := p.dedupe.ShouldSkip(ctx, content.Title, agent.Language, family)
	if err != nil {
		log.Warn("duplicate check failed", "error", err)
		result.RecordFailed(item.URL, domain.ReasonPersistFailed)
		return
	}
	if skip {
		log.Info("duplicate skipped", "title", content.Title, "reason", domain.ReasonAlreadyExists)
		result.RecordSkipped()
		return
	}

	req := p.buildRequest(agent, family, content)
	draft, err := generator.Generate(ctx, req)
	if err != nil {
		log.Warn("generation failed", "error", err)
		result.RecordFailed(item.URL, domain.ReasonGenerationFailed)
		return
	}

	rec, err := p.publisher.Publish(ctx, publish.Item{
		Draft:         draft,
		Source:        content,
		Key:           dedupe.Key(content.Title, agent.Language, family),
		Category:      agent.Category,
		Workflow:      domain.Workflow(agent.Workflow),
		States:        agent.States,
		Rating:        req.RatingValue,
		VerdictTag:    req.RatingTag,
		TopStory:      agent.TopStory.Enabled,
		TopStoryHours: agent.TopStory.DurationHours,
	})
	if err != nil {
		log.Warn("persist failed", "error", err)
		result.RecordFailed(item.URL, domain.ReasonPersistFailed)
		return
	}
	result.RecordCreated(rec.ID, rec.Title)
}

func (p *Pipeline) buildRequest(agent config.AgentConfig, family domain.ContentFamily, content *domain.ExtractedContent) domain.GenerationRequest {
	req := domain.GenerationRequest{
		Category:         agent.Category,
		ContentType:      family,
		TargetState:      strings.Join(agent.States, ", "),
		TargetLanguage:   agent.Language,
		WordCount:        agent.WordCount,
		SplitContent:     agent.SplitContent,
		ReferenceContent: formatReference(content),
		OriginalTitle:    content.Title,
		PosterImage:      content.PosterImage,
	}
	if content.HasRating() {
		req.RatingValue = rating.Normalize(content.Rating, content.RatingScale)
		entry := p.verdicts.Lookup(req.RatingValue)
		req.RatingTag = entry.Tag
		req.RatingPhrase = entry.Phrase
	}
	return req
}

// pause inserts the inter-item delay, returning early on cancellation.
func (p *Pipeline) pause(ctx context.Context) {
	if p.itemDelay <= 0 {
		return
	}
	timer := time.NewTimer(p.itemDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (p *Pipeline) notify(ctx context.Context, agent config.AgentConfig, result *domain.RunResult, log *slog.Logger) {
	if p.notifier == nil {
		return
	}
	if result.ScrapedCount == 0 && len(result.Failed) == 0 {
		return
	}
	if err := p.notifier.PublishDigest(ctx, formatDigest(agent.Name, result)); err != nil {
		log.Warn("digest notification failed", "error", err)
	}
}

func familyOf(contentType string) domain.ContentFamily {
	switch family := domain.ContentFamily(contentType); family {
	case domain.FamilyReview, domain.FamilyArticle, domain.FamilyVideo:
		return family
	default:
		return domain.FamilyArticle
	}
}

func formatDigest(agent string, result *domain.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*: %d scraped, %d created, %d skipped, %d failed\n",
		agent, result.ScrapedCount, result.CreatedCount, result.SkippedCount, len(result.Failed))
	for _, ref := range result.Created {
		fmt.Fprintf(&b, "- %s\n", ref.Title)
	}
	for _, failure := range result.Failed {
		fmt.Fprintf(&b, "! %s (%s)\n", failure.URL, failure.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatReference flattens extracted content into the prompt's source
// material block.
func formatReference(content *domain.ExtractedContent) string {
	var b strings.Builder
	writeCredit := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeCredit("Cast", content.Cast)
	writeCredit("Director", content.Director)
	writeCredit("Genre", content.Genre)
	writeCredit("Runtime", content.Runtime)
	writeCredit("Release date", content.ReleaseDate)

	crew := make([]string, 0, len(content.ProductionCrew))
	for label := range content.ProductionCrew {
		crew = append(crew, label)
	}
	sort.Strings(crew)
	for _, label := range crew {
		writeCredit(label, content.ProductionCrew[label])
	}

	wroteSection := false
	for _, key := range domain.SectionKeys {
		text := content.Section(key)
		if text == "" {
			continue
		}
		name := string(key)
		fmt.Fprintf(&b, "\n%s%s:\n%s\n", strings.ToUpper(name[:1]), name[1:], text)
		wroteSection = true
	}
	if !wroteSection && content.Body != "" {
		b.WriteString("\n")
		b.WriteString(content.Body)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
