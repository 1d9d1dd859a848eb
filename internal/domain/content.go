package domain

import "time"

// SectionKey names one segment of a review body. The set is closed so
// downstream templating never needs reflection.
type SectionKey string

const (
	SectionPlot         SectionKey = "plot"
	SectionPerformances SectionKey = "performances"
	SectionHighlights   SectionKey = "highlights"
	SectionDrawbacks    SectionKey = "drawbacks"
	SectionTechnical    SectionKey = "technical"
	SectionVerdict      SectionKey = "verdict"
)

// SectionKeys lists every valid section in template order.
var SectionKeys = []SectionKey{
	SectionPlot,
	SectionPerformances,
	SectionHighlights,
	SectionDrawbacks,
	SectionTechnical,
	SectionVerdict,
}

// ContentFamily scopes duplicate detection: a review and an article about
// the same film are distinct records.
type ContentFamily string

const (
	FamilyReview  ContentFamily = "review"
	FamilyArticle ContentFamily = "article"
	FamilyVideo   ContentFamily = "video"
)

// ExtractedContent is the canonical record a site extractor produces from
// raw markup. It is consumed once by dedupe/generation and then discarded;
// only the derived ContentRecord is persisted. Every field except Title and
// SourceURL is optional: an extractor leaves what it cannot find empty.
// Review pages fill Sections; pages without recognizable sections carry
// their running text in Body.
//
// Invariant: RatingScale > 0 whenever Rating > 0.
type ExtractedContent struct {
	Title          string
	Rating         float64
	RatingScale    float64
	Cast           string
	Director       string
	ProductionCrew map[string]string
	Genre          string
	Runtime        string
	ReleaseDate    string
	PosterImage    string
	TrailerURL     string
	Sections       map[SectionKey]string
	Body           string
	SourceURL      string
	SourceName     string
}

// Section returns the named section text, empty when absent.
func (e ExtractedContent) Section(key SectionKey) string {
	if e.Sections == nil {
		return ""
	}
	return e.Sections[key]
}

// HasRating reports whether the extractor found a usable rating.
func (e ExtractedContent) HasRating() bool {
	return e.Rating > 0 && e.RatingScale > 0
}

// Workflow is the configured publication intent for generated content.
type Workflow string

const (
	WorkflowInReview       Workflow = "in_review"
	WorkflowReadyToPublish Workflow = "ready_to_publish"
	WorkflowAutoPost       Workflow = "auto_post"
	WorkflowPublish        Workflow = "publish"
)

// Content status values persisted on a record.
const (
	StatusInReview  = "in_review"
	StatusApproved  = "approved"
	StatusPublished = "published"
)

// ContentRecord is the persisted article/review. Created exactly once per
// accepted item by the workflow publisher; Status and IsPublished are fixed
// at creation from the workflow mode and only change later through explicit
// CMS edits or the expiry sweeper.
type ContentRecord struct {
	ID              string
	Title           string
	NormalizedTitle string
	Slug            string
	Content         string
	Summary         string
	LanguageCode    string
	States          []string
	Category        string
	ContentType     ContentFamily
	Status          string
	IsPublished     bool
	IsScheduled     bool
	Rating          float64
	VerdictTag      string
	PosterImage     string
	SourceURL       string
	SourceName      string
	TopStory        bool
	TopStoryUntil   *time.Time
	CreatedAt       time.Time
	PublishedAt     *time.Time
}

// IdentityKey is the uniqueness key the deduplicator checks before a record
// is created: no two records may share it.
type IdentityKey struct {
	NormalizedTitle string
	LanguageCode    string
	Family          ContentFamily
}
