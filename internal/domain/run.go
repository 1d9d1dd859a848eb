package domain

// Failure reasons recorded on a run result. Duplicate skips are expected
// outcomes and are counted separately from failures.
const (
	ReasonFetchFailed      = "fetch failed"
	ReasonExtractionFailed = "extraction failed"
	ReasonAlreadyExists    = "already exists"
	ReasonGenerationFailed = "generation failed"
	ReasonPersistFailed    = "persist failed"
)

// ItemFailure names one item that could not be processed and why.
type ItemFailure struct {
	URL    string
	Reason string
}

// CreatedRef points at a record the run created.
type CreatedRef struct {
	ID    string
	Title string
}

// RunResult summarizes one pipeline run for the caller. Failures are always
// local to one item; a run never aborts early because one item failed.
type RunResult struct {
	ScrapedCount int
	CreatedCount int
	SkippedCount int
	Failed       []ItemFailure
	Created      []CreatedRef
}

// RecordCreated notes a freshly persisted record.
func (r *RunResult) RecordCreated(id, title string) {
	r.CreatedCount++
	r.Created = append(r.Created, CreatedRef{ID: id, Title: title})
}

// RecordSkipped notes a duplicate skip.
func (r *RunResult) RecordSkipped() {
	r.SkippedCount++
}

// RecordFailed notes an item that was abandoned with a reason.
func (r *RunResult) RecordFailed(url, reason string) {
	r.Failed = append(r.Failed, ItemFailure{URL: url, Reason: reason})
}
