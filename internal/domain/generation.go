package domain

// GenerationRequest carries everything the generation session needs for one
// item. Assembled from agent configuration plus fetched reference text and
// immutable once built.
type GenerationRequest struct {
	Category         string
	ContentType      ContentFamily
	TargetState      string
	TargetLanguage   string
	WordCount        int
	SplitContent     bool
	ReferenceContent string
	OriginalTitle    string
	RatingValue      float64
	RatingTag        string
	RatingPhrase     string
	PosterImage      string
}

// Draft is what the generation session hands to the publisher: the rewritten
// body plus its derived title, standfirst and chosen image.
type Draft struct {
	Title   string
	Content string
	Summary string
	Image   string
}
