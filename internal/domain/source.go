package domain

// URLType tells the pipeline how to treat a reference URL.
type URLType string

const (
	// URLTypeAuto leaves the decision to the classifier.
	URLTypeAuto URLType = "auto"
	// URLTypeListing forces listing treatment (discover items, pick newest).
	URLTypeListing URLType = "listing"
	// URLTypeDirect forces direct-item treatment (scrape the URL itself).
	URLTypeDirect URLType = "direct"
)

// SourceReference is one configured reference source. Input only; never
// persisted on its own.
type SourceReference struct {
	URL  string
	Type URLType
}

// DiscoveredItem is a candidate item link pulled out of a listing page.
// RankKey is a sortable recency value: a timestamp collapsed to
// YYYYMMDDHHMMSS when the listing carries datetime markers, otherwise the
// numeric ID embedded in the URL path. Items order by RankKey descending.
// Lives only within a single pipeline run.
type DiscoveredItem struct {
	URL     string
	RankKey int64
}
