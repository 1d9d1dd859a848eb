// Package rating rescales heterogeneous x/y review scores to a common
// 0–5 scale in quarter-point steps and maps them to verdict tags.
package rating

import "math"

// step is the bucket width of the normalized scale.
const step = 0.25

// Normalize rescales rating/scale to [0,5] and snaps it to the nearest
// quarter point. A non-positive scale normalizes to 0.
func Normalize(rating, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	value := rating / scale * 5
	value = math.Round(value/step) * step
	if value < 0 {
		return 0
	}
	if value > 5 {
		return 5
	}
	return value
}

// VerdictEntry is the tag and prompt phrase attached to one bucket.
type VerdictEntry struct {
	Tag    string
	Phrase string
}

// Override replaces the verdict of one bucket; Value must sit on a
// quarter-point step.
type Override struct {
	Value  float64
	Tag    string
	Phrase string
}

// Table holds one verdict per quarter-point bucket from 0.00 to 5.00.
type Table struct {
	entries [21]VerdictEntry
}

// defaultVerdicts spans the full scale; index = value * 4.
var defaultVerdicts = [21]VerdictEntry{
	{Tag: "Disaster", Phrase: "a complete washout best left unwatched"},
	{Tag: "Terrible", Phrase: "a painful sit with almost nothing working"},
	{Tag: "Very Bad", Phrase: "a misfire on nearly every front"},
	{Tag: "Bad", Phrase: "a weak outing with rare bright spots"},
	{Tag: "Poor", Phrase: "a below-the-bar film that tests patience"},
	{Tag: "Below Par", Phrase: "an underwhelming film that never finds its footing"},
	{Tag: "Weak", Phrase: "a patchy film carried by stray moments"},
	{Tag: "Mediocre", Phrase: "a routine film that plays it too safe"},
	{Tag: "Average", Phrase: "a passable one-time watch"},
	{Tag: "Above Average", Phrase: "a fair watch with a few standout stretches"},
	{Tag: "Decent", Phrase: "a reasonably engaging film despite its flaws"},
	{Tag: "Watchable", Phrase: "an engaging watch that holds together"},
	{Tag: "Good", Phrase: "a solid film that delivers on its promise"},
	{Tag: "Very Good", Phrase: "an impressive film with plenty to like"},
	{Tag: "Super Hit", Phrase: "a thoroughly entertaining crowd pleaser"},
	{Tag: "Excellent", Phrase: "a superbly made film that rises above the field"},
	{Tag: "Blockbuster", Phrase: "an event film that sweeps audiences along"},
	{Tag: "Outstanding", Phrase: "a remarkable achievement across the board"},
	{Tag: "Classic", Phrase: "a film built to be revisited for years"},
	{Tag: "Masterpiece", Phrase: "a landmark piece of filmmaking"},
	{Tag: "Legendary", Phrase: "a once-in-a-generation triumph"},
}

// DefaultTable returns the built-in verdict table.
func DefaultTable() *Table {
	return &Table{entries: defaultVerdicts}
}

// NewTable builds a table from the defaults with overrides applied.
// Overrides off the quarter-point grid or outside [0,5] are ignored.
func NewTable(overrides []Override) *Table {
	table := DefaultTable()
	for _, o := range overrides {
		idx, ok := bucketIndex(o.Value)
		if !ok {
			continue
		}
		entry := table.entries[idx]
		if o.Tag != "" {
			entry.Tag = o.Tag
		}
		if o.Phrase != "" {
			entry.Phrase = o.Phrase
		}
		table.entries[idx] = entry
	}
	return table
}

// Lookup returns the verdict for a normalized value. Values are expected
// pre-normalized; anything off-grid snaps to the nearest bucket.
func (t *Table) Lookup(value float64) VerdictEntry {
	idx := int(math.Round(value * 4))
	if idx < 0 {
		idx = 0
	}
	if idx > 20 {
		idx = 20
	}
	return t.entries[idx]
}

func bucketIndex(value float64) (int, bool) {
	scaled := value * 4
	idx := int(math.Round(scaled))
	if idx < 0 || idx > 20 || math.Abs(scaled-float64(idx)) > 1e-9 {
		return 0, false
	}
	return idx, true
}
