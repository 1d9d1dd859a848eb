// Package resolve turns a listing page into ranked candidate item links.
// Ranking prefers datetime markers near anchors, then numeric IDs embedded
// in URLs, then document position. Rank keys are sortable integers: a
// timestamp collapsed to YYYYMMDDHHMMSS or the extracted numeric ID.
package resolve

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"cinewire/internal/domain"
	"cinewire/internal/ports"
)

// minIDDigits is the shortest numeric run treated as an article ID.
const minIDDigits = 5

// deniedFragments mark anchors that can never be content items: assets,
// pagination, taxonomy and utility links.
var deniedFragments = []string{
	"/page/", "/tag/", "/category/", "/author/", "/feed", "/wp-content/",
	"/wp-admin/", "/wp-login", "mailto:", "javascript:", "replytocom",
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".css", ".js",
	".pdf", ".mp4", ".zip",
}

// listingRules covers sites whose listing markup carries no usable date or
// numeric signal; their items come back in document order, newest first.
var listingRules = []struct {
	hostFragment string
	selector     string
}{
	{"greatandhra.com", "div.newsblocks a[href], div.colum2 h3 a[href]"},
}

// Resolver discovers item links behind a listing URL.
type Resolver struct {
	fetcher ports.Fetcher
}

var _ ports.Resolver = (*Resolver)(nil)

// NewResolver wires a page fetcher.
func NewResolver(fetcher ports.Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve fetches the listing page and returns candidate items ordered by
// rank key descending. A page with zero qualifying anchors resolves to an
// empty list, not an error.
func (r *Resolver) Resolve(ctx context.Context, listingURL string) ([]domain.DiscoveredItem, error) {
	body, err := r.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", listingURL, err)
	}
	return rankListing(body, listingURL)
}

func rankListing(body []byte, baseURL string) ([]domain.DiscoveredItem, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("resolve: parse base %q: %w", baseURL, err)
	}

	if looksLikeFeed(body) {
		return rankFeed(body, base)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: parse html: %w", baseURL, err)
	}

	if selector, ok := siteSelector(base.Host); ok {
		return documentOrderItems(doc, base, selector), nil
	}

	if items := timestampedItems(doc, base); len(items) > 0 {
		return sortItems(items), nil
	}

	return sortItems(numericItems(doc, base)), nil
}

// timestampedItems pairs time markers with their nearest anchor. The marker
// is either a <time> element or a date-classed span common on the supported
// sites' themes.
func timestampedItems(doc *goquery.Document, base *url.URL) []domain.DiscoveredItem {
	var items []domain.DiscoveredItem

	doc.Find("time, span.entry-date, span.post-date, span.date").Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.AttrOr("datetime", ""))
		if raw == "" {
			raw = strings.TrimSpace(sel.Text())
		}
		ts, err := dateparse.ParseAny(raw)
		if err != nil {
			return
		}

		href, ok := nearestAnchor(sel)
		if !ok {
			return
		}
		abs, ok := resolveCandidate(base, href)
		if !ok {
			return
		}
		items = append(items, domain.DiscoveredItem{URL: abs, RankKey: timeRankKey(ts)})
	})

	return items
}

// nearestAnchor walks from a time marker to the link it annotates: the
// enclosing anchor if any, otherwise the first link of the enclosing
// article/list block.
func nearestAnchor(sel *goquery.Selection) (string, bool) {
	if a := sel.Closest("a"); a.Length() > 0 {
		return a.Attr("href")
	}
	container := sel.Closest("article, li, .post, .entry, .news-item, div")
	if container.Length() == 0 {
		return "", false
	}
	return container.Find("a[href]").First().Attr("href")
}

// numericItems ranks same-site anchors by the numeric ID embedded in their
// URL. When the listing path names a category, anchors sharing that
// category segment are preferred over the rest of the site.
func numericItems(doc *goquery.Document, base *url.URL) []domain.DiscoveredItem {
	var all []domain.DiscoveredItem
	var inCategory []domain.DiscoveredItem
	category := categoryToken(base.Path)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs, ok := resolveCandidate(base, href)
		if !ok {
			return
		}

		parsed, err := url.Parse(abs)
		if err != nil || !sameSite(parsed.Host, base.Host) {
			return
		}

		key, ok := numericRankKey(parsed.Path)
		if !ok {
			return
		}

		item := domain.DiscoveredItem{URL: abs, RankKey: key}
		all = append(all, item)
		if category != "" && strings.Contains(strings.ToLower(parsed.Path), category) {
			inCategory = append(inCategory, item)
		}
	})

	if len(inCategory) > 0 {
		return inCategory
	}
	return all
}

// documentOrderItems applies a per-site selector and trusts page order:
// position 0 ranks highest.
func documentOrderItems(doc *goquery.Document, base *url.URL, selector string) []domain.DiscoveredItem {
	var items []domain.DiscoveredItem
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs, ok := resolveCandidate(base, href)
		if !ok {
			return
		}
		items = append(items, domain.DiscoveredItem{URL: abs})
	})

	items = dedupeItems(items)
	for i := range items {
		items[i].RankKey = int64(len(items) - i)
	}
	return items
}

// rankFeed handles listings served as RSS/Atom instead of HTML. Entries
// without a parseable date keep feed order behind every dated entry.
func rankFeed(body []byte, base *url.URL) ([]domain.DiscoveredItem, error) {
	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: parse feed: %w", base.String(), err)
	}

	var items []domain.DiscoveredItem
	for i, entry := range feed.Items {
		if entry == nil || entry.Link == "" {
			continue
		}
		abs, ok := resolveCandidate(base, entry.Link)
		if !ok {
			continue
		}

		key := int64(len(feed.Items) - i)
		if ts := entry.PublishedParsed; ts != nil {
			key = timeRankKey(*ts)
		} else if ts := entry.UpdatedParsed; ts != nil {
			key = timeRankKey(*ts)
		}
		items = append(items, domain.DiscoveredItem{URL: abs, RankKey: key})
	}

	return sortItems(items), nil
}

// sortItems dedupes by absolute URL (first seen wins) and orders by rank
// key descending. The stable sort keeps input order for equal keys.
func sortItems(items []domain.DiscoveredItem) []domain.DiscoveredItem {
	items = dedupeItems(items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RankKey > items[j].RankKey
	})
	return items
}

func dedupeItems(items []domain.DiscoveredItem) []domain.DiscoveredItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		out = append(out, item)
	}
	return out
}

// resolveCandidate turns an href into an absolute URL and filters out
// anchors that can never be items.
func resolveCandidate(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""

	lower := strings.ToLower(abs.String())
	for _, fragment := range deniedFragments {
		if strings.Contains(lower, fragment) {
			return "", false
		}
	}

	if abs.String() == base.String() {
		return "", false
	}
	return abs.String(), true
}

// numericRankKey extracts the ID-like numeric run from a path, trying the
// middle segments first, then the tail of the last segment, then a
// /YYYY/MM/DD/ date path.
func numericRankKey(path string) (int64, bool) {
	segments := splitSegments(path)
	if len(segments) == 0 {
		return 0, false
	}

	// Middle: a whole interior segment that is one numeric run.
	for i := 0; i < len(segments)-1; i++ {
		if run := longestDigitRun(segments[i]); len(run) >= minIDDigits {
			return parseKey(run)
		}
	}

	// Trailing: the numeric tail of the last segment, extension stripped.
	last := segments[len(segments)-1]
	if dot := strings.LastIndex(last, "."); dot > 0 {
		last = last[:dot]
	}
	if run := trailingDigitRun(last); len(run) >= minIDDigits {
		return parseKey(run)
	}

	// Date segments: /2024/09/27/slug or /2024/09/slug.
	if key, ok := dateSegmentsKey(segments); ok {
		return key, true
	}

	return 0, false
}

func dateSegmentsKey(segments []string) (int64, bool) {
	for i := 0; i+1 < len(segments); i++ {
		if len(segments[i]) != 4 || !isDigits(segments[i]) {
			continue
		}
		year, _ := strconv.Atoi(segments[i])
		if year < 1990 || year > 2100 {
			continue
		}
		if !isDigits(segments[i+1]) || len(segments[i+1]) > 2 {
			continue
		}
		month, _ := strconv.Atoi(segments[i+1])
		day := 1
		if i+2 < len(segments) && isDigits(segments[i+2]) && len(segments[i+2]) <= 2 {
			day, _ = strconv.Atoi(segments[i+2])
		}
		return int64(year)*10000 + int64(month)*100 + int64(day), true
	}
	return 0, false
}

func parseKey(run string) (int64, bool) {
	key, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return 0, false
	}
	return key, true
}

func longestDigitRun(s string) string {
	best, run := "", ""
	for _, r := range s {
		if r >= '0' && r <= '9' {
			run += string(r)
			continue
		}
		if len(run) > len(best) {
			best = run
		}
		run = ""
	}
	if len(run) > len(best) {
		best = run
	}
	return best
}

func trailingDigitRun(s string) string {
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	return s[end:]
}

func splitSegments(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	out := raw[:0]
	for _, seg := range raw {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func categoryToken(path string) string {
	segments := splitSegments(path)
	if len(segments) == 0 {
		return ""
	}
	last := strings.ToLower(segments[len(segments)-1])
	// Generic taxonomy words say nothing about the content category.
	if last == "category" || last == "page" || isDigits(last) {
		return ""
	}
	return last
}

func siteSelector(host string) (string, bool) {
	host = strings.ToLower(host)
	for _, rule := range listingRules {
		if strings.Contains(host, rule.hostFragment) {
			return rule.selector, true
		}
	}
	return "", false
}

func sameSite(a, b string) bool {
	return stripWWW(a) == stripWWW(b)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

func looksLikeFeed(body []byte) bool {
	head := bytes.TrimLeft(body[:min(len(body), 512)], " \t\r\n\uFEFF")
	for _, prefix := range [][]byte{[]byte("<?xml"), []byte("<rss"), []byte("<feed")} {
		if bytes.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

func timeRankKey(t time.Time) int64 {
	key, _ := strconv.ParseInt(t.UTC().Format("20060102150405"), 10, 64)
	return key
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
