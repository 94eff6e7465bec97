package article

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrUnknownSource = errors.New("unknown source")

// Source identifies which site produced a record. It selects the storage
// table and the vector collection downstream.
type Source string

const (
	SourceCREDaily        Source = "credaily"
	SourceMultifamilyDive Source = "multifamilydive"
	SourceMultihousing    Source = "multihousing"
)

// Sources lists every known source in registration order.
func Sources() []Source {
	return []Source{SourceCREDaily, SourceMultifamilyDive, SourceMultihousing}
}

// ParseSource validates a source tag from config or request input.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceCREDaily, SourceMultifamilyDive, SourceMultihousing:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Article is the canonical normalized record. Link is the identity key;
// everything else is source-dependent and may be empty. Re-ingesting the
// same link overwrites all mutable fields (latest scrape wins).
type Article struct {
	ID          int64     `json:"id,omitempty"`
	Link        string    `json:"link"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Author      string    `json:"author"`
	AuthorTitle string    `json:"author_title,omitempty"`
	Date        string    `json:"date"`
	Categories  []string  `json:"categories"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      Source    `json:"source"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// CategoryDelimiter separates category tags in their stored string form.
// A category value containing the delimiter cannot round-trip.
const CategoryDelimiter = ","

// JoinCategories renders the ordered tag list into its stored form.
func JoinCategories(categories []string) string {
	return strings.Join(categories, CategoryDelimiter)
}

// SplitCategories restores the ordered tag list from its stored form.
func SplitCategories(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, CategoryDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AbsoluteLink resolves href against the page base URL. A link that is
// already absolute, or a base that does not parse, passes through unchanged.
func AbsoluteLink(base, href string) string {
	if href == "" {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// PageContext carries the listing page's base URL (for resolving relative
// links) and its position in the crawl.
type PageContext struct {
	BaseURL string
	Page    int
}

// Extractor is the per-source scraping capability. Both methods operate
// purely on markup already in memory; neither performs network I/O, and
// ResolveContent returns a fresh record instead of mutating its input.
type Extractor interface {
	Source() Source
	ListingURL(page int) string
	ExtractListing(markup string, page PageContext) []Article
	ResolveContent(markup string, partial Article) Article
}

// RecordFailure ties a failed record to its reason inside a batch.
type RecordFailure struct {
	Link string
	Err  error
}

// BatchResult tallies a batch operation. Partial success is the expected
// outcome; callers inspect Succeeded against Attempted.
type BatchResult struct {
	Attempted int
	Succeeded int
	Failures  []RecordFailure
}

// Merge folds another batch tally into this one.
func (r *BatchResult) Merge(other BatchResult) {
	r.Attempted += other.Attempted
	r.Succeeded += other.Succeeded
	r.Failures = append(r.Failures, other.Failures...)
}
