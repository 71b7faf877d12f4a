package model

// PageStatus is the terminal outcome of one dequeued frontier entry.
//
// Design decision: We use a string enum rather than iota constants because
// the status is serialized into JSON reports and the database; string values
// keep those artifacts self-describing across versions.
type PageStatus string

// Terminal page statuses. A page reaches exactly one of these.
const (
	// StatusSuccess means the page was fetched, classified as HTML, and parsed.
	StatusSuccess PageStatus = "success"

	// StatusHTTPError means the server answered with a non-2xx status code.
	StatusHTTPError PageStatus = "http_error"

	// StatusFetchError means the request failed before a response was read
	// (DNS failure, connection reset, timeout).
	StatusFetchError PageStatus = "fetch_error"

	// StatusSkippedNonHTML means a 2xx response carried a non-HTML content type.
	StatusSkippedNonHTML PageStatus = "skipped_non_html"

	// StatusDuplicateCanonical means the page declared a canonical URL already
	// recorded from a prior page; its links were not followed.
	StatusDuplicateCanonical PageStatus = "duplicate_canonical"

	// StatusBlockedRobots means robots.txt disallowed the URL; it was never fetched.
	StatusBlockedRobots PageStatus = "blocked_robots"

	// StatusBlockedPattern means a trap/deny pattern matched the URL; it was
	// never fetched.
	StatusBlockedPattern PageStatus = "blocked_pattern"
)

// IsError reports whether the status counts toward the errors summary counter.
func (s PageStatus) IsError() bool {
	return s == StatusHTTPError || s == StatusFetchError
}

// IsBlocked reports whether the status counts toward the blocked summary counter.
func (s PageStatus) IsBlocked() bool {
	return s == StatusBlockedRobots || s == StatusBlockedPattern
}

// PageResult records the outcome of one dequeued frontier entry.
// It is created once by the crawl engine and never mutated afterwards.
type PageResult struct {
	// URL is the normalized URL of the processed entry.
	URL string `json:"url"`

	// Status is the terminal outcome for this entry.
	Status PageStatus `json:"status"`

	// HTTPStatus is the HTTP response status code when a response was received.
	HTTPStatus int `json:"http_status,omitempty"`

	// InternalLinks holds the normalized same-origin links discovered on the
	// page. Only set for successful pages.
	InternalLinks []string `json:"internal_links,omitempty"`

	// Depth is the breadth-first distance from the seed URL.
	Depth int `json:"depth"`

	// Error carries a short description for fetch_error and http_error pages.
	// Timeouts are reported as the literal string "Timeout" so callers can
	// distinguish them from other network failures.
	Error string `json:"error,omitempty"`
}

// RobotsTxt summary values.
const (
	// RobotsFound indicates robots.txt was fetched and parsed.
	RobotsFound = "found"

	// RobotsNotFound indicates robots.txt was unreachable or unusable and the
	// crawl ran fail-open.
	RobotsNotFound = "not_found"
)

// CrawlSummary aggregates counters over a finished crawl run.
type CrawlSummary struct {
	// Errors counts pages that ended in fetch_error or http_error.
	Errors int `json:"errors"`

	// Blocked counts pages excluded by robots.txt or trap patterns.
	Blocked int `json:"blocked"`

	// Duplicates counts already-visited frontier skips plus duplicate_canonical pages.
	Duplicates int `json:"duplicates"`

	// DurationMS is the wall-clock duration of the crawl in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// RobotsTxt is RobotsFound or RobotsNotFound.
	RobotsTxt string `json:"robots_txt"`
}

// CrawlResult is the complete output of one crawl run.
//
// Design decision: The caller always receives a CrawlResult, even in
// worst-case conditions. Only a malformed seed URL yields a result with
// Error set and no pages; everything else degrades per page.
type CrawlResult struct {
	// StartURL is the seed URL as supplied by the caller.
	StartURL string `json:"start_url"`

	// MaxPages is the effective page budget after clamping.
	MaxPages int `json:"max_pages"`

	// TotalPagesCrawled is the number of PageResults produced.
	TotalPagesCrawled int `json:"total_pages_crawled"`

	// Pages holds one result per dequeued frontier entry, in processing order.
	Pages []PageResult `json:"pages"`

	// Summary holds the aggregate counters for the run.
	Summary CrawlSummary `json:"summary"`

	// Error is set only for configuration failures (invalid seed URL).
	Error string `json:"error,omitempty"`
}

// Finalize sets the derived fields of the result. The engine calls this once
// before returning.
func (r *CrawlResult) Finalize() {
	r.TotalPagesCrawled = len(r.Pages)
	if r.Summary.RobotsTxt == "" {
		r.Summary.RobotsTxt = RobotsNotFound
	}
}
