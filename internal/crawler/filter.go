package crawler

import (
	"fmt"
	"net/url"
	"regexp"
)

// builtinDenyPatterns is the default bank of crawl trap patterns. Each entry
// matches a URL shape known to generate unbounded or low-value crawl paths:
// faceted search, listing pages, pagination, calendars, auth flows, feeds,
// and binary downloads. Matched case-insensitively against path+query.
var builtinDenyPatterns = []*regexp.Regexp{
	// Search and query pages
	regexp.MustCompile(`(?i)/search(/|$)`),
	regexp.MustCompile(`(?i)[?&](s|q|search|query)=`),

	// Tag and category listings
	regexp.MustCompile(`(?i)/(tag|tags|category|categories|label|labels|archive|archives)(/|$)`),

	// Pagination
	regexp.MustCompile(`(?i)/page/\d+`),
	regexp.MustCompile(`(?i)[?&](page|paged|p|pg|offset|start)=\d`),

	// Calendar and event date paths
	regexp.MustCompile(`(?i)/\d{4}/\d{2}(/\d{2})?(/|$)`),
	regexp.MustCompile(`(?i)/(calendar|events?)/\d`),

	// Auth, account, and cart flows
	regexp.MustCompile(`(?i)/(login|logout|signin|sign-in|signup|sign-up|register|account|my-account|cart|checkout|wishlist)(/|$)`),

	// Admin and CGI paths
	regexp.MustCompile(`(?i)/(wp-admin|admin|administrator|cgi-bin)(/|$)`),

	// Feed and syndication paths
	regexp.MustCompile(`(?i)/(feed|rss|atom)(/|$)`),
	regexp.MustCompile(`(?i)\.(rss|atom)$`),

	// Print and share variants
	regexp.MustCompile(`(?i)/print(/|$)`),
	regexp.MustCompile(`(?i)[?&](print|share)=`),

	// Binary and asset file extensions
	regexp.MustCompile(`(?i)\.(pdf|zip|rar|7z|gz|tar|exe|dmg|iso|mp3|mp4|avi|mov|wmv|flv|wav|png|jpe?g|gif|svg|webp|ico|bmp|css|js|woff2?|ttf|eot|docx?|xlsx?|pptx?)($|\?)`),

	// Sort, filter, and presentation query keys
	regexp.MustCompile(`(?i)[?&](sort|order|orderby|dir|filter|view|layout|display|lang|locale|currency)=`),

	// Session identifiers surviving in the query
	regexp.MustCompile(`(?i)[?&](sid|sessionid|session_id|jsessionid|phpsessid)=`),
}

// PatternFilter classifies URLs as crawlable or not. The built-in trap bank
// always applies; callers add allow and deny regex lists on top, with a
// non-empty allow-list being exclusive: URLs matching no allow pattern are
// denied outright, and URLs matching one bypass the deny patterns.
type PatternFilter struct {
	allow []*regexp.Regexp
	deny  []*regexp.Regexp
}

// NewPatternFilter compiles the caller's allow and deny pattern lists.
// Patterns are regular expressions matched case-insensitively against the
// URL's path and query. Compilation errors are configuration errors and
// fail fast.
func NewPatternFilter(allowPatterns, denyPatterns []string) (*PatternFilter, error) {
	f := &PatternFilter{}

	for _, p := range allowPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid allow pattern %q: %w", p, err)
		}
		f.allow = append(f.allow, re)
	}

	for _, p := range denyPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid deny pattern %q: %w", p, err)
		}
		f.deny = append(f.deny, re)
	}

	return f, nil
}

// Denies reports whether the URL should be excluded from the crawl.
// Unparseable URLs are denied.
func (f *PatternFilter) Denies(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	target := u.Path
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}

	// A non-empty allow-list is exclusive: it alone decides.
	if len(f.allow) > 0 {
		for _, re := range f.allow {
			if re.MatchString(target) {
				return false
			}
		}
		return true
	}

	for _, re := range f.deny {
		if re.MatchString(target) {
			return true
		}
	}
	for _, re := range builtinDenyPatterns {
		if re.MatchString(target) {
			return true
		}
	}

	return false
}
