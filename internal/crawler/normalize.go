package crawler

import (
	"net/url"
	"strings"
)

// trackingParams lists query parameter keys stripped during normalization.
// These are advertising, analytics, and session keys that do not affect page
// content; dropping them collapses URL variants onto one canonical form.
var trackingParams = map[string]struct{}{
	// UTM campaign tracking
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},

	// Facebook / Google / Microsoft ad click identifiers
	"fbclid":  {},
	"gclid":   {},
	"gclsrc":  {},
	"dclid":   {},
	"msclkid": {},

	// HubSpot
	"_hsenc": {},
	"_hsmi":  {},
	"__hssc": {},
	"__hstc": {},
	"__hsfp": {},

	// Generic analytics
	"_ga":     {},
	"_gl":     {},
	"ref":     {},
	"ref_src": {},

	// Session and cache busting
	"sid":        {},
	"sessionid":  {},
	"jsessionid": {},
	"phpsessid":  {},
	"nocache":    {},
	"_":          {},
	"timestamp":  {},
	"cb":         {},
}

// defaultPorts maps schemes to their default port strings.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Normalize canonicalizes a URL string, optionally relative to a base URL.
// It lowercases the scheme and host, strips the fragment, removes tracking
// query parameters, sorts the remaining parameters, collapses repeated path
// slashes, strips a trailing slash (except on the root path), and drops
// default ports. The second return value is false when the input is not
// parseable as an absolute http(s) URL relative to base.
//
// Normalization is idempotent: normalizing an already-normalized URL is a
// no-op, and the same input always yields byte-identical output.
func Normalize(raw, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	u := ref
	if base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return "", false
		}
		u = b.ResolveReference(ref)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	u.Scheme = scheme

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}

	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if _, drop := trackingParams[strings.ToLower(key)]; drop {
				delete(q, key)
			}
		}
		// url.Values.Encode sorts by key, which gives the canonical ordering.
		u.RawQuery = q.Encode()
	}

	u.Path = normalizePath(u.Path)
	u.RawPath = ""

	return u.String(), true
}

// normalizePath collapses repeated slashes and strips the trailing slash
// unless the path is the root.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}

// Origin returns the scheme://host[:port] triple of an absolute URL string.
// The origin scopes same-site link following.
func Origin(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}
