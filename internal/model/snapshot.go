package model

import "net/http"

// MaxSnapshotSize is the maximum size of a retained HTML snapshot in bytes.
// Snapshots feed the SEO audit modules; anything past this limit adds little
// signal while risking memory exhaustion on pathological pages.
const MaxSnapshotSize = 512 * 1024 // 512 KB

// PageSnapshot is a successfully fetched HTML page retained for auditing.
// The crawl engine hands snapshots to an optional page handler; PageResult
// deliberately does not carry page bodies.
type PageSnapshot struct {
	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// Depth is the breadth-first distance from the seed URL.
	Depth int `json:"depth"`

	// HTML is the page body, truncated to MaxSnapshotSize.
	HTML string `json:"-"`

	// Headers contains the HTTP response headers.
	Headers http.Header `json:"-"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type,omitempty"`
}

// Truncate enforces the snapshot size limit. Call after setting HTML.
func (p *PageSnapshot) Truncate() {
	if len(p.HTML) > MaxSnapshotSize {
		p.HTML = p.HTML[:MaxSnapshotSize]
	}
}
