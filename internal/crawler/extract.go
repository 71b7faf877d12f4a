package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks scans HTML for href attributes, resolves them against the
// page URL, normalizes them, and keeps only links whose origin matches the
// crawl origin. The result is de-duplicated in discovery order.
//
// Design decision: We parse with golang.org/x/net/html rather than regex
// because it correctly handles the malformed markup common on the web. The
// engine only ever sees this function's narrow contract, so the parsing
// strategy can change without touching the scheduler.
func ExtractLinks(htmlSrc, pageURL, origin string) []string {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		// Parsing is best-effort; a page we cannot parse contributes no links.
		return nil
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if href := getAttr(n, "href"); href != "" && crawlableHref(href) {
				if normalized, ok := Normalize(href, pageURL); ok {
					if linkOrigin, ok := Origin(normalized); ok && linkOrigin == origin {
						if _, dup := seen[normalized]; !dup {
							seen[normalized] = struct{}{}
							links = append(links, normalized)
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// crawlableHref filters out href values that can never become page URLs.
func crawlableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		// Fragment-only hrefs resolve back to the page itself.
		return false
	}
	lower := strings.ToLower(href)
	return !strings.HasPrefix(lower, "javascript:") &&
		!strings.HasPrefix(lower, "mailto:") &&
		!strings.HasPrefix(lower, "tel:") &&
		!strings.HasPrefix(lower, "data:")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
