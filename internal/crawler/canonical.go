package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractCanonical returns the page's declared canonical URL, normalized,
// or the empty string when no usable canonical declaration exists.
//
// The canonical URL is read from <link rel="canonical" href="...">. The rel
// attribute may carry a space-separated token list, so we match tokens, not
// the whole value. The first declaration in document order wins.
func ExtractCanonical(htmlSrc, baseURL string) string {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return ""
	}

	var canonical string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if canonical != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "link" {
			if relHasCanonical(getAttr(n, "rel")) {
				if href := getAttr(n, "href"); href != "" {
					if normalized, ok := Normalize(href, baseURL); ok {
						canonical = normalized
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return canonical
}

// relHasCanonical reports whether a rel attribute value contains the
// canonical link type.
func relHasCanonical(rel string) bool {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, "canonical") {
			return true
		}
	}
	return false
}
