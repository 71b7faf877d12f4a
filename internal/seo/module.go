package seo

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/seoscan/seoscan/internal/model"
)

// Page is one fetched page prepared for auditing. The HTML is parsed once
// by the Runner and shared by all modules.
type Page struct {
	// Snapshot is the raw page as captured by the crawl engine.
	Snapshot *model.PageSnapshot

	// Doc is the parsed HTML document root.
	Doc *html.Node
}

// NewPage parses a snapshot into an auditable page. Returns false when the
// HTML cannot be parsed at all, which x/net/html makes rare.
func NewPage(snap *model.PageSnapshot) (*Page, bool) {
	doc, err := html.Parse(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, false
	}
	return &Page{Snapshot: snap, Doc: doc}, true
}

// Module is one on-page SEO check. Implementations must be safe for
// concurrent use; the Runner audits multiple pages at once.
type Module interface {
	// Name returns the module's identifier used in reports.
	Name() string

	// Audit inspects one page and returns the module's report for it.
	Audit(ctx context.Context, page *Page) model.ModuleReport
}

// DefaultModules returns the standard module set in report order.
func DefaultModules() []Module {
	return []Module{
		&TitleModule{},
		&MetaDescriptionModule{},
		&HeadingsModule{},
		&ImagesModule{},
	}
}

// findFirst returns the first element with the given tag name, or nil.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every element with the given tag name in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// attrVal returns the value of an attribute, and whether it was present.
func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// textContent concatenates all text nodes under n, whitespace-collapsed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// verdict derives the overall module status from its issues.
func verdict(issues []model.Issue) model.ModuleStatus {
	status := model.ModulePass
	for _, issue := range issues {
		switch issue.Level {
		case model.IssueError:
			return model.ModuleFail
		case model.IssueWarning:
			status = model.ModuleWarning
		}
	}
	return status
}
