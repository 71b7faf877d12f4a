package seo

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/seoscan/seoscan/internal/model"
)

// HeadingsModule audits the heading outline: exactly one h1, no skipped
// levels on the way down.
type HeadingsModule struct{}

// Name returns the module identifier.
func (m *HeadingsModule) Name() string { return "headings" }

// Audit checks the page's heading structure.
func (m *HeadingsModule) Audit(_ context.Context, page *Page) model.ModuleReport {
	report := model.ModuleReport{
		Module:  m.Name(),
		PageURL: page.Snapshot.URL,
		Issues:  []model.Issue{},
	}

	headings := collectHeadings(page.Doc)

	h1Count := 0
	for _, level := range headings {
		if level == 1 {
			h1Count++
		}
	}

	switch {
	case h1Count == 0:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueError,
			Message: "page has no <h1> element",
		})
	case h1Count > 1:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueWarning,
			Message: fmt.Sprintf("page has %d <h1> elements, expected 1", h1Count),
		})
	}

	prev := 0
	for _, level := range headings {
		if prev > 0 && level > prev+1 {
			report.Issues = append(report.Issues, model.Issue{
				Level:   model.IssueWarning,
				Message: fmt.Sprintf("heading level skips from h%d to h%d", prev, level),
			})
		}
		prev = level
	}

	report.Status = verdict(report.Issues)
	return report
}

// collectHeadings returns the numeric levels of h1..h6 in document order.
func collectHeadings(doc *html.Node) []int {
	var levels []int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && len(n.Data) == 2 && n.Data[0] == 'h' {
			if n.Data[1] >= '1' && n.Data[1] <= '6' {
				levels = append(levels, int(n.Data[1]-'0'))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return levels
}
