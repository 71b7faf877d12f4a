package seo

import (
	"context"
	"fmt"

	"github.com/seoscan/seoscan/internal/model"
)

// Title length bounds in characters. Search engines truncate titles around
// 60 characters; very short titles waste the most visible ranking signal.
const (
	minTitleLen = 30
	maxTitleLen = 60
)

// TitleModule audits the document title.
type TitleModule struct{}

// Name returns the module identifier.
func (m *TitleModule) Name() string { return "title" }

// Audit checks that the page has exactly one non-empty, well-sized title.
func (m *TitleModule) Audit(_ context.Context, page *Page) model.ModuleReport {
	report := model.ModuleReport{
		Module:  m.Name(),
		PageURL: page.Snapshot.URL,
		Issues:  []model.Issue{},
	}

	titles := findAll(page.Doc, "title")
	if len(titles) == 0 {
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueError,
			Message: "page has no <title> element",
		})
		report.Status = verdict(report.Issues)
		return report
	}
	if len(titles) > 1 {
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueWarning,
			Message: fmt.Sprintf("page has %d <title> elements, expected 1", len(titles)),
		})
	}

	text := textContent(titles[0])
	switch n := len([]rune(text)); {
	case n == 0:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueError,
			Message: "title is empty",
		})
	case n < minTitleLen:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueWarning,
			Message: fmt.Sprintf("title is %d characters, recommended minimum is %d", n, minTitleLen),
		})
	case n > maxTitleLen:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueWarning,
			Message: fmt.Sprintf("title is %d characters, recommended maximum is %d", n, maxTitleLen),
		})
	}

	report.Status = verdict(report.Issues)
	return report
}
