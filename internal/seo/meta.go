package seo

import (
	"context"
	"fmt"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// Meta description length bounds in characters.
const (
	minDescriptionLen = 50
	maxDescriptionLen = 160
)

// MetaDescriptionModule audits the meta description tag.
type MetaDescriptionModule struct{}

// Name returns the module identifier.
func (m *MetaDescriptionModule) Name() string { return "meta_description" }

// Audit checks for a single, well-sized meta description. It also flags a
// robots noindex directive, which usually indicates a page that should not
// have been linked internally in the first place.
func (m *MetaDescriptionModule) Audit(_ context.Context, page *Page) model.ModuleReport {
	report := model.ModuleReport{
		Module:  m.Name(),
		PageURL: page.Snapshot.URL,
		Issues:  []model.Issue{},
	}

	var descriptions []string
	for _, meta := range findAll(page.Doc, "meta") {
		name, _ := attrVal(meta, "name")
		content, _ := attrVal(meta, "content")

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "description":
			descriptions = append(descriptions, strings.TrimSpace(content))
		case "robots":
			if strings.Contains(strings.ToLower(content), "noindex") {
				report.Issues = append(report.Issues, model.Issue{
					Level:   model.IssueWarning,
					Message: "page is marked noindex but is reachable through internal links",
				})
			}
		}
	}

	switch {
	case len(descriptions) == 0:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueError,
			Message: "page has no meta description",
		})
	case len(descriptions) > 1:
		report.Issues = append(report.Issues, model.Issue{
			Level:   model.IssueWarning,
			Message: fmt.Sprintf("page has %d meta descriptions, expected 1", len(descriptions)),
		})
	default:
		switch n := len([]rune(descriptions[0])); {
		case n == 0:
			report.Issues = append(report.Issues, model.Issue{
				Level:   model.IssueError,
				Message: "meta description is empty",
			})
		case n < minDescriptionLen:
			report.Issues = append(report.Issues, model.Issue{
				Level:   model.IssueWarning,
				Message: fmt.Sprintf("meta description is %d characters, recommended minimum is %d", n, minDescriptionLen),
			})
		case n > maxDescriptionLen:
			report.Issues = append(report.Issues, model.Issue{
				Level:   model.IssueWarning,
				Message: fmt.Sprintf("meta description is %d characters, recommended maximum is %d", n, maxDescriptionLen),
			})
		}
	}

	report.Status = verdict(report.Issues)
	return report
}
