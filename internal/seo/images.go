package seo

import (
	"context"
	"fmt"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// ImagesModule audits image accessibility: every img needs an alt
// attribute, and the score reflects how many carry one.
type ImagesModule struct{}

// Name returns the module identifier.
func (m *ImagesModule) Name() string { return "images" }

// Audit checks alt attributes on all images. Pages without images pass with
// a full score.
func (m *ImagesModule) Audit(_ context.Context, page *Page) model.ModuleReport {
	report := model.ModuleReport{
		Module:  m.Name(),
		PageURL: page.Snapshot.URL,
		Issues:  []model.Issue{},
	}

	images := findAll(page.Doc, "img")
	withAlt := 0
	for _, img := range images {
		alt, present := attrVal(img, "alt")
		if !present {
			src, _ := attrVal(img, "src")
			report.Issues = append(report.Issues, model.Issue{
				Level:   model.IssueWarning,
				Message: fmt.Sprintf("image %q has no alt attribute", src),
			})
			continue
		}
		// An empty alt is the declared way to mark decorative images.
		if strings.TrimSpace(alt) == "" {
			report.Issues = append(report.Issues, model.Issue{
				Level:   model.IssueInfo,
				Message: "image has an empty alt attribute (decorative)",
			})
		}
		withAlt++
	}

	score := 100
	if len(images) > 0 {
		score = withAlt * 100 / len(images)
	}
	report.Score = &score

	report.Status = verdict(report.Issues)
	return report
}
