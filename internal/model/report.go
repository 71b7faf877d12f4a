package model

import (
	"time"

	"github.com/google/uuid"
)

// ModuleStatus is the overall verdict of one SEO module for one page.
type ModuleStatus string

// Module verdicts.
const (
	// ModulePass means the page satisfied the module's checks.
	ModulePass ModuleStatus = "PASS"

	// ModuleWarning means the page has non-critical findings.
	ModuleWarning ModuleStatus = "WARNING"

	// ModuleFail means the page failed the module's checks.
	ModuleFail ModuleStatus = "FAIL"
)

// IssueLevel grades a single module finding.
type IssueLevel string

// Issue levels, from informational to blocking.
const (
	IssueInfo    IssueLevel = "info"
	IssueWarning IssueLevel = "warning"
	IssueError   IssueLevel = "error"
)

// Issue is a single finding produced by an SEO module.
type Issue struct {
	// Level grades the finding.
	Level IssueLevel `json:"level"`

	// Message is a human-readable description of the finding.
	Message string `json:"message"`
}

// ModuleReport is the structured report an SEO module returns for one page.
// This is the collaborator boundary: the crawler knows the shape, never the
// module internals.
type ModuleReport struct {
	// Module is the reporting module's name.
	Module string `json:"module"`

	// PageURL is the URL of the audited page.
	PageURL string `json:"page_url,omitempty"`

	// Status is the module's overall verdict.
	Status ModuleStatus `json:"status"`

	// Score is an optional 0-100 score. Nil when the module does not score.
	Score *int `json:"score,omitempty"`

	// Issues lists the module's findings, possibly empty.
	Issues []Issue `json:"issues"`
}

// SiteReport bundles everything produced by one audit run of one site:
// the crawl result plus any module reports gathered from the fetched pages.
//
// Design decision: SiteReport is owned by a single run and assembled by the
// pipeline; nothing in this struct is shared between concurrent runs. This is
// what makes parallel audits of different sites safe.
type SiteReport struct {
	// RunID uniquely identifies this audit run.
	RunID string `json:"run_id"`

	// StartURL is the seed URL the audit was invoked with.
	StartURL string `json:"start_url"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finished_at"`

	// Crawl is the crawl engine's output.
	Crawl *CrawlResult `json:"crawl,omitempty"`

	// ModuleReports holds per-page SEO module reports, in audit order.
	ModuleReports []ModuleReport `json:"module_reports,omitempty"`

	// Snapshots holds the fetched HTML pages handed from the crawl step to
	// the audit step. Not serialized; page bodies stay out of reports.
	Snapshots []*PageSnapshot `json:"-"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the message of the first step failure, if any.
	Error string `json:"error,omitempty"`
}

// NewSiteReport creates a SiteReport for the given seed URL with a fresh
// run ID and the start timestamp set.
func NewSiteReport(startURL string) *SiteReport {
	return &SiteReport{
		RunID:     uuid.NewString(),
		StartURL:  startURL,
		StartedAt: time.Now(),
	}
}

// Finish stamps the completion time.
func (r *SiteReport) Finish() {
	r.FinishedAt = time.Now()
}

// AddModuleReport appends a module report to the site report.
func (r *SiteReport) AddModuleReport(mr ModuleReport) {
	r.ModuleReports = append(r.ModuleReports, mr)
}

// ModuleFailures returns the number of module reports with a FAIL status.
func (r *SiteReport) ModuleFailures() int {
	n := 0
	for _, mr := range r.ModuleReports {
		if mr.Status == ModuleFail {
			n++
		}
	}
	return n
}
