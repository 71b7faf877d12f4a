package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables per-page crawl detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with per-page details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.SiteReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCrawlSummary(&sb, report)
	w.writePages(&sb, report)
	w.writeModuleFindings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SiteReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SEOSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:       %s\n", report.StartURL))
	sb.WriteString(fmt.Sprintf("Run ID:     %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Audit Date: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n", report.Error))
	} else {
		sb.WriteString("Status:     Complete\n")
	}

	sb.WriteString("\n")
}

// writeCrawlSummary writes the crawl counters section.
func (w *SimpleWriter) writeCrawlSummary(sb *strings.Builder, report *model.SiteReport) {
	if report.Crawl == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	c := report.Crawl
	sb.WriteString(fmt.Sprintf("  Pages:      %d (budget %d)\n", c.TotalPagesCrawled, c.MaxPages))
	sb.WriteString(fmt.Sprintf("  Errors:     %d\n", c.Summary.Errors))
	sb.WriteString(fmt.Sprintf("  Blocked:    %d\n", c.Summary.Blocked))
	sb.WriteString(fmt.Sprintf("  Duplicates: %d\n", c.Summary.Duplicates))
	sb.WriteString(fmt.Sprintf("  Robots.txt: %s\n", c.Summary.RobotsTxt))
	sb.WriteString(fmt.Sprintf("  Duration:   %dms\n", c.Summary.DurationMS))
	sb.WriteString("\n")
}

// writePages lists the non-success pages, or every page in verbose mode.
func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.SiteReport) {
	if report.Crawl == nil {
		return
	}

	var shown []model.PageResult
	for _, p := range report.Crawl.Pages {
		if w.verbose || p.Status != model.StatusSuccess {
			shown = append(shown, p)
		}
	}
	if len(shown) == 0 && !w.showEmpty {
		return
	}

	title := "PROBLEM PAGES"
	if w.verbose {
		title = "PAGES"
	}
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(shown) == 0 {
		sb.WriteString("  No problem pages\n")
	}
	for _, p := range shown {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", p.Status, p.URL))
		if p.Error != "" {
			sb.WriteString(fmt.Sprintf("    Error: %s\n", p.Error))
		}
	}
	sb.WriteString("\n")
}

// writeModuleFindings writes the SEO module results grouped by verdict.
func (w *SimpleWriter) writeModuleFindings(sb *strings.Builder, report *model.SiteReport) {
	if len(report.ModuleReports) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEO FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.ModuleReports) == 0 {
		sb.WriteString("  No pages audited\n\n")
		return
	}

	pass, warn, fail := 0, 0, 0
	for _, mr := range report.ModuleReports {
		switch mr.Status {
		case model.ModulePass:
			pass++
		case model.ModuleWarning:
			warn++
		case model.ModuleFail:
			fail++
		}
	}
	sb.WriteString(fmt.Sprintf("  PASS: %d  WARNING: %d  FAIL: %d\n\n", pass, warn, fail))

	for _, status := range []model.ModuleStatus{model.ModuleFail, model.ModuleWarning} {
		for _, mr := range report.ModuleReports {
			if mr.Status != status || len(mr.Issues) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s (%s)\n", mr.Status, mr.PageURL, mr.Module))
			for _, issue := range mr.Issues {
				sb.WriteString(fmt.Sprintf("    * %s: %s\n", issue.Level, issue.Message))
			}
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoscan\n")
	sb.WriteString("https://github.com/seoscan/seoscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
