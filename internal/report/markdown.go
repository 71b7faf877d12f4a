package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/seoscan/seoscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SiteReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeCrawlSummary(md, report)
	w.writePages(md, report)
	w.writeModuleFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SiteReport) {
	md.H1("SEO Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.StartURL + "`"},
			{"Run ID", "`" + report.RunID + "`"},
			{"Audit Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.SiteReport) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

// writeCrawlSummary writes the crawl counters section.
func (w *MarkdownWriter) writeCrawlSummary(md *markdown.Markdown, report *model.SiteReport) {
	if report.Crawl == nil {
		return
	}
	c := report.Crawl

	md.H2("Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages crawled", strconv.Itoa(c.TotalPagesCrawled)},
			{"Page budget", strconv.Itoa(c.MaxPages)},
			{"Errors", strconv.Itoa(c.Summary.Errors)},
			{"Blocked", strconv.Itoa(c.Summary.Blocked)},
			{"Duplicates", strconv.Itoa(c.Summary.Duplicates)},
			{"Robots.txt", c.Summary.RobotsTxt},
			{"Duration", strconv.FormatInt(c.Summary.DurationMS, 10) + "ms"},
		},
	})
	md.PlainText("")
}

// writePages lists the non-success pages from the crawl.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.SiteReport) {
	if report.Crawl == nil {
		return
	}

	var rows [][]string
	for _, p := range report.Crawl.Pages {
		if p.Status == model.StatusSuccess {
			continue
		}
		detail := p.Error
		if detail == "" {
			detail = "-"
		}
		rows = append(rows, []string{
			truncateString(p.URL, 60),
			string(p.Status),
			detail,
		})
	}

	md.H2("Problem Pages")
	md.PlainText("")
	if len(rows) == 0 {
		md.PlainText("All crawled pages returned HTML successfully.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeModuleFindings writes the SEO module results.
func (w *MarkdownWriter) writeModuleFindings(md *markdown.Markdown, report *model.SiteReport) {
	md.H2("SEO Findings")
	md.PlainText("")

	if len(report.ModuleReports) == 0 {
		md.PlainText("No pages were audited.")
		md.PlainText("")
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

	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"✅ Pass", strconv.Itoa(pass)},
			{"🟡 Warning", strconv.Itoa(warn)},
			{"🔴 Fail", strconv.Itoa(fail)},
		},
	})
	md.PlainText("")

	if pass+warn+fail > 0 {
		w.writePieChart(md, pass, warn, fail)
	}
	w.writeAlert(md, warn, fail)

	var rows [][]string
	for _, mr := range report.ModuleReports {
		if mr.Status == model.ModulePass {
			continue
		}
		for _, issue := range mr.Issues {
			rows = append(rows, []string{
				truncateString(mr.PageURL, 50),
				mr.Module,
				string(issue.Level),
				truncateString(issue.Message, 70),
			})
		}
	}
	if len(rows) > 0 {
		md.Table(markdown.TableSet{
			Header: []string{"Page", "Module", "Level", "Finding"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart for the verdict distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, pass, warn, fail int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Module Verdict Distribution"),
		piechart.WithShowData(true),
	)

	if pass > 0 {
		chart.LabelAndIntValue("Pass", uint64(pass))
	}
	if warn > 0 {
		chart.LabelAndIntValue("Warning", uint64(warn))
	}
	if fail > 0 {
		chart.LabelAndIntValue("Fail", uint64(fail))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on verdict counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, warn, fail int) {
	switch {
	case fail > 0:
		md.Warningf(
			"%d module check(s) failed. These pages are missing fundamental SEO elements.",
			fail,
		)
	case warn > 0:
		md.Importantf(
			"%d module check(s) produced warnings that are worth reviewing.",
			warn,
		)
	default:
		md.Tip("All audited pages passed every module check.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoscan](https://github.com/seoscan/seoscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
