package seo

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/seoscan/seoscan/internal/model"
)

// DefaultAuditConcurrency is the number of pages audited in parallel.
// Auditing is CPU-bound HTML walking; a small limit keeps one large site
// from starving concurrent runs.
const DefaultAuditConcurrency = 4

// Runner fans collected page snapshots out to a fixed module set.
type Runner struct {
	modules     []Module
	logger      *slog.Logger
	concurrency int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAuditConcurrency sets how many pages are audited in parallel.
func WithAuditConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a Runner over the given modules. A nil or empty module
// list falls back to DefaultModules.
func NewRunner(modules []Module, opts ...RunnerOption) *Runner {
	if len(modules) == 0 {
		modules = DefaultModules()
	}

	r := &Runner{
		modules:     modules,
		logger:      slog.Default(),
		concurrency: DefaultAuditConcurrency,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Audit runs every module against every snapshot and returns the reports
// grouped by page, pages in input order and modules in registration order.
// Pages whose HTML cannot be parsed are skipped with a log entry.
func (r *Runner) Audit(ctx context.Context, snaps []*model.PageSnapshot) []model.ModuleReport {
	perPage := make([][]model.ModuleReport, len(snaps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, snap := range snaps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			page, ok := NewPage(snap)
			if !ok {
				r.logger.Warn("skipping unparseable page", "url", snap.URL)
				return nil
			}

			reports := make([]model.ModuleReport, 0, len(r.modules))
			for _, mod := range r.modules {
				reports = append(reports, mod.Audit(ctx, page))
			}
			perPage[i] = reports
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Warn("audit cancelled", "reason", err)
	}

	var out []model.ModuleReport
	for _, reports := range perPage {
		out = append(out, reports...)
	}
	return out
}
