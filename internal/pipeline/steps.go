package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/crawler"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/seo"
)

// CrawlStep discovers and fetches the site's pages.
// It runs the crawl engine and stores both the structured crawl result and
// the raw page snapshots that feed the audit step.
//
// Design decision: Crawling is a separate step because:
// 1. It has its own configuration (depth, limits, politeness)
// 2. It produces the input for every subsequent step
// 3. It can run alone when only crawl statistics are wanted
type CrawlStep struct {
	// client is the HTTP client used for all fetches.
	client *http.Client

	// cfg holds the crawl options. StartURL is taken from the report at
	// execution time, so one step configuration serves many targets.
	cfg config.CrawlConfig

	// frontierCap bounds the pending URL queue. Zero means the engine default.
	frontierCap int

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// WithCrawlFrontierCap bounds the engine's pending URL queue.
func WithCrawlFrontierCap(n int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.frontierCap = n
	}
}

// NewCrawlStep creates a new crawling step with the given crawl options.
func NewCrawlStep(client *http.Client, cfg config.CrawlConfig, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		client: client,
		cfg:    cfg,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, report *model.SiteReport) error {
	var (
		mu    sync.Mutex
		snaps []*model.PageSnapshot
	)

	engineOpts := []crawler.EngineOption{
		crawler.WithLogger(s.logger),
		crawler.WithPageHandler(func(snap *model.PageSnapshot) {
			mu.Lock()
			snaps = append(snaps, snap)
			mu.Unlock()
		}),
	}
	if s.frontierCap > 0 {
		engineOpts = append(engineOpts, crawler.WithFrontierCap(s.frontierCap))
	}

	engine := crawler.NewEngine(s.client, engineOpts...)

	cfg := s.cfg
	cfg.StartURL = report.StartURL
	result := engine.Crawl(ctx, cfg)

	report.Crawl = result
	report.Snapshots = snaps

	if result.Error != "" {
		return fmt.Errorf("crawl failed: %s", result.Error)
	}

	s.logger.Info("crawl step completed",
		"site", report.StartURL,
		"pages", result.TotalPagesCrawled,
		"snapshots", len(snaps),
	)

	return nil
}

// AuditStep runs the SEO modules against the pages the crawl step collected.
//
// Design decision: Auditing is separate from crawling because:
// 1. It operates on accumulated data, never the network
// 2. The module set is configurable independently of crawl options
// 3. Its results are the primary report content
type AuditStep struct {
	// runner fans pages out to the audit modules.
	runner *seo.Runner

	// logger for structured logging.
	logger *slog.Logger
}

// AuditStepOption configures an AuditStep.
type AuditStepOption func(*AuditStep)

// WithAuditLogger sets a custom logger for the audit step.
func WithAuditLogger(logger *slog.Logger) AuditStepOption {
	return func(s *AuditStep) {
		s.logger = logger
	}
}

// WithAuditModules sets the modules to run. Nil means the default set.
func WithAuditModules(modules []seo.Module) AuditStepOption {
	return func(s *AuditStep) {
		s.runner = seo.NewRunner(modules)
	}
}

// NewAuditStep creates a new audit step with the default module set.
func NewAuditStep(opts ...AuditStepOption) *AuditStep {
	s := &AuditStep{
		runner: seo.NewRunner(nil),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do executes the audit step.
func (s *AuditStep) Do(ctx context.Context, report *model.SiteReport) error {
	if len(report.Snapshots) == 0 {
		s.logger.Debug("skipping audit, no pages collected", "site", report.StartURL)
		return nil
	}

	reports := s.runner.Audit(ctx, report.Snapshots)
	for _, mr := range reports {
		report.AddModuleReport(mr)
	}

	s.logger.Info("audit step completed",
		"site", report.StartURL,
		"pages", len(report.Snapshots),
		"module_reports", len(reports),
		"failures", report.ModuleFailures(),
	)

	return nil
}

// DefaultPipeline creates a pipeline with the standard crawl and audit
// steps configured.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want the full audit
// 2. It reduces boilerplate in the CLI
// 3. It ensures consistent step ordering
func DefaultPipeline(client *http.Client, cfg config.CrawlConfig, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	p.AddSteps(
		NewCrawlStep(client, cfg),
		NewAuditStep(),
	)

	return p
}
