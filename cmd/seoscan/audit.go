package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/crawler"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/log"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/pipeline"
	"github.com/seoscan/seoscan/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url...]",
		Short: "Audit a website for technical SEO issues",
		Long: `Audit crawls a website breadth-first within its origin and checks every
fetched page for technical SEO issues:

- Missing, short, or overlong <title> elements
- Missing or poorly sized meta descriptions
- Broken heading hierarchies (missing or duplicate <h1>, skipped levels)
- Images without alt text

The crawl honors robots.txt, skips crawler traps (calendars, faceted search,
session IDs), and never leaves the start URL's origin.

Examples:
  # Audit a single site
  seoscan audit https://example.com

  # Audit multiple sites concurrently
  seoscan audit --batch 3 https://a.example https://b.example https://c.example

  # Limit the crawl and output JSON
  seoscan audit --max-pages 20 --json https://example.com

  # Use a custom configuration file
  seoscan audit -c myconfig.yaml https://example.com

Configuration file (.seoscan) example:
  sites:
    example.com:
      maxPages: 200
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link distance from the start URL")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent fetches per site")
	cmd.Flags().Float64P("rate", "r", 0,
		"Request rate limit in requests per second (0 disables)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", 1,
		"Number of sites audited concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not store the audit report in the history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Crawl.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Crawl.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Crawl.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Crawl.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Crawl.RequestsPerSecond, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.Crawl.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configuration file if present
	if configFile := config.FindConfigFile(cfg.ConfigFilePath); configFile != "" {
		siteConfigs, err := config.LoadConfigFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
		cfg.SiteConfigs = siteConfigs
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("config file not found: %s", cfg.ConfigFilePath)
	}

	// Positional arguments are the sites to audit
	cfg.Targets = args

	return cfg, nil
}

// normalizeTarget validates a target URL and fills in a missing scheme.
func normalizeTarget(target string) (string, error) {
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	if _, ok := crawler.Origin(target); !ok {
		return "", fmt.Errorf("invalid target URL: %s", target)
	}
	return target, nil
}

// siteKey returns the config file lookup key for a target URL.
// Site entries are keyed by hostname.
func siteKey(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return target
	}
	return u.Host
}

// runAudit executes the audit over all targets.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more site URLs as arguments)")
	}

	logger.Info("starting audit",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Validate and normalize all targets before starting any crawl
	for i, target := range cfg.Targets {
		normalized, err := normalizeTarget(target)
		if err != nil {
			return err
		}
		cfg.Targets[i] = normalized
	}

	client := &http.Client{}

	// Use batch processor for parallel auditing if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAudit(ctx, cfg, client, db, logger)
	}

	return runSequentialAudit(ctx, cfg, client, db, logger)
}

// crawlConfigForTarget builds the effective crawl config for one target,
// applying any site-specific overrides from the config file.
func crawlConfigForTarget(cfg *config.Config, target string) config.CrawlConfig {
	crawlCfg := cfg.Crawl
	crawlCfg.StartURL = target

	if cfg.SiteConfigs != nil {
		siteConfig := cfg.SiteConfigs.GetSiteConfig(siteKey(target))
		siteConfig.Apply(&crawlCfg)
	}

	return crawlCfg
}

// createPipelineForTarget creates a pipeline for auditing one target.
func createPipelineForTarget(client *http.Client, logger *slog.Logger, cfg *config.Config, target string) *pipeline.Pipeline {
	return pipeline.DefaultPipeline(client, crawlConfigForTarget(cfg, target),
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, client *http.Client, db *database.AuditDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipelineForTarget(client, logger, cfg, target)
		siteReport := model.NewSiteReport(target)

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		if err := p.Execute(ctx, siteReport); err != nil {
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			continue
		}
		siteReport.Finish()

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, siteReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if err := saveSiteReport(ctx, db, siteReport, logger); err != nil {
			logger.Error("failed to save audit report", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchAudit audits multiple targets concurrently using BatchProcessor.
//
// The pipeline factory cannot see which target it serves, so batch mode
// applies global config only. Per-site overrides require sequential mode.
func runBatchAudit(ctx context.Context, cfg *config.Config, client *http.Client, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	// The factory cannot see which target it serves, so batch pipelines get
	// the global defaults plus the config file's defaults section.
	batchCrawlCfg := cfg.Crawl
	if cfg.SiteConfigs != nil {
		cfg.SiteConfigs.Defaults.Apply(&batchCrawlCfg)
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(client, batchCrawlCfg,
				pipeline.WithLogger(logger),
				pipeline.WithContinueOnError(true),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(siteReport *model.SiteReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Audit completed: %s\n", index+1, len(cfg.Targets), siteReport.StartURL)

		if err := outputReport(cfg, siteReport); err != nil {
			logger.Error("report failed", "target", siteReport.StartURL, "error", err)
		}

		if err := saveSiteReport(ctx, db, siteReport, logger); err != nil {
			logger.Error("failed to save audit report", "target", siteReport.StartURL, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit finished in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// outputReport writes the audit report in the requested format.
func outputReport(cfg *config.Config, siteReport *model.SiteReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report with all data)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(siteReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(siteReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(siteReport)
	return err
}

// saveSiteReport saves the audit report to the database if enabled.
// If db is nil, this function is a no-op.
func saveSiteReport(ctx context.Context, db *database.AuditDB, siteReport *model.SiteReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveSiteReport(ctx, siteReport); err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}

	logger.Info("audit report saved to database", "target", siteReport.StartURL)
	return nil
}
