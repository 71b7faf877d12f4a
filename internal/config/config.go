package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values and clamping bounds.
// The clamps exist because crawl options reach this tool from untrusted
// callers (CLI flags, config files); a runaway concurrency or timeout value
// must never turn the crawler into a load generator.
const (
	// DefaultMaxPages is the default page budget per crawl run.
	DefaultMaxPages = 50

	// MinMaxPages and MaxMaxPages bound the page budget. Values outside the
	// range are clamped, not rejected.
	MinMaxPages = 1
	MaxMaxPages = 2000

	// DefaultMaxDepth limits breadth-first distance from the seed URL.
	// Entries past this depth are dropped before fetch.
	DefaultMaxDepth = 10

	// DefaultConcurrency is the number of in-flight fetches per batch.
	// Three concurrent requests is polite for most origins.
	DefaultConcurrency = 3

	// MaxConcurrency caps in-flight fetches regardless of caller input.
	MaxConcurrency = 10

	// DefaultTimeout is the per-fetch timeout. It applies to each request
	// individually, never to the crawl as a whole.
	DefaultTimeout = 15 * time.Second

	// MaxTimeout caps the per-fetch timeout.
	MaxTimeout = 30 * time.Second

	// DefaultUserAgent identifies seoscan in HTTP requests. A descriptive
	// User-Agent lets site operators recognize and filter crawler traffic.
	DefaultUserAgent = "SEOScan/1.0 (+https://github.com/seoscan/seoscan)"

	// DefaultMaxBodySize limits the response body size read per page.
	// Larger responses are truncated to prevent memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"
)

// CrawlConfig holds the options for one crawl run.
//
// Design decision: We use a single flat struct populated from CLI flags and
// the config file, passed through the application via dependency injection
// rather than global state. Per-run crawl state (frontier, visited set) lives
// in the engine, never here.
type CrawlConfig struct {
	// StartURL is the seed URL. Required.
	StartURL string

	// MaxPages is the page budget. Clamped to [MinMaxPages, MaxMaxPages].
	MaxPages int

	// MaxDepth is the maximum breadth-first distance from the seed.
	MaxDepth int

	// Concurrency is the number of fetches issued per batch.
	// Clamped to [1, MaxConcurrency].
	Concurrency int

	// Timeout is the per-fetch timeout. Clamped to (0, MaxTimeout].
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// AllowPatterns are regex strings; when non-empty, only matching URLs
	// are crawled (the allow-list is exclusive).
	AllowPatterns []string

	// DenyPatterns are regex strings denied in addition to the built-in
	// trap pattern bank.
	DenyPatterns []string

	// RequestsPerSecond rate-limits fetches when positive. Zero disables
	// rate limiting.
	RequestsPerSecond float64

	// Headers are extra HTTP headers to include in requests, typically from
	// a per-site config entry.
	Headers map[string]string
}

// NewCrawlConfig creates a CrawlConfig with default values for the given seed.
func NewCrawlConfig(startURL string) CrawlConfig {
	return CrawlConfig{
		StartURL:    startURL,
		MaxPages:    DefaultMaxPages,
		MaxDepth:    DefaultMaxDepth,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
	}
}

// Clamp applies defaults and bounds to the config in place.
// Out-of-range values are clamped rather than rejected so that a caller
// always gets a crawl; only a missing or malformed seed URL is fatal.
func (c *CrawlConfig) Clamp() {
	if c.MaxPages == 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.MaxPages < MinMaxPages {
		c.MaxPages = MinMaxPages
	}
	if c.MaxPages > MaxMaxPages {
		c.MaxPages = MaxMaxPages
	}

	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}

	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Concurrency > MaxConcurrency {
		c.Concurrency = MaxConcurrency
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout > MaxTimeout {
		c.Timeout = MaxTimeout
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	if c.RequestsPerSecond < 0 {
		c.RequestsPerSecond = 0
	}
}

// Validate checks the configuration. It returns a sentinel error describing
// the first problem found; fixing one error often makes others irrelevant.
func (c *CrawlConfig) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	return nil
}

// Config holds the application-level configuration for the seoscan CLI.
type Config struct {
	// Crawl holds the crawl option defaults applied to every target unless
	// overridden per site.
	Crawl CrawlConfig

	// Targets is the list of seed URLs to audit.
	Targets []string

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport enables JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive with
	// JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for reports. Empty means stdout.
	ReportFile string

	// ConfigFilePath is the path to the .seoscan configuration file.
	// Empty means search the current directory and then the home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// BatchSize is the number of targets audited concurrently.
	BatchSize int

	// DBDir is the directory for the SQLite history database.
	// Empty disables persistence.
	DBDir string

	// SaveToDB indicates whether audit reports are saved to the database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Crawl:     NewCrawlConfig(""),
		BatchSize: 1,
	}
}

// Validate checks the application configuration.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	return nil
}

// XDGDataDir returns the XDG data directory for seoscan.
// On Linux: ~/.local/share/seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoscan.
// On Linux: ~/.config/seoscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
