package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/model"
)

// TestNewAuditCmd tests the audit command creation.
func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "audit [url...]" {
			t.Errorf("expected use 'audit [url...]', got %q", cmd.Use)
		}
	})

	t.Run("has crawl flags with defaults", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			flag      string
			shorthand string
			defValue  string
		}{
			{flag: "timeout", shorthand: "t", defValue: config.DefaultTimeout.String()},
			{flag: "depth", shorthand: "d", defValue: "10"},
			{flag: "max-pages", shorthand: "p", defValue: "50"},
			{flag: "concurrency", shorthand: "n", defValue: "3"},
			{flag: "rate", shorthand: "r", defValue: "0"},
			{flag: "batch", shorthand: "b", defValue: "1"},
			{flag: "json", shorthand: "j", defValue: "false"},
			{flag: "markdown", shorthand: "m", defValue: "false"},
			{flag: "output", shorthand: "o", defValue: ""},
			{flag: "config", shorthand: "c", defValue: ""},
		}

		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Errorf("expected %q flag", tt.flag)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q: expected shorthand %q, got %q", tt.flag, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %q: expected default %q, got %q", tt.flag, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has no-save flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-save") == nil {
			t.Error("expected no-save flag")
		}
	})
}

// TestBuildConfig tests building the application config from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Crawl.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected max pages %d, got %d", config.DefaultMaxPages, cfg.Crawl.MaxPages)
		}
		if cfg.Crawl.Timeout != config.DefaultTimeout {
			t.Errorf("expected timeout %s, got %s", config.DefaultTimeout, cfg.Crawl.Timeout)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to default to true")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com" {
			t.Errorf("unexpected targets: %v", cfg.Targets)
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		args := []string{
			"--max-pages", "5",
			"--depth", "2",
			"--concurrency", "1",
			"--timeout", "3s",
			"--rate", "2.5",
			"--batch", "4",
			"--json",
			"--no-save",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Crawl.MaxPages != 5 {
			t.Errorf("expected max pages 5, got %d", cfg.Crawl.MaxPages)
		}
		if cfg.Crawl.MaxDepth != 2 {
			t.Errorf("expected depth 2, got %d", cfg.Crawl.MaxDepth)
		}
		if cfg.Crawl.Timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %s", cfg.Crawl.Timeout)
		}
		if cfg.Crawl.RequestsPerSecond != 2.5 {
			t.Errorf("expected rate 2.5, got %v", cfg.Crawl.RequestsPerSecond)
		}
		if cfg.BatchSize != 4 {
			t.Errorf("expected batch size 4, got %d", cfg.BatchSize)
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report enabled")
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB disabled by --no-save")
		}
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("loads site config file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "defaults:\n  maxPages: 7\nsites:\n  example.com:\n    maxDepth: 3\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SiteConfigs == nil {
			t.Fatal("expected site configs to be loaded")
		}

		crawlCfg := crawlConfigForTarget(cfg, "https://example.com")
		if crawlCfg.MaxPages != 7 {
			t.Errorf("expected defaults maxPages 7, got %d", crawlCfg.MaxPages)
		}
		if crawlCfg.MaxDepth != 3 {
			t.Errorf("expected site maxDepth 3, got %d", crawlCfg.MaxDepth)
		}
	})
}

// TestNormalizeTarget tests target URL validation.
func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "full url", input: "https://example.com", want: "https://example.com"},
		{name: "scheme added", input: "example.com", want: "https://example.com"},
		{name: "path preserved", input: "https://example.com/start", want: "https://example.com/start"},
		{name: "garbage", input: "://", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeTarget(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("normalizeTarget(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeTarget(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalizeTarget(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSiteKey tests config file key derivation.
func TestSiteKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "https://example.com/start", want: "example.com"},
		{input: "http://example.com:8080", want: "example.com:8080"},
		{input: "not a url", want: "not a url"},
	}

	for _, tt := range tests {
		if got := siteKey(tt.input); got != tt.want {
			t.Errorf("siteKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestOutputReport tests report format selection and file output.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	newReport := func() *model.SiteReport {
		r := model.NewSiteReport("https://example.com")
		r.Crawl = &model.CrawlResult{
			StartURL: "https://example.com",
			MaxPages: 50,
			Pages: []model.PageResult{
				{URL: "https://example.com/", Status: model.StatusSuccess, HTTPStatus: 200},
			},
			Summary: model.CrawlSummary{RobotsTxt: model.RobotsFound},
		}
		r.Crawl.Finalize()
		r.Finish()
		return r
	}

	t.Run("writes simple report to file", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "report.txt")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath

		if err := outputReport(cfg, newReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "SEOSCAN REPORT") {
			t.Error("expected simple report header")
		}
	})

	t.Run("writes JSON report to file", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "sub", "report.json")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath
		cfg.JSONReport = true

		if err := outputReport(cfg, newReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), `"start_url"`) {
			t.Error("expected JSON report content")
		}
	})

	t.Run("writes markdown report to file", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "report.md")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath
		cfg.MarkdownReport = true

		if err := outputReport(cfg, newReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# SEO Audit Report") {
			t.Error("expected markdown report heading")
		}
	})
}

// TestRunAuditCmd tests full audit command execution against a local server.
func TestRunAuditCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>A title sized well for search results</title>
<meta name="description" content="A description long enough to look reasonable in result snippets today.">
</head><body><h1>Welcome</h1><a href="/about">About</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>About</title></head><body><p>No heading.</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("audits a site and writes a report file", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "report.json")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"audit", "--no-save", "--json", "-o", outPath, srv.URL})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		out := string(content)
		if !strings.Contains(out, `"total_pages_crawled": 2`) {
			t.Errorf("expected 2 crawled pages in report, got: %s", out)
		}
		if !strings.Contains(out, `"module_reports"`) {
			t.Error("expected module reports in JSON output")
		}
	})

	t.Run("fails without targets", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"audit"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error when no targets are given")
		}
	})

	t.Run("fails for invalid target", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"audit", "--no-save", "://bad"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for invalid target URL")
		}
	})
}
