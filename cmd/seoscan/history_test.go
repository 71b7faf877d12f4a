package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/model"
)

// seedHistoryDB creates a database directory with one stored audit.
func seedHistoryDB(t *testing.T, site string) string {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	report := model.NewSiteReport(site)
	report.Crawl = &model.CrawlResult{
		StartURL: site,
		MaxPages: 50,
		Pages: []model.PageResult{
			{URL: site + "/", Status: model.StatusSuccess, HTTPStatus: 200, Depth: 0},
			{URL: site + "/missing", Status: model.StatusHTTPError, HTTPStatus: 404, Depth: 1, Error: "HTTP 404"},
		},
		Summary: model.CrawlSummary{Errors: 1, RobotsTxt: model.RobotsNotFound},
	}
	report.Crawl.Finalize()
	report.AddModuleReport(model.ModuleReport{
		Module: "title", PageURL: site + "/", Status: model.ModulePass, Issues: []model.Issue{},
	})
	report.AddModuleReport(model.ModuleReport{
		Module: "headings", PageURL: site + "/", Status: model.ModuleFail,
		Issues: []model.Issue{{Level: model.IssueError, Message: "page has no h1 element"}},
	})
	report.Finish()

	if err := db.SaveSiteReport(context.Background(), report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	return dbDir
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [site]" {
			t.Errorf("expected use 'history [site]', got %q", cmd.Use)
		}
	})

	t.Run("has pages and latest flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("pages") == nil {
			t.Error("expected pages flag")
		}
		if cmd.Flags().Lookup("latest") == nil {
			t.Error("expected latest flag")
		}
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Error("expected db-dir flag")
		}
	})
}

// TestRunHistoryCmd tests the history command execution.
func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("reports missing database", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No audit history found") {
			t.Errorf("expected missing history message, got %q", buf.String())
		}
	})

	t.Run("lists audited sites", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistoryDB(t, "https://example.com")

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "https://example.com") {
			t.Errorf("expected site listing, got %q", buf.String())
		}
	})

	t.Run("lists runs for a site", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistoryDB(t, "https://example.com")

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, "https://example.com"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "1 runs") {
			t.Errorf("expected one run listed, got %q", output)
		}
		if !strings.Contains(output, "pass: 1") || !strings.Contains(output, "fail: 1") {
			t.Errorf("expected verdict counts, got %q", output)
		}
	})

	t.Run("lists stored pages for a site", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistoryDB(t, "https://example.com")

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, "--pages", "https://example.com"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "https://example.com/missing") {
			t.Errorf("expected stored page URL, got %q", output)
		}
		if !strings.Contains(output, "HTTP 404") {
			t.Errorf("expected HTTP status in page listing, got %q", output)
		}
	})

	t.Run("reports unknown site", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistoryDB(t, "https://example.com")

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, "https://other.example"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No stored audits") {
			t.Errorf("expected no stored audits message, got %q", buf.String())
		}
	})
}
