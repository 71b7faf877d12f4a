package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seoscan/seoscan/internal/model"
)

// AuditDB provides SQLite-based storage for crawl records and audit reports.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file shared by all audited sites
// rather than one file per site. This keeps history queries across sites
// simple and makes backup/restore a single-file operation.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "seoscan.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY errors under concurrent batch audits.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Page records store the outcome of individual page crawls
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		site TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL,
		http_status INTEGER,
		depth INTEGER,
		error TEXT,
		UNIQUE(url, site)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_site ON pages(site);
	CREATE INDEX IF NOT EXISTS idx_pages_timestamp ON pages(timestamp);

	-- Audit reports store complete site audit results as JSON
	CREATE TABLE IF NOT EXISTS audit_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		site TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		verdict_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_site ON audit_reports(site);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON audit_reports(timestamp);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// PageRecord represents a stored page crawl outcome.
type PageRecord struct {
	ID         int64
	URL        string
	Site       string
	Timestamp  time.Time
	Status     model.PageStatus
	HTTPStatus int
	Depth      int
	Error      string
}

// InsertPageRecord inserts or updates a page record.
// Uses UPSERT to handle duplicates (same URL + site).
func (adb *AuditDB) InsertPageRecord(ctx context.Context, record *PageRecord) (int64, error) {
	query := `
	INSERT INTO pages (url, site, status, http_status, depth, error)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, site) DO UPDATE SET
		status = excluded.status,
		http_status = excluded.http_status,
		depth = excluded.depth,
		error = excluded.error,
		timestamp = CURRENT_TIMESTAMP
	`

	result, err := adb.db.ExecContext(ctx, query,
		record.URL,
		record.Site,
		string(record.Status),
		record.HTTPStatus,
		record.Depth,
		record.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert page record: %w", err)
	}

	return result.LastInsertId()
}

// GetPageRecord retrieves a page record by URL and site.
func (adb *AuditDB) GetPageRecord(ctx context.Context, url, site string) (*PageRecord, error) {
	query := `
	SELECT id, url, site, timestamp, status, http_status, depth, error
	FROM pages
	WHERE url = ? AND site = ?
	`

	var record PageRecord
	var status string
	var timestamp string

	err := adb.db.QueryRowContext(ctx, query, url, site).Scan(
		&record.ID,
		&record.URL,
		&record.Site,
		&timestamp,
		&status,
		&record.HTTPStatus,
		&record.Depth,
		&record.Error,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page record: %w", err)
	}

	record.Status = model.PageStatus(status)
	record.Timestamp = parseTimestamp(timestamp)

	return &record, nil
}

// ListPageRecords returns all stored page records for a site, most recently
// crawled first.
func (adb *AuditDB) ListPageRecords(ctx context.Context, site string) ([]PageRecord, error) {
	query := `
	SELECT id, url, site, timestamp, status, http_status, depth, error
	FROM pages
	WHERE site = ?
	ORDER BY timestamp DESC, url
	`

	rows, err := adb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to list page records: %w", err)
	}
	defer rows.Close()

	var results []PageRecord
	for rows.Next() {
		var record PageRecord
		var status string
		var timestamp string

		err := rows.Scan(
			&record.ID,
			&record.URL,
			&record.Site,
			&timestamp,
			&status,
			&record.HTTPStatus,
			&record.Depth,
			&record.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page record: %w", err)
		}

		record.Status = model.PageStatus(status)
		record.Timestamp = parseTimestamp(timestamp)
		results = append(results, record)
	}

	return results, rows.Err()
}

// SaveSiteReport saves a complete site report as JSON and records the
// per-page crawl outcomes in the pages table.
func (adb *AuditDB) SaveSiteReport(ctx context.Context, report *model.SiteReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	// Verdict summary keeps history listings cheap: counts only, no full
	// report deserialization.
	verdicts := map[string]int{
		"pass":    0,
		"warning": 0,
		"fail":    0,
	}
	for _, mr := range report.ModuleReports {
		switch mr.Status {
		case model.ModulePass:
			verdicts["pass"]++
		case model.ModuleWarning:
			verdicts["warning"]++
		case model.ModuleFail:
			verdicts["fail"]++
		}
	}
	verdictJSON, _ := json.Marshal(verdicts) //nolint:errcheck,errchkjson // verdicts is a simple map; Marshal won't fail

	query := `
	INSERT INTO audit_reports (run_id, site, report_json, verdict_summary)
	VALUES (?, ?, ?, ?)
	`

	_, err = adb.db.ExecContext(ctx, query,
		report.RunID,
		report.StartURL,
		string(reportJSON),
		string(verdictJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save site report: %w", err)
	}

	if report.Crawl == nil {
		return nil
	}
	for i := range report.Crawl.Pages {
		page := &report.Crawl.Pages[i]
		record := &PageRecord{
			URL:        page.URL,
			Site:       report.StartURL,
			Status:     page.Status,
			HTTPStatus: page.HTTPStatus,
			Depth:      page.Depth,
			Error:      page.Error,
		}
		if _, err := adb.InsertPageRecord(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// GetLatestSiteReport retrieves the most recent site report for a site.
// Returns nil without error when the site has never been audited.
func (adb *AuditDB) GetLatestSiteReport(ctx context.Context, site string) (*model.SiteReport, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE site = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, site).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site report: %w", err)
	}

	var report model.SiteReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListAuditedSites returns a list of all sites with stored audit reports.
func (adb *AuditDB) ListAuditedSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT site FROM audit_reports
	ORDER BY site
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// GetAuditHistory retrieves all audit reports for a site, most recent first.
func (adb *AuditDB) GetAuditHistory(ctx context.Context, site string) ([]*model.SiteReport, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE site = ?
	ORDER BY timestamp DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var reports []*model.SiteReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.SiteReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// AuditReportMetadata contains summary information about an audit report.
// This is used for displaying audit history without loading the full report.
type AuditReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// RunID is the audit run identifier embedded in the report.
	RunID string

	// Site is the audited site's seed URL.
	Site string

	// Timestamp is when the audit was performed.
	Timestamp time.Time

	// VerdictSummary contains module report counts by verdict.
	VerdictSummary map[string]int
}

// GetAuditHistoryWithMetadata retrieves audit report metadata for a site.
// This is more efficient than GetAuditHistory when only metadata is needed.
func (adb *AuditDB) GetAuditHistoryWithMetadata(ctx context.Context, site string) ([]AuditReportMetadata, error) {
	query := `
	SELECT id, run_id, site, timestamp, verdict_summary
	FROM audit_reports
	WHERE site = ?
	ORDER BY timestamp DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var results []AuditReportMetadata
	for rows.Next() {
		var meta AuditReportMetadata
		var timestamp string
		var verdictJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.RunID, &meta.Site, &timestamp, &verdictJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if verdictJSON.Valid && verdictJSON.String != "" {
			if err := json.Unmarshal([]byte(verdictJSON.String), &meta.VerdictSummary); err != nil {
				meta.VerdictSummary = make(map[string]int)
			}
		} else {
			meta.VerdictSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetSiteReportByID retrieves a site report by its database ID.
func (adb *AuditDB) GetSiteReportByID(ctx context.Context, id int64) (*model.SiteReport, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE id = ?
	`

	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site report: %w", err)
	}

	var report model.SiteReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
