package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "Show stored audit history",
		Long: `History lists audit runs stored in the local database.

Without arguments it lists every audited site. With a site URL it lists
that site's audit runs with their module verdict counts.

Examples:
  # List all audited sites
  seoscan history

  # Show audit runs for one site
  seoscan history https://example.com

  # Show the stored page outcomes for one site
  seoscan history --pages https://example.com

  # Print the most recent report for one site
  seoscan history --latest https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("pages", false,
		"Show stored per-page crawl outcomes for the site")
	cmd.Flags().Bool("latest", false,
		"Print the most recent stored report for the site")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// History never creates a database; no stored audits is a normal state.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit history found. Run `seoscan audit <url>` first.")
		return nil
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(args) == 0 {
		return listSites(cmd, db)
	}

	site, err := normalizeTarget(args[0])
	if err != nil {
		return err
	}

	showPages, err := cmd.Flags().GetBool("pages")
	if err != nil {
		return err
	}
	if showPages {
		return listPages(cmd, db, site)
	}

	showLatest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	if showLatest {
		latest, err := db.GetLatestSiteReport(ctx, site)
		if err != nil {
			return err
		}
		if latest == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No stored audits for %s\n", site)
			return nil
		}
		writer := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(getVerboseFlag(cmd)))
		_, err = writer.Write(latest)
		return err
	}

	return listRuns(cmd, db, site)
}

// listSites prints every site with stored audit reports.
func listSites(cmd *cobra.Command, db *database.AuditDB) error {
	sites, err := db.ListAuditedSites(cmd.Context())
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit history found. Run `seoscan audit <url>` first.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Audited sites (%d):\n", len(sites))
	for _, site := range sites {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", site)
	}
	return nil
}

// listRuns prints the audit runs for one site, most recent first.
func listRuns(cmd *cobra.Command, db *database.AuditDB, site string) error {
	metas, err := db.GetAuditHistoryWithMetadata(cmd.Context(), site)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored audits for %s\n", site)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Audit history for %s (%d runs):\n\n", site, len(metas))
	for _, meta := range metas {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  run %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"), meta.RunID)
		fmt.Fprintf(cmd.OutOrStdout(), "      pass: %d  warning: %d  fail: %d\n",
			meta.VerdictSummary["pass"],
			meta.VerdictSummary["warning"],
			meta.VerdictSummary["fail"],
		)
	}
	return nil
}

// listPages prints the stored per-page crawl outcomes for one site.
func listPages(cmd *cobra.Command, db *database.AuditDB, site string) error {
	records, err := db.ListPageRecords(cmd.Context(), site)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored pages for %s\n", site)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored pages for %s (%d):\n\n", site, len(records))
	for _, rec := range records {
		line := fmt.Sprintf("  [%s] %s (depth %d)", rec.Status, rec.URL, rec.Depth)
		if rec.HTTPStatus != 0 {
			line += fmt.Sprintf(" HTTP %d", rec.HTTPStatus)
		}
		if rec.Error != "" {
			line += fmt.Sprintf(" - %s", rec.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
