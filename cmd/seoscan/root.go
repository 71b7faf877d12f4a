// Package main provides the entry point for the SEOScan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SEOScan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoscan",
		Short: "On-site SEO auditing tool",
		Long: `SEOScan audits websites for technical SEO issues.

It crawls a site breadth-first within its origin, honoring robots.txt and
skipping crawler traps, then checks every fetched page for SEO problems:
missing or poorly sized titles and meta descriptions, broken heading
hierarchies, and images without alt text.

Audit results can be printed as text, JSON, or Markdown, and are stored in
a local history database for comparison across runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
