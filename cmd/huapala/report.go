package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/huapala/huapala/internal/report"
	"github.com/huapala/huapala/internal/util"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a Markdown report of the linkage review",
	Long: `Generate a review summary report in Markdown format.

The report includes:
- Overall review progress
- Progress per confidence band
- Progress per songbook
- Approved linkages, best matches first
- Saved decision counts from the review database

The report is saved to artifacts/reports/<timestamp>/review.md`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("out", "", "Output directory for report (default: artifacts/reports/<timestamp>)")
	reportCmd.Flags().Int("max-approved", 200, "Maximum approved linkages to list (0 = all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	util.InfoLog("=== Generating Review Report ===")

	session, err := openReview(ctx, true)
	if err != nil {
		return err
	}
	defer session.Close()

	maxApproved, _ := cmd.Flags().GetInt("max-approved")
	reviewReport := report.GenerateReviewReport(session.review.Linkages(), maxApproved)
	reviewReport.SuggestionsPath = session.suggestions
	reviewReport.DatabasePath = session.dbPath

	counts, err := session.db.CountOverridesByStatus(ctx)
	if err != nil {
		util.WarnLog("Failed to count saved decisions: %v", err)
	} else {
		reviewReport.Overrides = counts
	}

	outputDir, _ := cmd.Flags().GetString("out")
	if outputDir == "" {
		timestamp := time.Now().Format("20060102-150405")
		outputDir = filepath.Join("artifacts", "reports", timestamp)
	}
	outputPath := filepath.Join(outputDir, "review.md")

	util.InfoLog("Writing report to: %s", outputPath)
	if err := report.WriteMarkdownReport(reviewReport, outputPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	util.SuccessLog("Report generated successfully!")
	util.InfoLog("")
	util.InfoLog("Summary:")
	util.InfoLog("  Suggestions: %d", reviewReport.Stats.Total)
	util.InfoLog("  Approved: %d", reviewReport.Stats.Approved)
	util.InfoLog("  Rejected: %d", reviewReport.Stats.Rejected)
	if reviewReport.Stats.Pending > 0 {
		util.WarnLog("  Pending review: %d", reviewReport.Stats.Pending)
	}

	return nil
}
