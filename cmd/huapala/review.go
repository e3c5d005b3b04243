package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/util"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review suggested song to songbook entry linkages",
	Long: `Review the linkages suggested by the songbook matcher.

Suggestions are read from --suggestions. Every decision is saved in the
review database (--db) and layered over the suggestions on the next load,
so decisions survive regenerating the suggestions file. Approving a
linkage also links the entry to the song through the Huapala API unless
--offline is given.`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List linkages, optionally filtered by status, confidence or text",
	RunE:  runReviewList,
}

var reviewSetCmd = &cobra.Command{
	Use:   "set <key> <status>",
	Short: "Set the review status of a linkage",
	Long: `Set the review status of a linkage identified by "{songId}-{entryId}".

Status is one of suggested, pending, approved or rejected. Any status may
be changed to any other, so mistakes can be undone by setting the linkage
back to suggested.`,
	Args: cobra.ExactArgs(2),
	RunE: runReviewSet,
}

var reviewStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review progress",
	RunE:  runReviewStats,
}

var reviewOverridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Show or clear the saved review decisions",
	RunE:  runReviewOverrides,
}

var reviewApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Link every approved entry to its song through the API",
	Long: `Push all approved linkages to the Huapala API.

Use this after reviewing offline, or to retry approvals whose link request
failed. Failures are reported per linkage and do not stop the batch.`,
	RunE: runReviewApply,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd, reviewSetCmd, reviewStatsCmd, reviewOverridesCmd, reviewApplyCmd)

	reviewCmd.PersistentFlags().Bool("offline", false, "record approvals without calling the API")

	reviewListCmd.Flags().StringP("status", "s", "all", "status filter: all, suggested, pending, approved, rejected")
	reviewListCmd.Flags().String("confidence", "all", "confidence filter: all, high, medium, low")
	reviewListCmd.Flags().StringP("text", "t", "", "text filter on titles, songbook and composer")
	reviewListCmd.Flags().IntP("limit", "n", 0, "maximum number of linkages to show (0 = all)")

	reviewOverridesCmd.Flags().Bool("clear", false, "delete all saved decisions")

	reviewApplyCmd.Flags().Bool("dry-run", false, "list the approved linkages without calling the API")
}

func runReviewList(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	confidence, _ := cmd.Flags().GetString("confidence")
	text, _ := cmd.Flags().GetString("text")
	limit, _ := cmd.Flags().GetInt("limit")

	criteria, err := linkage.ParseCriteria(status, confidence, text)
	if err != nil {
		return err
	}

	session, err := openReview(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer session.Close()

	linkages := session.review.Filter(criteria)
	shown := linkages
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	printLinkages(cmd.OutOrStdout(), shown, util.GetTerminalWidth())
	util.InfoLog("Showing %d of %d matching linkages (%d total)", len(shown), len(linkages), len(session.review.Linkages()))
	return nil
}

func runReviewSet(cmd *cobra.Command, args []string) error {
	key, err := linkage.ParseKey(args[0])
	if err != nil {
		return err
	}
	status, err := linkage.ParseStatus(args[1])
	if err != nil {
		return err
	}

	offline, _ := cmd.Flags().GetBool("offline")
	session, err := openReview(cmd.Context(), offline)
	if err != nil {
		return err
	}
	defer session.Close()

	err = session.review.SetStatus(cmd.Context(), key, status)

	var notifyErr *linkage.NotificationError
	switch {
	case err == nil:
		util.SuccessLog("%s -> %s", key, status)
	case errors.As(err, &notifyErr):
		util.WarnLog("%s -> %s saved, but linking through the API failed: %v", key, status, notifyErr.Err)
		util.WarnLog("Run 'huapala review apply' to retry")
	default:
		return err
	}

	return nil
}

func runReviewStats(cmd *cobra.Command, args []string) error {
	session, err := openReview(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer session.Close()

	printStats(cmd.OutOrStdout(), session.review.Stats())
	return nil
}

func runReviewOverrides(cmd *cobra.Command, args []string) error {
	clearAll, _ := cmd.Flags().GetBool("clear")
	dbPath := GetConfigString("db", "huapala-review.db")

	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if clearAll {
		n, err := db.ClearOverrides(cmd.Context())
		if err != nil {
			return err
		}
		util.SuccessLog("Cleared %d saved decisions", n)
		return nil
	}

	overrides, err := db.ListOverrides(cmd.Context())
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		util.InfoLog("No saved decisions in %s", dbPath)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, o := range overrides {
		fmt.Fprintf(out, "%-10s %-40s %s\n", o.Status, o.Key, humanize.Time(o.UpdatedAt))
	}
	util.InfoLog("%d saved decisions in %s", len(overrides), dbPath)
	return nil
}

func runReviewApply(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	session, err := openReview(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer session.Close()

	approved := session.review.Approved()
	if len(approved) == 0 {
		util.InfoLog("No approved linkages to apply")
		return nil
	}

	if dryRun {
		printLinkages(cmd.OutOrStdout(), approved, util.GetTerminalWidth())
		util.InfoLog("Dry run: %d approved linkages would be applied", len(approved))
		return nil
	}

	client := newClient()
	util.InfoLog("Applying %d approved linkages to %s", len(approved), client.BaseURL())

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stderr.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(approved),
			progressbar.OptionSetDescription("Linking"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	result, err := linkage.ApplyApproved(cmd.Context(), client, approved, func(done, total int) {
		if bar != nil {
			bar.Set(done)
		}
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	for _, f := range result.Failures {
		util.ErrorLog("%s: %v", f.Key, f.Err)
	}
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d linkages failed", len(result.Failures), len(approved))
	}

	util.SuccessLog("Linked %d songbook entries", result.Applied)
	return nil
}

func printLinkages(w io.Writer, linkages []linkage.Linkage, width int) {
	titleWidth := (width - 40) / 2
	if titleWidth < 12 {
		titleWidth = 12
	}

	for _, l := range linkages {
		fmt.Fprintf(w, "%-9s %-6s %.2f  %-*s  %-*s  %s\n",
			l.Status, l.Band(), l.SimilarityScore,
			titleWidth, util.Truncate(l.SongTitle, titleWidth),
			titleWidth, util.Truncate(l.EntryTitle+" / "+l.SongbookName, titleWidth),
			l.Key())
	}
}

func printStats(w io.Writer, s linkage.Stats) {
	fmt.Fprintf(w, "Total:           %s\n", humanize.Comma(int64(s.Total)))
	fmt.Fprintf(w, "Approved:        %s\n", humanize.Comma(int64(s.Approved)))
	fmt.Fprintf(w, "Rejected:        %s\n", humanize.Comma(int64(s.Rejected)))
	fmt.Fprintf(w, "Pending review:  %s\n", humanize.Comma(int64(s.Pending)))
	fmt.Fprintf(w, "High confidence: %s\n", humanize.Comma(int64(s.HighConfidence)))
}
