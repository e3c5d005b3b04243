package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/huapala"
	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/store"
	"github.com/huapala/huapala/internal/util"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the environment and configuration",
	Long: `Run diagnostic checks to ensure huapala can operate correctly.

This command checks:
- SQLite version
- Review database accessibility and integrity
- Suggestions file
- Record files (songs, people, songbook entries)
- Huapala API reachability

Use this command to troubleshoot issues before reviewing.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().Bool("skip-api", false, "Skip the API reachability check")
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	util.InfoLog("=== Huapala Doctor - System Diagnostics ===")
	util.InfoLog("")

	results := []checkResult{}

	// 1. Check SQLite
	results = append(results, checkSQLite())

	// 2. Check database file
	results = append(results, checkDatabase(viper.GetString("db")))

	// 3. Check suggestions
	results = append(results, checkSuggestions(viper.GetString("suggestions")))

	// 4. Check record files
	results = append(results, checkRecords("Songs", viper.GetString("songs"), func(p string) (int, error) {
		songs, err := archive.LoadSongs(p)
		return len(songs), err
	}))
	results = append(results, checkRecords("People", viper.GetString("people"), func(p string) (int, error) {
		people, err := archive.LoadPeople(p)
		return len(people), err
	}))
	results = append(results, checkRecords("Songbook entries", viper.GetString("entries"), func(p string) (int, error) {
		entries, err := archive.LoadEntries(p)
		return len(entries), err
	}))

	// 5. Check API
	if skip, _ := cmd.Flags().GetBool("skip-api"); !skip {
		results = append(results, checkAPI(cmd.Context(), newClient()))
	}

	// Print results
	util.InfoLog("")
	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	// Summary
	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("❌ Some critical checks failed. Please resolve errors before reviewing.")
		return fmt.Errorf("system diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("⚠️  Some checks produced warnings. Review them before proceeding.")
	} else {
		util.SuccessLog("✅ All checks passed!")
	}

	return nil
}

// checkSQLite verifies SQLite version
func checkSQLite() checkResult {
	// modernc.org/sqlite is built in; just verify it answers
	version := store.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}

	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkDatabase verifies the review database
func checkDatabase(dbPath string) checkResult {
	if dbPath == "" {
		return checkResult{
			name:    "Database",
			warning: true,
			message: "no database path specified (use --db flag or config)",
		}
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return checkResult{
				name:    "Database",
				message: fmt.Sprintf("%s (will be created on first decision)", dbPath),
			}
		}
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", dbPath, err),
		}
	}

	if !info.Mode().IsRegular() {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("%s is not a regular file", dbPath),
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot open %s: %v", dbPath, err),
		}
	}
	defer db.Close()

	if err := db.CheckIntegrity(); err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("integrity check failed: %v", err),
		}
	}

	overrides, err := db.Overrides().All(context.Background())
	if err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot read decisions: %v", err),
		}
	}

	invalid := 0
	for _, status := range overrides {
		if !linkage.Status(status).Valid() {
			invalid++
		}
	}

	result := checkResult{
		name:    "Database",
		message: fmt.Sprintf("%s (%s, %d saved decisions)", dbPath, humanize.Bytes(uint64(info.Size())), len(overrides)),
	}
	if invalid > 0 {
		result.warning = true
		result.message += fmt.Sprintf(", %d with unknown status (ignored)", invalid)
	}
	return result
}

// checkSuggestions verifies the suggestions file parses
func checkSuggestions(path string) checkResult {
	if path == "" {
		return checkResult{
			name:    "Suggestions",
			warning: true,
			message: "no suggestions file specified (use --suggestions flag or config)",
		}
	}

	linkages, err := linkage.FileSource{Path: path}.Suggestions(context.Background())
	if err != nil {
		return checkResult{
			name:    "Suggestions",
			error:   true,
			message: err.Error(),
		}
	}

	stats := linkage.Summarize(linkages)
	return checkResult{
		name:    "Suggestions",
		message: fmt.Sprintf("%s (%d linkages, %d high confidence)", path, stats.Total, stats.HighConfidence),
	}
}

// checkRecords verifies an optional record file loads
func checkRecords(name, path string, load func(string) (int, error)) checkResult {
	if path == "" {
		return checkResult{
			name:    name,
			message: "not configured (optional)",
		}
	}

	n, err := load(path)
	if err != nil {
		return checkResult{
			name:    name,
			error:   true,
			message: err.Error(),
		}
	}

	return checkResult{
		name:    name,
		message: fmt.Sprintf("%s (%s records)", path, humanize.Comma(int64(n))),
	}
}

// checkAPI verifies the Huapala API answers. Approvals are still saved
// locally when it does not, so this is only a warning.
func checkAPI(ctx context.Context, client *huapala.Client) checkResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		return checkResult{
			name:    "Huapala API",
			warning: true,
			message: fmt.Sprintf("%s unreachable: %v", client.BaseURL(), err),
		}
	}

	return checkResult{
		name:    "Huapala API",
		message: fmt.Sprintf("%s (%s)", client.BaseURL(), time.Since(start).Round(time.Millisecond)),
	}
}
