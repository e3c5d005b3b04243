package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/huapala"
	"github.com/huapala/huapala/internal/search"
	"github.com/huapala/huapala/internal/util"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search songs, people or songbook entries",
	Long: `Search archive records with Hawaiian-aware matching.

The query and the searched fields are normalized before matching, so
"hawaii" finds "Hawaiʻi" and "haleakala" finds "Haleakalā". An empty query
lists every record. Results are laid out in columns like the web list
views; use --columns to override the terminal-based default.

Kinds:
  songs    canonical songs (--songs file)
  people   composers and contributors (--people file)
  entries  songbook entries (--entries file, or the API with --remote)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("kind", "k", "songs", "record kind: songs, people or entries")
	searchCmd.Flags().IntP("columns", "c", 0, "number of columns (0 = fit terminal)")
	searchCmd.Flags().Bool("remote", false, "fetch songbook entries from the API instead of --entries")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	kind, _ := cmd.Flags().GetString("kind")
	columns, _ := cmd.Flags().GetInt("columns")
	remote, _ := cmd.Flags().GetBool("remote")

	width := util.GetTerminalWidth()
	if columns <= 0 {
		columns = autoColumns(width)
	}
	out := cmd.OutOrStdout()

	switch strings.ToLower(kind) {
	case "songs", "song":
		path, err := util.RequirePath("songs")
		if err != nil {
			return err
		}
		songs, err := archive.LoadSongs(path)
		if err != nil {
			return err
		}
		return printSearch(out, songs, archive.SongFields, query, columns, width, songLabel)

	case "people", "person":
		path, err := util.RequirePath("people")
		if err != nil {
			return err
		}
		people, err := archive.LoadPeople(path)
		if err != nil {
			return err
		}
		return printSearch(out, people, archive.PersonFields, query, columns, width, personLabel)

	case "entries", "entry":
		var entries []archive.SongbookEntry
		if remote {
			client := newClient()
			util.InfoLog("Fetching songbook entries from %s", client.BaseURL())
			var err error
			entries, err = client.Entries(cmd.Context(), huapala.EntryQuery{})
			if err != nil {
				return fmt.Errorf("failed to fetch entries: %w", err)
			}
		} else {
			path, err := util.RequirePath("entries")
			if err != nil {
				return err
			}
			entries, err = archive.LoadEntries(path)
			if err != nil {
				return err
			}
		}
		return printSearch(out, entries, archive.EntryFields, query, columns, width, entryLabel)
	}

	return fmt.Errorf("unknown kind %q (expected songs, people or entries)", kind)
}

// autoColumns mirrors the list views: three columns on wide screens, two
// on medium ones, one otherwise
func autoColumns(width int) int {
	switch {
	case width >= 120:
		return 3
	case width >= 80:
		return 2
	default:
		return 1
	}
}

func printSearch[T search.Searchable](w io.Writer, records []T, fields []string, query string, columns, width int, label func(T) string) error {
	idx := search.New[T](fields...)
	idx.SetRecords(records)
	idx.SetQuery(query)

	results := idx.Results()
	if len(results) == 0 {
		util.WarnLog("No matches for %q", query)
		return nil
	}

	printColumns(w, search.Distribute(results, columns), width, label)
	util.InfoLog("%d of %d records", len(results), idx.Len())
	return nil
}

// printColumns prints the column layout row by row, each cell truncated
// to its share of the terminal width
func printColumns[T any](w io.Writer, cols [][]T, width int, label func(T) string) {
	if len(cols) == 0 {
		return
	}
	cellWidth := width/len(cols) - 2
	if cellWidth < 10 {
		cellWidth = 10
	}

	for row := 0; row < len(cols[0]); row++ {
		var line strings.Builder
		for c, col := range cols {
			if row >= len(col) {
				break
			}
			cell := util.Truncate(label(col[row]), cellWidth)
			if c < len(cols)-1 {
				cell = fmt.Sprintf("%-*s  ", cellWidth, cell)
			}
			line.WriteString(cell)
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func songLabel(s archive.Song) string {
	label := s.TitleHawaiian
	if label == "" {
		label = s.TitleEnglish
	}
	return fmt.Sprintf("%s (%s)", label, s.ComposerOrUnknown())
}

func personLabel(p archive.Person) string {
	if p.PrimaryRole == "" {
		return p.Name()
	}
	return fmt.Sprintf("%s (%s)", p.Name(), p.PrimaryRole)
}

func entryLabel(e archive.SongbookEntry) string {
	label := e.PrintedSongTitle
	if e.PubYear != nil {
		return fmt.Sprintf("%s - %s, %d", label, e.SongbookName, *e.PubYear)
	}
	return fmt.Sprintf("%s - %s", label, e.SongbookName)
}
