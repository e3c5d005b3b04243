package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/util"
)

// ReviewReport summarizes the state of a linkage review session
type ReviewReport struct {
	GeneratedAt time.Time

	Stats     linkage.Stats
	Bands     []BandSummary
	Songbooks []SongbookSummary
	Approved  []linkage.Linkage

	// Persisted override counts per status
	Overrides map[string]int

	// Metadata
	SuggestionsPath string
	DatabasePath    string
}

// BandSummary is the review progress within one confidence band
type BandSummary struct {
	Band  linkage.Band
	Stats linkage.Stats
}

// SongbookSummary is the review progress for one songbook
type SongbookSummary struct {
	Name  string
	Stats linkage.Stats
}

// GenerateReviewReport builds a report from the effective linkages.
// maxApproved limits the approved list; 0 means no limit.
func GenerateReviewReport(linkages []linkage.Linkage, maxApproved int) *ReviewReport {
	report := &ReviewReport{
		GeneratedAt: time.Now(),
		Stats:       linkage.Summarize(linkages),
		Bands:       make([]BandSummary, 0, len(linkage.Bands)),
		Songbooks:   make([]SongbookSummary, 0),
		Approved:    make([]linkage.Linkage, 0),
	}

	byBand := make(map[linkage.Band][]linkage.Linkage)
	bySongbook := make(map[string][]linkage.Linkage)
	for _, l := range linkages {
		byBand[l.Band()] = append(byBand[l.Band()], l)

		name := l.SongbookName
		if name == "" {
			name = "(unknown songbook)"
		}
		bySongbook[name] = append(bySongbook[name], l)

		if l.Status == linkage.StatusApproved {
			report.Approved = append(report.Approved, l)
		}
	}

	for _, band := range linkage.Bands {
		report.Bands = append(report.Bands, BandSummary{Band: band, Stats: linkage.Summarize(byBand[band])})
	}

	for name, ls := range bySongbook {
		report.Songbooks = append(report.Songbooks, SongbookSummary{Name: name, Stats: linkage.Summarize(ls)})
	}

	// Most suggestions first, then by name for stable output
	sort.Slice(report.Songbooks, func(i, j int) bool {
		a, b := report.Songbooks[i], report.Songbooks[j]
		if a.Stats.Total != b.Stats.Total {
			return a.Stats.Total > b.Stats.Total
		}
		return a.Name < b.Name
	})

	sort.SliceStable(report.Approved, func(i, j int) bool {
		return report.Approved[i].SimilarityScore > report.Approved[j].SimilarityScore
	})
	if maxApproved > 0 && len(report.Approved) > maxApproved {
		report.Approved = report.Approved[:maxApproved]
	}

	return report
}

// WriteMarkdownReport writes the review report as Markdown
func WriteMarkdownReport(report *ReviewReport, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(RenderMarkdown(report)), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// RenderMarkdown renders the review report as Markdown
func RenderMarkdown(report *ReviewReport) string {
	var md strings.Builder

	// Header
	md.WriteString("# Huapala - Linkage Review Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))

	if report.SuggestionsPath != "" {
		md.WriteString(fmt.Sprintf("**Suggestions:** `%s`\n\n", report.SuggestionsPath))
	}
	if report.DatabasePath != "" {
		md.WriteString(fmt.Sprintf("**Database:** `%s`\n\n", report.DatabasePath))
	}

	md.WriteString("---\n\n")

	// Overview
	s := report.Stats
	md.WriteString("## 📊 Overview\n\n")
	md.WriteString("| Metric | Value |\n")
	md.WriteString("|--------|-------|\n")
	md.WriteString(fmt.Sprintf("| Total Suggestions | %s |\n", humanize.Comma(int64(s.Total))))
	md.WriteString(fmt.Sprintf("| Approved | %s |\n", humanize.Comma(int64(s.Approved))))
	md.WriteString(fmt.Sprintf("| Rejected | %s |\n", humanize.Comma(int64(s.Rejected))))
	md.WriteString(fmt.Sprintf("| Pending Review | %s |\n", humanize.Comma(int64(s.Pending))))
	md.WriteString(fmt.Sprintf("| High Confidence | %s |\n", humanize.Comma(int64(s.HighConfidence))))
	md.WriteString(fmt.Sprintf("| Reviewed | %s |\n", percent(s.Approved+s.Rejected, s.Total)))
	md.WriteString("\n")

	// Confidence bands
	if s.Total > 0 {
		md.WriteString("## 🎯 Confidence Bands\n\n")
		md.WriteString("| Band | Total | Approved | Rejected | Pending |\n")
		md.WriteString("|------|-------|----------|----------|---------|\n")
		for _, b := range report.Bands {
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n", b.Band,
				humanize.Comma(int64(b.Stats.Total)),
				humanize.Comma(int64(b.Stats.Approved)),
				humanize.Comma(int64(b.Stats.Rejected)),
				humanize.Comma(int64(b.Stats.Pending))))
		}
		md.WriteString("\n")
	}

	// Songbooks
	if len(report.Songbooks) > 0 {
		md.WriteString("## 📚 Songbooks\n\n")
		md.WriteString("| Songbook | Total | Approved | Rejected | Pending |\n")
		md.WriteString("|----------|-------|----------|----------|---------|\n")
		for _, sb := range report.Songbooks {
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				escapeCell(util.Truncate(sb.Name, 60)),
				humanize.Comma(int64(sb.Stats.Total)),
				humanize.Comma(int64(sb.Stats.Approved)),
				humanize.Comma(int64(sb.Stats.Rejected)),
				humanize.Comma(int64(sb.Stats.Pending))))
		}
		md.WriteString("\n")
	}

	// Approved linkages
	if len(report.Approved) > 0 {
		md.WriteString("## ✅ Approved Linkages\n\n")
		md.WriteString("| Song | Songbook Entry | Songbook | Page | Score |\n")
		md.WriteString("|------|----------------|----------|------|-------|\n")
		for _, l := range report.Approved {
			page := ""
			if l.Page > 0 {
				page = fmt.Sprintf("%d", l.Page)
			}
			md.WriteString(fmt.Sprintf("| %s (`%s`) | %s (#%d) | %s | %s | %.2f |\n",
				escapeCell(util.Truncate(l.SongTitle, 40)), l.SongID,
				escapeCell(util.Truncate(l.EntryTitle, 40)), l.EntryID,
				escapeCell(util.Truncate(l.SongbookName, 40)),
				page, l.SimilarityScore))
		}
		md.WriteString("\n")
	}

	// Persisted overrides
	if len(report.Overrides) > 0 {
		md.WriteString("## 💾 Saved Decisions\n\n")
		md.WriteString("| Status | Count |\n")
		md.WriteString("|--------|-------|\n")
		for _, status := range linkage.Statuses {
			if n, ok := report.Overrides[string(status)]; ok {
				md.WriteString(fmt.Sprintf("| %s | %s |\n", status, humanize.Comma(int64(n))))
			}
		}
		md.WriteString("\n")
	}

	// Footer
	md.WriteString("---\n\n")
	md.WriteString("*Generated by huapala*\n")

	return md.String()
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
