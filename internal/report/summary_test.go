package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huapala/huapala/internal/linkage"
)

func testLinkages() []linkage.Linkage {
	return []linkage.Linkage{
		{SongID: "adios", EntryID: 1, SongTitle: "Adios Ke Aloha", EntryTitle: "ADIOS KE ALOHA", SongbookName: "King's Songs", Page: 12, SimilarityScore: 0.95, Status: linkage.StatusApproved},
		{SongID: "hiilawe", EntryID: 2, SongTitle: "Hiʻilawe", EntryTitle: "Hiilawe", SongbookName: "King's Songs", SimilarityScore: 0.85, Status: linkage.StatusSuggested},
		{SongID: "waikiki", EntryID: 3, SongTitle: "Waikīkī", EntryTitle: "Waikiki", SongbookName: "Johnny Noble Folio", SimilarityScore: 0.99, Status: linkage.StatusApproved},
		{SongID: "maile", EntryID: 4, SongTitle: "Maile Swing", EntryTitle: "Maile", SongbookName: "King's Songs", SimilarityScore: 0.60, Status: linkage.StatusRejected},
		{SongID: "kaimana", EntryID: 5, SongTitle: "Kaimana Hila", EntryTitle: "Kaimana Hila", SimilarityScore: 0.82, Status: linkage.StatusPending},
	}
}

func TestGenerateReviewReport(t *testing.T) {
	report := GenerateReviewReport(testLinkages(), 0)

	expected := linkage.Stats{Total: 5, Approved: 2, Rejected: 1, Pending: 2, HighConfidence: 2}
	if report.Stats != expected {
		t.Errorf("Stats = %+v, expected %+v", report.Stats, expected)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("Expected GeneratedAt to be set")
	}

	if len(report.Bands) != 3 {
		t.Fatalf("expected 3 bands, got %d", len(report.Bands))
	}
	if report.Bands[0].Band != linkage.BandHigh || report.Bands[0].Stats.Total != 2 {
		t.Errorf("unexpected high band: %+v", report.Bands[0])
	}
	if report.Bands[1].Stats.Total != 2 || report.Bands[2].Stats.Total != 1 {
		t.Errorf("unexpected medium/low bands: %+v", report.Bands[1:])
	}

	if len(report.Songbooks) != 3 {
		t.Fatalf("expected 3 songbooks, got %d", len(report.Songbooks))
	}
	if report.Songbooks[0].Name != "King's Songs" || report.Songbooks[0].Stats.Total != 3 {
		t.Errorf("songbooks not sorted by size: %+v", report.Songbooks)
	}
	if report.Songbooks[1].Name != "(unknown songbook)" {
		t.Errorf("expected ties ordered by name, got %+v", report.Songbooks)
	}

	if len(report.Approved) != 2 || report.Approved[0].SongID != "waikiki" {
		t.Errorf("approved not sorted by score: %+v", report.Approved)
	}

	limited := GenerateReviewReport(testLinkages(), 1)
	if len(limited.Approved) != 1 {
		t.Errorf("expected approved list limited to 1, got %d", len(limited.Approved))
	}
}

func TestWriteMarkdownReport(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "reports", "review.md")

	report := GenerateReviewReport(testLinkages(), 0)
	report.SuggestionsPath = "suggested_linkages.json"
	report.Overrides = map[string]int{"approved": 2, "rejected": 1}

	if err := WriteMarkdownReport(report, outputPath); err != nil {
		t.Fatalf("WriteMarkdownReport failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	md := string(content)

	expectedSections := []string{
		"# Huapala - Linkage Review Report",
		"## 📊 Overview",
		"| Total Suggestions | 5 |",
		"| Reviewed | 60.0% |",
		"## 🎯 Confidence Bands",
		"| high | 2 | 2 | 0 | 0 |",
		"## 📚 Songbooks",
		"## ✅ Approved Linkages",
		"Waikīkī (`waikiki`)",
		"| 12 | 0.95 |",
		"## 💾 Saved Decisions",
		"| approved | 2 |",
		"`suggested_linkages.json`",
	}
	for _, section := range expectedSections {
		if !strings.Contains(md, section) {
			t.Errorf("Expected report to contain %q", section)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	md := RenderMarkdown(GenerateReviewReport(nil, 0))

	if !strings.Contains(md, "| Reviewed | 0% |") {
		t.Error("expected 0% reviewed for empty session")
	}
	for _, section := range []string{"Confidence Bands", "Songbooks", "Approved Linkages", "Saved Decisions"} {
		if strings.Contains(md, section) {
			t.Errorf("empty report should not contain %q", section)
		}
	}
}
