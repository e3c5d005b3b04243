package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/huapala/huapala/internal/linkage"
)

func setupReviewConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	suggestions := filepath.Join(dir, "suggested_linkages.json")
	data := `[
	  {"canonical_mele_id":"aloha_oe","song_title_matched":"Aloha ʻOe","songbook_entry_title":"ALOHA OE","songbook_name":"King's Songs","similarity_score":0.97,"songbook_entry_id":1},
	  {"canonical_mele_id":"hiilawe","song_title_matched":"Hiʻilawe","songbook_entry_title":"HIILAWE","songbook_name":"King's Songs","similarity_score":0.84,"songbook_entry_id":2}
	]`
	if err := os.WriteFile(suggestions, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write suggestions: %v", err)
	}

	viper.Reset()
	viper.Set("suggestions", suggestions)
	viper.Set("db", filepath.Join(dir, "review.db"))
	t.Cleanup(viper.Reset)
	return dir
}

func TestOpenReviewPersistsDecisions(t *testing.T) {
	setupReviewConfig(t)
	ctx := context.Background()

	session, err := openReview(ctx, true)
	if err != nil {
		t.Fatalf("openReview failed: %v", err)
	}
	key := linkage.Key{SongID: "hiilawe", EntryID: 2}
	if err := session.review.SetStatus(ctx, key, linkage.StatusRejected); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	session.Close()

	session, err = openReview(ctx, true)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer session.Close()

	if l, _ := session.review.Get(key); l.Status != linkage.StatusRejected {
		t.Errorf("decision not restored: %q", l.Status)
	}
}

func TestOpenReviewRequiresSuggestions(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if _, err := openReview(context.Background(), true); err == nil {
		t.Error("expected error without suggestions")
	}
}

func TestPrintLinkagesAndStats(t *testing.T) {
	linkages := []linkage.Linkage{
		{SongID: "aloha_oe", EntryID: 1, SongTitle: "Aloha ʻOe", EntryTitle: "ALOHA OE", SongbookName: "King's Songs", SimilarityScore: 0.97, Status: linkage.StatusApproved},
	}

	var buf bytes.Buffer
	printLinkages(&buf, linkages, 100)
	line := buf.String()
	for _, want := range []string{"approved", "high", "0.97", "Aloha ʻOe", "aloha_oe-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("linkage line %q missing %q", line, want)
		}
	}

	buf.Reset()
	printStats(&buf, linkage.Summarize(linkages))
	if !strings.Contains(buf.String(), "Approved:        1") {
		t.Errorf("unexpected stats output %q", buf.String())
	}
}
