package huapala

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/util"
)

var _ linkage.Notifier = (*Client)(nil)

func TestEntriesQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/songbook-entries" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"printed_song_title":"Hiilawe","songbook_name":"Hawaiian Song Book","pub_year":1930}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	entries, err := client.Entries(context.Background(), EntryQuery{
		Limit:        50,
		SongbookName: "Hawaiian Song Book",
		PubYearMin:   1920,
		Search:       "hiʻilawe",
	})
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}

	if len(entries) != 1 || entries[0].ID != 7 || entries[0].PubYear == nil || *entries[0].PubYear != 1930 {
		t.Errorf("unexpected entries: %+v", entries)
	}

	for _, want := range []string{"limit=50", "songbook_name=Hawaiian+Song+Book", "pub_year_min=1920", "search="} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	for _, absent := range []string{"offset", "composer", "pub_year_max"} {
		if strings.Contains(gotQuery, absent) {
			t.Errorf("query %q should not contain %q", gotQuery, absent)
		}
	}
}

func TestCreateLinkage(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/link-entry-song" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	if err := NewClient(server.URL).CreateLinkage(context.Background(), 42, "aloha_oe_canonical"); err != nil {
		t.Fatalf("CreateLinkage failed: %v", err)
	}

	expected := map[string]any{"entry_id": float64(42), "canonical_mele_id": "aloha_oe_canonical"}
	if !reflect.DeepEqual(body, expected) {
		t.Errorf("body = %v, expected %v", body, expected)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/songbook-entries/404":
			http.Error(w, "entry not found", http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	_, err := client.Entry(ctx, 404)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "entry not found" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if !errors.Is(err, util.ErrNotFound) {
		t.Error("404 should match util.ErrNotFound")
	}

	err = client.CreateLinkage(ctx, 1, "x")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected wrapped 500 APIError, got %v", err)
	}
	if errors.Is(err, util.ErrNotFound) {
		t.Error("500 should not match util.ErrNotFound")
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewClient(url).Ping(context.Background())
	if err == nil || !strings.Contains(err.Error(), "network error") {
		t.Errorf("expected network error, got %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("network failure should not be an APIError")
	}
}

func TestEntryCRUD(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPut:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			w.Write([]byte(`{"id":9,"printed_song_title":"` + fields["printed_song_title"].(string) + `","songbook_name":"B"}`))
		default:
			var entry archive.SongbookEntry
			json.NewDecoder(r.Body).Decode(&entry)
			entry.ID = 9
			json.NewEncoder(w).Encode(entry)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	created, err := client.CreateEntry(ctx, &archive.SongbookEntry{PrintedSongTitle: "Maile", SongbookName: "B"})
	if err != nil || created.ID != 9 || created.PrintedSongTitle != "Maile" {
		t.Fatalf("CreateEntry = %+v, %v", created, err)
	}

	updated, err := client.UpdateEntry(ctx, 9, map[string]any{"printed_song_title": "Maile Swing"})
	if err != nil || updated.PrintedSongTitle != "Maile Swing" {
		t.Fatalf("UpdateEntry = %+v, %v", updated, err)
	}

	if err := client.DeleteEntry(ctx, 9); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	expected := []string{
		"POST /api/songbook-entries",
		"PUT /api/songbook-entries/9",
		"DELETE /api/songbook-entries/9",
	}
	if !reflect.DeepEqual(methods, expected) {
		t.Errorf("requests = %v, expected %v", methods, expected)
	}
}

func TestReferenceAndSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/canonical-mele":
			if r.URL.Query().Get("role") != "" {
				t.Error("songs query should not carry role")
			}
			w.Write([]byte(`[{"canonical_mele_id":"hiilawe","canonical_title_hawaiian":"Hiʻilawe","primary_composer":"Sam Liʻa"}]`))
		case "/api/people":
			if r.URL.Query().Get("role") != "composer" {
				t.Errorf("people role = %q", r.URL.Query().Get("role"))
			}
			w.Write([]byte(`[{"person_id":"p1","name":"Sam Liʻa","roles":["composer"]}]`))
		case "/api/search":
			if r.URL.Query().Get("q") != "kāne" {
				t.Errorf("search q = %q", r.URL.Query().Get("q"))
			}
			w.Write([]byte(`{"songbook_entries":[],"canonical_songs":[{"canonical_mele_id":"a"}],"people":[]}`))
		case "/api/songbook-stats":
			w.Write([]byte(`{"total_entries":12,"unique_songbooks":3,"entries_by_decade":[{"decade":"1930s","count":4}]}`))
		case "/api/validate-entry":
			w.Write([]byte(`{"valid":false,"errors":["songbook_name is required"],"warnings":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	songs, err := client.Songs(ctx, ReferenceQuery{Search: "hiilawe", Role: "ignored"})
	if err != nil || len(songs) != 1 || songs[0].TitleHawaiian != "Hiʻilawe" {
		t.Errorf("Songs = %+v, %v", songs, err)
	}

	people, err := client.People(ctx, ReferenceQuery{Role: "composer"})
	if err != nil || len(people) != 1 || people[0].Name != "Sam Liʻa" {
		t.Errorf("People = %+v, %v", people, err)
	}

	results, err := client.Search(ctx, "kāne")
	if err != nil || len(results.CanonicalSongs) != 1 {
		t.Errorf("Search = %+v, %v", results, err)
	}

	stats, err := client.EntryStats(ctx)
	if err != nil || stats.TotalEntries != 12 || stats.EntriesByDecade[0].Decade != "1930s" {
		t.Errorf("EntryStats = %+v, %v", stats, err)
	}

	v, err := client.ValidateEntry(ctx, &archive.SongbookEntry{PrintedSongTitle: "X"})
	if err != nil || v.Valid || len(v.Errors) != 1 {
		t.Errorf("ValidateEntry = %+v, %v", v, err)
	}
}
