package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/linkage"
)

type failingNotifier struct{}

func (failingNotifier) CreateLinkage(context.Context, int64, string) error {
	return errors.New("api unavailable")
}

type staticSource []linkage.Linkage

func (s staticSource) Suggestions(context.Context) ([]linkage.Linkage, error) {
	return s, nil
}

func testCatalog() *Catalog {
	return &Catalog{
		Songs: []archive.Song{
			{ID: "haleakala", TitleHawaiian: "Haleakalā", PrimaryComposer: "Alice Johnson"},
			{ID: "aloha_oe", TitleHawaiian: "Aloha ʻOe", TitleEnglish: "Farewell to Thee", PrimaryComposer: "Liliʻuokalani"},
			{ID: "hawaii_nei", TitleHawaiian: "Hawaiʻi Nei", PrimaryComposer: "Unknown"},
		},
		People: []archive.Person{
			{ID: "p1", FullName: "Lydia Liliʻuokalani Kamakaʻeha", DisplayName: "Liliʻuokalani", Roles: []string{"composer"}},
		},
	}
}

func newTestServer(t *testing.T, notifier linkage.Notifier) (*Server, *linkage.MemoryOverrides) {
	t.Helper()
	overrides := linkage.NewMemoryOverrides(nil)
	review := linkage.NewStore(overrides, notifier)
	source := staticSource{
		{SongID: "aloha_oe", EntryID: 1, SongTitle: "Aloha ʻOe", SongbookName: "Book A", SimilarityScore: 0.95, Status: linkage.StatusSuggested},
		{SongID: "hawaii_nei", EntryID: 2, SongTitle: "Hawaiʻi Nei", SongbookName: "Book B", SimilarityScore: 0.85, Status: linkage.StatusSuggested},
	}
	if err := review.Reload(context.Background(), source); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	return NewServer(testCatalog(), review, source), overrides
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	w := do(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestHandleSongs(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"haleakala", "aloha_oe", "hawaii_nei"}},
		{"haleakala", []string{"haleakala"}},
		{"ʻoe", []string{"aloha_oe"}},
		{"liliuokalani", []string{"aloha_oe"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		w := do(t, srv, http.MethodGet, "/api/songs?q="+url.QueryEscape(tt.query), "")
		if w.Code != http.StatusOK {
			t.Fatalf("q=%q: status %d", tt.query, w.Code)
		}
		var out listResponse[archive.Song]
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		ids := []string{}
		for _, s := range out.Results {
			ids = append(ids, s.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tt.expected, ",") || out.Total != len(tt.expected) {
			t.Errorf("q=%q: got %v (total %d), expected %v", tt.query, ids, out.Total, tt.expected)
		}
	}
}

func TestHandleSongsColumns(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := do(t, srv, http.MethodGet, "/api/songs?columns=2", "")
	var out listResponse[archive.Song]
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Columns) != 2 || len(out.Columns[0]) != 2 || len(out.Columns[1]) != 1 {
		t.Fatalf("unexpected columns: %+v", out.Columns)
	}
	if out.Columns[0][1].ID != "hawaii_nei" || out.Columns[1][0].ID != "aloha_oe" {
		t.Errorf("columns not round-robin: %+v", out.Columns)
	}

	w = do(t, srv, http.MethodGet, "/api/songs?columns=0", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("columns=0: got %d", w.Code)
	}
}

func TestHandlePeople(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := do(t, srv, http.MethodGet, "/api/people?q=kamakaeha", "")
	var out listResponse[archive.Person]
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 1 {
		t.Errorf("expected 1 person, got %d", out.Total)
	}
}

func TestHandleLinkages(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		target   string
		code     int
		expected int
	}{
		{"/api/linkages", http.StatusOK, 2},
		{"/api/linkages?status=all&confidence=all", http.StatusOK, 2},
		{"/api/linkages?confidence=high", http.StatusOK, 1},
		{"/api/linkages?q=hawaii", http.StatusOK, 1},
		{"/api/linkages?status=approved", http.StatusOK, 0},
		{"/api/linkages?status=bogus", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		w := do(t, srv, http.MethodGet, tt.target, "")
		if w.Code != tt.code {
			t.Errorf("%s: status %d, expected %d", tt.target, w.Code, tt.code)
			continue
		}
		if tt.code != http.StatusOK {
			continue
		}
		var out struct {
			Total int `json:"total"`
		}
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.Total != tt.expected {
			t.Errorf("%s: total %d, expected %d", tt.target, out.Total, tt.expected)
		}
	}
}

func TestHandleSetStatus(t *testing.T) {
	srv, overrides := newTestServer(t, nil)

	w := do(t, srv, http.MethodPut, "/api/linkages/aloha_oe-1", `{"status":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	var out setStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Linkage.Status != linkage.StatusApproved || out.Warning != "" {
		t.Errorf("unexpected response: %+v", out)
	}
	if v, _, _ := overrides.Get(context.Background(), "aloha_oe-1"); v != "approved" {
		t.Errorf("override not written: %q", v)
	}

	w = do(t, srv, http.MethodGet, "/api/linkages/stats", "")
	var stats linkage.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats != (linkage.Stats{Total: 2, Approved: 1, Pending: 1, HighConfidence: 1}) {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestHandleSetStatusErrors(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		target string
		body   string
		code   int
	}{
		{"/api/linkages/missing-99", `{"status":"approved"}`, http.StatusNotFound},
		{"/api/linkages/aloha_oe-1", `{"status":"confirmed"}`, http.StatusBadRequest},
		{"/api/linkages/aloha_oe-1", `not json`, http.StatusBadRequest},
		{"/api/linkages/nokey", `{"status":"approved"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := do(t, srv, http.MethodPut, tt.target, tt.body)
		if w.Code != tt.code {
			t.Errorf("PUT %s %s: got %d, expected %d", tt.target, tt.body, w.Code, tt.code)
		}
	}
}

func TestHandleSetStatusNotificationWarning(t *testing.T) {
	srv, _ := newTestServer(t, failingNotifier{})

	w := do(t, srv, http.MethodPut, "/api/linkages/hawaii_nei-2", `{"status":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out setStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Warning == "" {
		t.Error("expected a warning for the failed notification")
	}
	if out.Linkage.Status != linkage.StatusApproved {
		t.Errorf("approval should stay committed, got %q", out.Linkage.Status)
	}
}

func TestLinkagesNotConfigured(t *testing.T) {
	srv := NewServer(testCatalog(), nil, nil)
	w := do(t, srv, http.MethodGet, "/api/linkages/stats", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestHandleReload(t *testing.T) {
	srv, overrides := newTestServer(t, nil)
	overrides.Set(context.Background(), "hawaii_nei-2", "rejected")

	w := do(t, srv, http.MethodPost, "/api/linkages/reload", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var stats linkage.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Rejected != 1 {
		t.Errorf("reload should pick up overrides: %+v", stats)
	}
}
