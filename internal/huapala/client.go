// Package huapala is a client for the Huapala archive REST API.
package huapala

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/util"
)

const (
	// DefaultTimeout bounds a single API request
	DefaultTimeout = 30 * time.Second

	// UserAgent identifies this application to the API
	UserAgent = "huapala-cli/1.0"
)

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("API error: %d %s - %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Is matches util.ErrNotFound for 404 responses
func (e *APIError) Is(target error) bool {
	return target == util.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the Huapala API. Requests are best-effort: there is no
// retry and every failure is returned to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: UserAgent,
	}
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EntryQuery filters the songbook entry list. Zero values are omitted.
type EntryQuery struct {
	Limit        int
	Offset       int
	SongbookName string
	Composer     string
	PubYearMin   int
	PubYearMax   int
	Search       string
}

func (q EntryQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.SongbookName != "" {
		v.Set("songbook_name", q.SongbookName)
	}
	if q.Composer != "" {
		v.Set("composer", q.Composer)
	}
	if q.PubYearMin > 0 {
		v.Set("pub_year_min", strconv.Itoa(q.PubYearMin))
	}
	if q.PubYearMax > 0 {
		v.Set("pub_year_max", strconv.Itoa(q.PubYearMax))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// EntryStats summarizes the songbook entry table
type EntryStats struct {
	TotalEntries     int           `json:"total_entries"`
	UniqueSongbooks  int           `json:"unique_songbooks"`
	UniqueComposers  int           `json:"unique_composers"`
	EntriesWithPages int           `json:"entries_with_pages"`
	EntriesByDecade  []DecadeCount `json:"entries_by_decade"`
}

// DecadeCount is the number of entries published in one decade
type DecadeCount struct {
	Decade string `json:"decade"`
	Count  int    `json:"count"`
}

// ReferenceSong is the short form of a canonical song used for linking
type ReferenceSong struct {
	ID              string `json:"canonical_mele_id"`
	TitleHawaiian   string `json:"canonical_title_hawaiian"`
	TitleEnglish    string `json:"canonical_title_english,omitempty"`
	PrimaryComposer string `json:"primary_composer"`
}

// ReferencePerson is the short form of a person used for composer lookup
type ReferencePerson struct {
	ID    string   `json:"person_id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// ReferenceQuery filters the reference lists
type ReferenceQuery struct {
	Limit  int
	Search string
	Role   string // people only
}

func (q ReferenceQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	return v
}

// SearchResults groups the matches of a global search
type SearchResults struct {
	SongbookEntries []archive.SongbookEntry `json:"songbook_entries"`
	CanonicalSongs  []ReferenceSong         `json:"canonical_songs"`
	People          []ReferencePerson       `json:"people"`
}

// Validation is the server-side verdict on an entry
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Entries lists songbook entries
func (c *Client) Entries(ctx context.Context, q EntryQuery) ([]archive.SongbookEntry, error) {
	var entries []archive.SongbookEntry
	if err := c.do(ctx, http.MethodGet, withQuery("/api/songbook-entries", q.values()), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Entry fetches one songbook entry
func (c *Client) Entry(ctx context.Context, id int64) (*archive.SongbookEntry, error) {
	var entry archive.SongbookEntry
	if err := c.do(ctx, http.MethodGet, entryPath(id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry creates a songbook entry and returns the stored record
func (c *Client) CreateEntry(ctx context.Context, entry *archive.SongbookEntry) (*archive.SongbookEntry, error) {
	var created archive.SongbookEntry
	if err := c.do(ctx, http.MethodPost, "/api/songbook-entries", entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateEntry applies a partial update to a songbook entry
func (c *Client) UpdateEntry(ctx context.Context, id int64, fields map[string]any) (*archive.SongbookEntry, error) {
	var updated archive.SongbookEntry
	if err := c.do(ctx, http.MethodPut, entryPath(id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEntry deletes a songbook entry
func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, entryPath(id), nil, nil)
}

// SongbookNames lists the distinct songbook names
func (c *Client) SongbookNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/api/songbook-names", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// EntryStats fetches songbook entry statistics
func (c *Client) EntryStats(ctx context.Context) (*EntryStats, error) {
	var stats EntryStats
	if err := c.do(ctx, http.MethodGet, "/api/songbook-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Songs lists canonical songs for linking
func (c *Client) Songs(ctx context.Context, q ReferenceQuery) ([]ReferenceSong, error) {
	q.Role = ""
	var songs []ReferenceSong
	if err := c.do(ctx, http.MethodGet, withQuery("/api/canonical-mele", q.values()), nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// People lists people for composer lookup
func (c *Client) People(ctx context.Context, q ReferenceQuery) ([]ReferencePerson, error) {
	var people []ReferencePerson
	if err := c.do(ctx, http.MethodGet, withQuery("/api/people", q.values()), nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// CreateLinkage links a songbook entry to a canonical song. It implements
// linkage.Notifier.
func (c *Client) CreateLinkage(ctx context.Context, entryID int64, songID string) error {
	body := struct {
		EntryID int64  `json:"entry_id"`
		SongID  string `json:"canonical_mele_id"`
	}{entryID, songID}

	if err := c.do(ctx, http.MethodPost, "/api/link-entry-song", body, nil); err != nil {
		return fmt.Errorf("failed to link entry %d to %s: %w", entryID, songID, err)
	}

	util.DebugLog("Linked songbook entry %d to %s", entryID, songID)
	return nil
}

// Search runs a search across entries, songs and people
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	var results SearchResults
	path := withQuery("/api/search", url.Values{"q": []string{query}})
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// ValidateEntry asks the API to validate an entry without storing it
func (c *Client) ValidateEntry(ctx context.Context, entry *archive.SongbookEntry) (*Validation, error) {
	var v Validation
	if err := c.do(ctx, http.MethodPost, "/api/validate-entry", entry, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Ping checks that the API answers
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.SongbookNames(ctx)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	util.DebugLog("Huapala API: %s %s", method, path)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func entryPath(id int64) string {
	return "/api/songbook-entries/" + strconv.FormatInt(id, 10)
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
