package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/search"
	"github.com/huapala/huapala/internal/util"
)

type listResponse[T any] struct {
	Query   string `json:"query"`
	Total   int    `json:"total"`
	Results []T    `json:"results"`
	Columns [][]T  `json:"columns,omitempty"`
}

// list filters records with the search index. columns > 0 also lays the
// results out round-robin for the grid view.
func list[T search.Searchable](records []T, fields []string, query string, columns int) listResponse[T] {
	idx := search.New[T](fields...)
	idx.SetRecords(records)
	idx.SetQuery(query)

	results := idx.Results()
	resp := listResponse[T]{
		Query:   query,
		Total:   len(results),
		Results: results,
	}
	if columns > 0 {
		resp.Columns = idx.Columns(columns)
	}
	return resp
}

func parseColumns(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("columns")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("columns must be a positive integer")
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	columns, err := parseColumns(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, list(s.catalog.Songs, archive.SongFields, r.URL.Query().Get("q"), columns))
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	columns, err := parseColumns(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, list(s.catalog.People, archive.PersonFields, r.URL.Query().Get("q"), columns))
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	columns, err := parseColumns(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, list(s.catalog.Entries, archive.EntryFields, r.URL.Query().Get("q"), columns))
}

func (s *Server) handleLinkages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, err := linkage.ParseCriteria(q.Get("status"), q.Get("confidence"), q.Get("q"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	linkages := s.review.Filter(criteria)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"total":    len(linkages),
		"linkages": linkages,
	})
}

func (s *Server) handleLinkageStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.review.Stats())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		s.respondError(w, http.StatusServiceUnavailable, "no suggestion source configured")
		return
	}
	if err := s.review.Reload(r.Context(), s.source); err != nil {
		util.ErrorLog("Reload failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, s.review.Stats())
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type setStatusResponse struct {
	Linkage linkage.Linkage `json:"linkage"`
	Warning string          `json:"warning,omitempty"`
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	key, err := linkage.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := linkage.ParseStatus(req.Status)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var resp setStatusResponse
	err = s.review.SetStatus(r.Context(), key, status)

	var notifyErr *linkage.NotificationError
	switch {
	case err == nil:
	case errors.As(err, &notifyErr):
		util.WarnLog("%v", err)
		resp.Warning = notifyErr.Error()
	case errors.Is(err, util.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	default:
		util.ErrorLog("Failed to set status for %s: %v", key, err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp.Linkage, _ = s.review.Get(key)
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
