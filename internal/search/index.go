// Package search provides the in-memory filter behind the archive's list
// views: records are matched against a query with Hawaiian-aware
// normalization and can be split into display columns.
package search

import (
	"strings"

	"github.com/huapala/huapala/internal/hawaiian"
)

// Searchable is implemented by records that expose named string fields.
// SearchField returns false when the field is absent for this record.
type Searchable interface {
	SearchField(name string) (string, bool)
}

// Index filters an ordered collection of records by a free-text query.
//
// Results are recomputed synchronously on every SetRecords and SetQuery, so
// they always reflect the current (records, query) pair. An Index is owned by
// a single caller and is not safe for concurrent use.
type Index[T Searchable] struct {
	fields  []string
	records []T
	query   string
	results []T
}

// New creates an empty index that matches against the given fields.
func New[T Searchable](fields ...string) *Index[T] {
	return &Index[T]{
		fields: append([]string(nil), fields...),
	}
}

// Fields returns the searchable field names in match order.
func (idx *Index[T]) Fields() []string {
	return append([]string(nil), idx.fields...)
}

// SetRecords replaces the backing collection, keeping the given order, and
// re-filters against the current query.
func (idx *Index[T]) SetRecords(records []T) {
	idx.records = append([]T(nil), records...)
	idx.refresh()
}

// SetQuery stores the raw query and re-filters.
func (idx *Index[T]) SetQuery(query string) {
	idx.query = query
	idx.refresh()
}

// Query returns the raw query as the user typed it.
func (idx *Index[T]) Query() string {
	return idx.query
}

// Len returns the number of records in the backing collection.
func (idx *Index[T]) Len() int {
	return len(idx.records)
}

// Results returns a copy of the current matches in collection order.
func (idx *Index[T]) Results() []T {
	return append([]T{}, idx.results...)
}

// Columns distributes the current results round-robin into n columns.
func (idx *Index[T]) Columns(n int) [][]T {
	return Distribute(idx.results, n)
}

func (idx *Index[T]) refresh() {
	q := hawaiian.Normalize(idx.query)
	if q == "" {
		idx.results = append([]T{}, idx.records...)
		return
	}

	results := make([]T, 0, len(idx.records))
	for _, record := range idx.records {
		if Matches(record, idx.fields, q) {
			results = append(results, record)
		}
	}
	idx.results = results
}

// Matches reports whether any of the named fields of record contains the
// already-normalized query q. Absent fields never match.
func Matches(record Searchable, fields []string, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range fields {
		value, ok := record.SearchField(field)
		if !ok || value == "" {
			continue
		}
		if strings.Contains(hawaiian.Normalize(value), q) {
			return true
		}
	}
	return false
}

// Distribute assigns item i to column i mod n. It keeps no state, so calling
// it twice on the same items yields the same columns. n < 1 is treated as 1.
func Distribute[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	columns := make([][]T, n)
	for i := range columns {
		columns[i] = make([]T, 0, (len(items)+n-1)/n)
	}
	for i, item := range items {
		columns[i%n] = append(columns[i%n], item)
	}
	return columns
}
