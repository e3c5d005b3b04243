package linkage

import (
	"strings"

	"github.com/huapala/huapala/internal/hawaiian"
	"github.com/huapala/huapala/internal/search"
)

// Criteria selects linkages for a review view. Zero-valued fields do not
// constrain the result.
type Criteria struct {
	Status Status
	Band   Band
	Text   string
}

// ParseCriteria builds criteria from user-facing filter values, where ""
// and "all" mean no constraint
func ParseCriteria(status, band, text string) (Criteria, error) {
	c := Criteria{Text: text}

	if s := strings.TrimSpace(status); s != "" && !strings.EqualFold(s, "all") {
		parsed, err := ParseStatus(s)
		if err != nil {
			return Criteria{}, err
		}
		c.Status = parsed
	}

	if b := strings.TrimSpace(band); b != "" && !strings.EqualFold(b, "all") {
		parsed, err := ParseBand(b)
		if err != nil {
			return Criteria{}, err
		}
		c.Band = parsed
	}

	return c, nil
}

// match reports whether l satisfies every set criterion. q is the
// already-normalized text query.
func (c Criteria) match(l Linkage, q string) bool {
	if c.Status != "" && l.Status != c.Status {
		return false
	}
	if c.Band != "" && l.Band() != c.Band {
		return false
	}
	return search.Matches(l, Fields, q)
}

// Filter returns the matching linkages in suggestion order
func (s *Store) Filter(c Criteria) []Linkage {
	q := hawaiian.Normalize(c.Text)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Linkage, 0, len(s.linkages))
	for _, l := range s.linkages {
		if c.match(l, q) {
			out = append(out, l)
		}
	}
	return out
}

// Stats summarizes review progress
type Stats struct {
	Total          int `json:"total"`
	Approved       int `json:"approved"`
	Rejected       int `json:"rejected"`
	Pending        int `json:"pending"` // suggested and pending together
	HighConfidence int `json:"high_confidence"`
}

// Summarize computes review statistics for linkages
func Summarize(linkages []Linkage) Stats {
	stats := Stats{Total: len(linkages)}
	for _, l := range linkages {
		switch {
		case l.Status == StatusApproved:
			stats.Approved++
		case l.Status == StatusRejected:
			stats.Rejected++
		case l.Status.Undecided():
			stats.Pending++
		}
		if l.Band() == BandHigh {
			stats.HighConfidence++
		}
	}
	return stats
}

// Stats summarizes the current collection
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summarize(s.linkages)
}
