// Package linkage implements the human review of suggested links between
// canonical songs and songbook entries.
package linkage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huapala/huapala/internal/util"
)

// Status is the review state of a suggested linkage. Every status can be
// set from every other one; reviewers may correct mistakes at any time.
type Status string

const (
	StatusSuggested Status = "suggested"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Statuses lists all review states in display order
var Statuses = []Status{StatusSuggested, StatusPending, StatusApproved, StatusRejected}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusSuggested, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Undecided reports whether s is not yet a final decision
func (s Status) Undecided() bool {
	return s == StatusSuggested || s == StatusPending
}

// ParseStatus parses a status name, case-insensitively
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", util.ErrInvalidStatus, s)
	}
	return status, nil
}

// Band is a similarity confidence band
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Bands lists the confidence bands from best to worst
var Bands = []Band{BandHigh, BandMedium, BandLow}

const (
	highThreshold   = 0.90
	mediumThreshold = 0.80
)

// ClassifyConfidence maps a similarity score to its band. Lower bounds are
// inclusive: 0.90 is high and 0.80 is medium.
func ClassifyConfidence(score float64) Band {
	switch {
	case score >= highThreshold:
		return BandHigh
	case score >= mediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// ParseBand parses a band name
func ParseBand(s string) (Band, error) {
	band := Band(strings.ToLower(strings.TrimSpace(s)))
	switch band {
	case BandHigh, BandMedium, BandLow:
		return band, nil
	}
	return "", fmt.Errorf("unknown confidence band %q", s)
}

// Key identifies a linkage by song and songbook entry
type Key struct {
	SongID  string
	EntryID int64
}

// String renders the key as stored in the override map: "{songId}-{entryId}"
func (k Key) String() string {
	return k.SongID + "-" + strconv.FormatInt(k.EntryID, 10)
}

// ParseKey parses "{songId}-{entryId}". Song ids may contain dashes, so the
// entry id is taken after the last one.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 || i == len(s)-1 {
		return Key{}, fmt.Errorf("invalid linkage key %q", s)
	}
	entryID, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("invalid linkage key %q: %w", s, err)
	}
	return Key{SongID: s[:i], EntryID: entryID}, nil
}
