package linkage

import (
	"context"
	"fmt"
	"sync"

	"github.com/huapala/huapala/internal/util"
)

// Apply layers reviewer overrides on top of freshly loaded suggestions.
// The override wins when present and valid; order is preserved.
func Apply(suggestions []Linkage, overrides map[string]string) []Linkage {
	out := make([]Linkage, len(suggestions))
	copy(out, suggestions)

	for i := range out {
		key := out[i].Key().String()
		override, ok := overrides[key]
		if !ok {
			continue
		}
		status := Status(override)
		if !status.Valid() {
			util.WarnLog("Ignoring override %q for %s: unknown status", override, key)
			continue
		}
		out[i].Status = status
	}

	return out
}

// Store holds the linkages of one review session and writes every status
// change through to the override store.
//
// The mutex only protects the in-memory collection. Concurrent SetStatus
// calls for the same key are not ordered with respect to their
// notifications; callers needing that must serialize externally.
type Store struct {
	overrides OverrideStore
	notifier  Notifier

	mu       sync.RWMutex
	linkages []Linkage
	index    map[Key]int
}

// NewStore creates an empty store. A nil overrides keeps decisions in
// memory only; a nil notifier records approvals as overrides only.
func NewStore(overrides OverrideStore, notifier Notifier) *Store {
	if overrides == nil {
		overrides = NewMemoryOverrides(nil)
	}
	return &Store{
		overrides: overrides,
		notifier:  notifier,
		index:     make(map[Key]int),
	}
}

// Load replaces the collection with suggestions merged with the persisted
// overrides. On failure the previous collection is kept and a *LoadError
// is returned.
func (s *Store) Load(ctx context.Context, suggestions []Linkage) error {
	index := make(map[Key]int, len(suggestions))
	for i, l := range suggestions {
		key := l.Key()
		if _, dup := index[key]; dup {
			return &LoadError{Err: fmt.Errorf("duplicate linkage key %s", key)}
		}
		index[key] = i
	}

	overrides, err := s.overrides.All(ctx)
	if err != nil {
		return &LoadError{Err: fmt.Errorf("failed to read overrides: %w", err)}
	}

	merged := Apply(suggestions, overrides)

	s.mu.Lock()
	s.linkages = merged
	s.index = index
	s.mu.Unlock()

	util.DebugLog("Loaded %d linkages (%d overrides)", len(merged), len(overrides))
	return nil
}

// Reload fetches suggestions from src and loads them
func (s *Store) Reload(ctx context.Context, src Source) error {
	suggestions, err := src.Suggestions(ctx)
	if err != nil {
		return &LoadError{Err: err}
	}
	return s.Load(ctx, suggestions)
}

// SetStatus records a reviewer decision. The override is written first; if
// that fails nothing changes in memory. An approval then notifies the
// linking collaborator, and a failure there is reported as a
// *NotificationError after the change has been committed.
func (s *Store) SetStatus(ctx context.Context, key Key, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", util.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	i, ok := s.index[key]
	if !ok {
		s.mu.Unlock()
		return &NotFoundError{Key: key}
	}

	if err := s.overrides.Set(ctx, key.String(), string(status)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist status for %s: %w", key, err)
	}

	previous := s.linkages[i].Status
	s.linkages[i].Status = status
	s.mu.Unlock()

	util.DebugLog("Linkage %s: %s -> %s", key, previous, status)

	if status != StatusApproved || s.notifier == nil {
		return nil
	}

	if err := s.notifier.CreateLinkage(ctx, key.EntryID, key.SongID); err != nil {
		return &NotificationError{Key: key, Err: err}
	}
	return nil
}

// Get returns the linkage for key
func (s *Store) Get(key Key) (Linkage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[key]
	if !ok {
		return Linkage{}, false
	}
	return s.linkages[i], true
}

// Linkages returns a copy of the collection in suggestion order
func (s *Store) Linkages() []Linkage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Linkage{}, s.linkages...)
}

// Approved returns the approved linkages in suggestion order
func (s *Store) Approved() []Linkage {
	return s.Filter(Criteria{Status: StatusApproved})
}
