package linkage

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sync"
)

// OverrideStore is the durable key/value map of reviewer decisions, keyed
// by Key.String(). Values are plain status strings so the map stays
// readable by anyone inspecting the backing store.
type OverrideStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, status string) error
	All(ctx context.Context) (map[string]string, error)
}

// Notifier persists an approved linkage in the authoritative store
type Notifier interface {
	CreateLinkage(ctx context.Context, entryID int64, songID string) error
}

// Source provides the precomputed suggestions for a review session
type Source interface {
	Suggestions(ctx context.Context) ([]Linkage, error)
}

// FileSource reads suggestions from a suggested_linkages.json file
type FileSource struct {
	Path string
}

// Suggestions implements Source
func (s FileSource) Suggestions(ctx context.Context) ([]Linkage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}

	var linkages []Linkage
	if err := json.Unmarshal(data, &linkages); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions %s: %w", s.Path, err)
	}

	for i := range linkages {
		if linkages[i].Status == "" {
			linkages[i].Status = StatusSuggested
		}
		if !linkages[i].Status.Valid() {
			return nil, fmt.Errorf("suggestion %s has unknown status %q", linkages[i].Key(), linkages[i].Status)
		}
	}

	return linkages, nil
}

// MemoryOverrides is an in-process OverrideStore
type MemoryOverrides struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryOverrides creates an override map seeded with initial values
func NewMemoryOverrides(initial map[string]string) *MemoryOverrides {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &MemoryOverrides{values: values}
}

// Get implements OverrideStore
func (m *MemoryOverrides) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements OverrideStore
func (m *MemoryOverrides) Set(_ context.Context, key string, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = status
	return nil
}

// All implements OverrideStore
func (m *MemoryOverrides) All(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values), nil
}
