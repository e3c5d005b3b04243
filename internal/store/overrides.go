package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Overrides is the linkage override map backed by the linkage_overrides
// table. It implements linkage.OverrideStore.
type Overrides struct {
	store *Store
}

// Overrides returns the override map view of the store
func (s *Store) Overrides() *Overrides {
	return &Overrides{store: s}
}

// Get returns the override for key
func (o *Overrides) Get(ctx context.Context, key string) (string, bool, error) {
	var status string
	err := o.store.db.QueryRowContext(ctx,
		"SELECT status FROM linkage_overrides WHERE key = ?", key,
	).Scan(&status)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get override: %w", err)
	}

	return status, true, nil
}

// Set upserts the override for key and appends it to the history
func (o *Overrides) Set(ctx context.Context, key string, status string) error {
	return o.store.Transaction(func(tx *sql.Tx) error {
		var previous sql.NullString
		err := tx.QueryRowContext(ctx,
			"SELECT status FROM linkage_overrides WHERE key = ?", key,
		).Scan(&previous)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to read override: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO linkage_overrides (key, status)
			VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET
				status = excluded.status,
				updated_at = CURRENT_TIMESTAMP
		`, key, status)
		if err != nil {
			return fmt.Errorf("failed to upsert override: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO override_history (key, previous_status, status)
			VALUES (?, ?, ?)
		`, key, previous, status)
		if err != nil {
			return fmt.Errorf("failed to record override history: %w", err)
		}

		return nil
	})
}

// All returns every override as a key to status map
func (o *Overrides) All(ctx context.Context) (map[string]string, error) {
	rows, err := o.store.db.QueryContext(ctx, "SELECT key, status FROM linkage_overrides")
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]string)
	for rows.Next() {
		var key, status string
		if err := rows.Scan(&key, &status); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides[key] = status
	}

	return overrides, rows.Err()
}

// ListOverrides returns all overrides, most recently updated first
func (s *Store) ListOverrides(ctx context.Context) ([]*Override, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, status, updated_at
		FROM linkage_overrides
		ORDER BY updated_at DESC, key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*Override
	for rows.Next() {
		o := &Override{}
		if err := rows.Scan(&o.Key, &o.Status, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides = append(overrides, o)
	}

	return overrides, rows.Err()
}

// CountOverridesByStatus returns the number of overrides per status
func (s *Store) CountOverridesByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM linkage_overrides GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count overrides: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// History returns the recorded status changes for key, oldest first
func (s *Store) History(ctx context.Context, key string) ([]*HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, COALESCE(previous_status, ''), status, changed_at
		FROM override_history
		WHERE key = ?
		ORDER BY id
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.Key, &h.PreviousStatus, &h.Status, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		entries = append(entries, h)
	}

	return entries, rows.Err()
}

// ClearOverrides deletes every override. History is kept.
func (s *Store) ClearOverrides(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM linkage_overrides")
	if err != nil {
		return 0, fmt.Errorf("failed to clear overrides: %w", err)
	}
	return result.RowsAffected()
}
