package store

// Schema v1 - reviewer decisions, one row per linkage key
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Current override per linkage ("{songId}-{entryId}")
CREATE TABLE IF NOT EXISTS linkage_overrides (
  key TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_linkage_overrides_status ON linkage_overrides(status);
`

// Schema v2 - decision history
const schemaV2 = `
CREATE TABLE IF NOT EXISTS override_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  key TEXT NOT NULL,
  previous_status TEXT,
  status TEXT NOT NULL,
  changed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_override_history_key ON override_history(key, id);
`
