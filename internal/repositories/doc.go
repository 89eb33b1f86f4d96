// Package repositories implements SQLite persistence for the local
// history cache.
//
// The backend owns generation history; the cache keeps a local copy so
// history commands and the TUI work while the backend is unreachable.
// Records support soft deletes via deleted_at timestamps and are excluded
// from queries once deleted.
//
// Key Implementations:
//   - [HistoryRepository] : cached generation runs with status filtering
//     and upsert-based sync from backend responses
//
// Sequence numbers provide stable, human-readable ordering independent of
// UUIDs and creation timestamps. [NextSequence] atomically increments the
// per-table counter in a dedicated sequence table.
package repositories
