// Package tasks orchestrates multi-run operations against the backend with real-time progress reporting.
//
// # Core Operations
//
// The [ExportEngine] provides two operations:
//
//  1. [ExportEngine.BulkExport] : Export several generation runs to disk
//     - Fetches each run's full record (including its step log) from the backend
//     - Writes CSV, Markdown, text, or JSON files per run via the formatter package
//     - Generates a manifest file summarizing successes and failures
//
//  2. [ExportEngine.SyncCache] : Refresh the local history cache
//     - Lists runs from the backend with optional filters
//     - Upserts each record into the sqlite cache for offline access
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages
// for display. Updates use select with default to prevent blocking.
//
// # Rate Limiting
//
// BulkExport fetches run records through a token-bucket limiter so a large
// export does not hammer the backend, with a bounded worker pool writing
// files concurrently.
//
// # Caching
//
// The optional [RunCacher] interface enables automatic persistence of
// fetched runs. Records are cached silently (errors ignored) so cache
// problems never fail an export.
package tasks
