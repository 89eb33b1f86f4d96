// package progress implements the real-time generation tracking core.
//
// The core abstractions are Registry, a process-wide store of generation
// records folded from server events, StreamClient, a reconnecting SSE
// consumer for the backend's progress stream, and Tracker, which composes
// both with the start/cancel API calls and exposes a single interface to
// CLI/UI layers. Updates are emitted via channels for non-blocking status
// reporting, mirroring how long-running operations report elsewhere in the
// codebase.
package progress
