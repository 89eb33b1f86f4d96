package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchList Phase = iota
	FetchRun
	WriteFiles
	CacheSync
)

func (p Phase) String() string {
	switch p {
	case FetchList:
		return "fetch_list"
	case FetchRun:
		return "fetch_run"
	case WriteFiles:
		return "write_files"
	case CacheSync:
		return "cache_sync"
	default:
		return ""
	}
}

func fetchingRunUpdate(step, total int, runID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRun,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching run %s...", runID),
	}
}

func exportCompletedUpdate(step, total int, runID string, fileCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s (%d files)", runID, fileCount),
	}
}

func exportFailedUpdate(step, total int, runID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", runID, err),
		Data:    err,
	}
}

func cacheSyncUpdate(step, total int, runID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheSync,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Cached run %s", runID),
	}
}
