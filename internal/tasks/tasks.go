// package tasks implements bulk operations over generation history.
package tasks

import (
	"context"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/services"
)

// HistoryAPI is the backend surface the export engine needs.
type HistoryAPI interface {
	ListHistory(ctx context.Context, filter services.HistoryFilter) ([]models.HistoryRecord, error)
	GetHistory(ctx context.Context, id string) (*models.HistoryRecord, error)
}

// RunCacher persists fetched runs locally. Implemented by
// repositories.HistoryRepository.
type RunCacher interface {
	Upsert(record models.HistoryRecord) error
}

// RunExportJob carries one fetched run to an export worker.
type RunExportJob struct {
	RunID  string
	Record *models.HistoryRecord
}

// RunExportResult is the outcome of exporting a single run.
type RunExportResult struct {
	RunID   string
	Status  models.GenerationStatus
	Success bool
	Files   []string
	Error   error
}

// BulkExportResult aggregates a full bulk export.
type BulkExportResult struct {
	TotalRuns         int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []RunExportResult
}

// ExportEngine runs bulk history operations against the backend.
type ExportEngine struct {
	api   HistoryAPI
	cache RunCacher
}

// NewExportEngine creates an ExportEngine. cache may be nil to skip local
// persistence.
func NewExportEngine(api HistoryAPI, cache RunCacher) *ExportEngine {
	return &ExportEngine{
		api:   api,
		cache: cache,
	}
}

// sendProgress delivers an update without blocking; a slow consumer drops
// intermediate updates.
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
