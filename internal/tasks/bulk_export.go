package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghostarr/ghostarr/internal/formatter"
	"github.com/ghostarr/ghostarr/internal/services"
	"github.com/ghostarr/ghostarr/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk history exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: ghostarr_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Backend requests per second (default: 5)
}

// BulkExport exports multiple generation runs concurrently with rate limiting and progress tracking.
//
// Run records are fetched from the backend through a token-bucket limiter,
// then a worker pool writes the export files. Partial failures are
// collected per run rather than aborting the batch, and a manifest file
// summarizes the outcome.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: history API not initialized", shared.ErrServerUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one run id is required", shared.ErrInvalidInput)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("ghostarr_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalRuns:       len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]RunExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan RunExportJob, len(ids))
	results := make(chan RunExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, runID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			e.sendProgress(prog, fetchingRunUpdate(i+1, len(ids), runID))

			record, err := e.api.GetHistory(ctx, runID)
			if err != nil {
				results <- RunExportResult{
					RunID:   runID,
					Success: false,
					Error:   fmt.Errorf("failed to fetch run: %w", err),
				}
				continue
			}

			if e.cache != nil {
				// Cache refresh is best-effort.
				_ = e.cache.Upsert(*record)
			}

			jobs <- RunExportJob{
				RunID:  runID,
				Record: record,
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.RunID, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.RunID, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result.manifest(), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports runs from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan RunExportJob,
	results chan<- RunExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSingleRun(job, opts)
	}
}

// exportSingleRun writes a single run to the requested format.
func exportSingleRun(j RunExportJob, opts BulkExportOpts) RunExportResult {
	result := RunExportResult{
		RunID:   j.RunID,
		Status:  j.Record.Status,
		Success: false,
		Files:   []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.RunID)
		csvRes, err := formatter.WriteCSVExport(j.Record, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.StepsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.RunID)
		mdRes, err := formatter.WriteMarkdownExport(j.Record, outputDir)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_run.txt", j.RunID))
		path, err := formatter.WriteTextExport(j.Record, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.RunID))
		data, err := shared.MarshalJSON(j.Record, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("failed to write JSON file: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}

	return result
}

// manifestEntry is the JSON-safe form of a RunExportResult.
type manifestEntry struct {
	RunID  string   `json:"run_id"`
	Status string   `json:"status,omitempty"`
	OK     bool     `json:"ok"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type manifestDoc struct {
	TotalRuns  int             `json:"total_runs"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	OutputDir  string          `json:"output_dir"`
	Runs       []manifestEntry `json:"runs"`
}

func (r *BulkExportResult) manifest() manifestDoc {
	doc := manifestDoc{
		TotalRuns:  r.TotalRuns,
		Successful: r.SuccessfulExports,
		Failed:     r.FailedExports,
		OutputDir:  r.OutputDirectory,
		Runs:       make([]manifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := manifestEntry{
			RunID:  res.RunID,
			Status: string(res.Status),
			OK:     res.Success,
			Files:  res.Files,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		doc.Runs = append(doc.Runs, entry)
	}
	return doc
}

// SyncCache refreshes the local history cache from the backend listing.
// Returns how many records were cached.
func (e *ExportEngine) SyncCache(ctx context.Context, prog chan<- ProgressUpdate, filter services.HistoryFilter) (int, error) {
	if e.cache == nil {
		return 0, fmt.Errorf("%w: no local cache configured", shared.ErrInvalidConfig)
	}

	e.sendProgress(prog, ProgressUpdate{Phase: FetchList, Message: "Fetching history from backend..."})

	records, err := e.api.ListHistory(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to list history: %w", err)
	}

	cached := 0
	for i, record := range records {
		select {
		case <-ctx.Done():
			return cached, ctx.Err()
		default:
		}

		if err := e.cache.Upsert(record); err != nil {
			return cached, fmt.Errorf("failed to cache run %s: %w", record.ID, err)
		}
		cached++
		e.sendProgress(prog, cacheSyncUpdate(i+1, len(records), record.ID))
	}

	return cached, nil
}
