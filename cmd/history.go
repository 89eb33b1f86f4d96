package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/services"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/ghostarr/ghostarr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// HistoryList lists generation runs from the backend or the local cache.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	var records []models.HistoryRecord

	if cmd.Bool("cached") {
		cache := r.openCache()
		if cache == nil {
			return fmt.Errorf("%w: history cache not initialized, run 'ghostarr setup' first", shared.ErrMissingConfig)
		}

		cached, err := cache.List(map[string]any{
			"status": cmd.String("status"),
			"type":   cmd.String("type"),
			"limit":  cmd.Int("limit"),
		})
		if err != nil {
			return fmt.Errorf("failed to read history cache: %w", err)
		}
		for _, run := range cached {
			records = append(records, run.Record)
		}
	} else {
		var err error
		records, err = r.client.ListHistory(ctx, services.HistoryFilter{
			Status: models.GenerationStatus(cmd.String("status")),
			Type:   models.GenerationType(cmd.String("type")),
			Limit:  cmd.Int("limit"),
		})
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d runs:\n\n", len(records))
	for i, record := range records {
		r.writePlain("%d. %s [%s] %s", i+1, record.ID, record.Status, record.Type)
		if record.ItemsCount > 0 {
			r.writePlain(" (%d items)", record.ItemsCount)
		}
		r.writePlain("\n")
		if record.GhostPostURL != "" {
			r.writePlain("     %s\n", record.GhostPostURL)
		}
		if record.ErrorMessage != "" {
			r.writePlain("     error: %s\n", record.ErrorMessage)
		}
	}
	return nil
}

// HistoryGet shows one generation run including its step log.
func (r *Runner) HistoryGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}

	record, err := r.client.GetHistory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch run: %w", err)
	}

	if cache := r.openCache(); cache != nil {
		if err := cache.Upsert(*record); err != nil {
			r.logger.Warn("failed to cache run", "id", id, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, cmd.Bool("pretty"))
	}

	r.writePlain("ID:       %s\n", record.ID)
	r.writePlain("Status:   %s\n", record.Status)
	r.writePlain("Type:     %s\n", record.Type)
	if record.GhostPostURL != "" {
		r.writePlain("Post:     %s\n", record.GhostPostURL)
	}
	if record.DurationSeconds > 0 {
		r.writePlain("Duration: %.1fs\n", record.DurationSeconds)
	}
	if record.ErrorMessage != "" {
		r.writePlain("Error:    %s\n", record.ErrorMessage)
	}
	if len(record.ProgressLog) > 0 {
		r.writePlain("\nSteps:\n")
		for _, step := range record.ProgressLog {
			r.renderStep(step)
		}
	}
	return nil
}

// HistoryDelete deletes one or more runs from the backend.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one run id is required", shared.ErrMissingArgument)
	}

	if len(ids) == 1 {
		if err := r.client.DeleteHistory(ctx, ids[0]); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		r.writePlain("✓ Run %s deleted\n", ids[0])
		return nil
	}

	deleted, err := r.client.BulkDeleteHistory(ctx, ids)
	if err != nil {
		return fmt.Errorf("bulk delete failed: %w", err)
	}

	r.writePlain("✓ Deleted %d of %d runs\n", deleted, len(ids))
	return nil
}

// HistoryExport exports generation runs to files using the export engine.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()

	if cmd.Bool("all") {
		records, err := r.client.ListHistory(ctx, services.HistoryFilter{})
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		ids = ids[:0]
		for _, record := range records {
			ids = append(ids, record.ID)
		}
	}

	if len(ids) == 0 {
		return fmt.Errorf("%w: pass run ids or --all", shared.ErrMissingArgument)
	}

	r.openCache()
	r.writePlain("Exporting %d runs...\n\n", len(ids))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchRun:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.WriteFiles:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, ids, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Runs: %d exported, %d failed\n", result.SuccessfulExports, result.FailedExports)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed runs:\n")
		for _, run := range result.Results {
			if run.Error != nil {
				r.writePlain("  - %s: %v\n", run.RunID, run.Error)
			}
		}
	}

	return nil
}

// HistorySync refreshes the local history cache from the backend.
func (r *Runner) HistorySync(ctx context.Context, cmd *cli.Command) error {
	if r.openCache() == nil {
		return fmt.Errorf("%w: history cache not initialized, run 'ghostarr setup' first", shared.ErrMissingConfig)
	}

	r.logger.Info("syncing history cache")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	count, err := r.engine.SyncCache(ctx, progressCh, services.HistoryFilter{Limit: cmd.Int("limit")})
	close(progressCh)

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlain("✓ Cached %d runs\n", count)
	return nil
}

// HistoryPrune removes old runs from the local cache.
func (r *Runner) HistoryPrune(ctx context.Context, cmd *cli.Command) error {
	cache := r.openCache()
	if cache == nil {
		return fmt.Errorf("%w: history cache not initialized, run 'ghostarr setup' first", shared.ErrMissingConfig)
	}

	days := cmd.Int("older-than")
	cutoff := time.Now().AddDate(0, 0, -days)

	pruned, err := cache.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}

	r.writePlain("✓ Pruned %d cached runs older than %d days\n", pruned, days)
	return nil
}
