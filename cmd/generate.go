package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/progress"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// buildGenerationConfig merges CLI flags over the configured defaults.
func (r *Runner) buildGenerationConfig(cmd *cli.Command) models.GenerationConfig {
	config := models.DefaultGenerationConfig(r.config.Generation.TemplateID)

	if r.config.Generation.Title != "" {
		config.Title = r.config.Generation.Title
	}
	if r.config.Generation.PublicationMode != "" {
		config.PublicationMode = models.PublicationMode(r.config.Generation.PublicationMode)
	}

	if template := cmd.String("template"); template != "" {
		config.TemplateID = template
	}
	if title := cmd.String("title"); title != "" {
		config.Title = title
	}
	if mode := cmd.String("mode"); mode != "" {
		config.PublicationMode = models.PublicationMode(mode)
	}

	return config
}

// GenerateRun starts a generation and streams progress to the terminal
// until the run completes, fails, or is cancelled.
func (r *Runner) GenerateRun(ctx context.Context, cmd *cli.Command) error {
	config := r.buildGenerationConfig(cmd)

	r.logger.Info("starting generation", "template", config.TemplateID, "mode", config.PublicationMode)
	r.writePlain("Starting newsletter generation...\n")

	id, err := r.tracker.Start(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to start generation: %w", err)
	}
	r.writePlain("Generation ID: %s\n\n", id)

	final, err := r.followProgress(ctx)
	if err != nil {
		return err
	}

	if cache := r.openCache(); cache != nil && final != nil {
		if record, err := r.client.GetHistory(ctx, id); err == nil {
			if err := cache.Upsert(*record); err != nil {
				r.logger.Warn("failed to cache run", "id", id, "error", err)
			}
		}
	}

	if final != nil && final.IsComplete && final.GhostPostURL != "" && cmd.Bool("open") {
		r.writePlain("Opening %s\n", final.GhostPostURL)
		if err := shared.OpenBrowser(final.GhostPostURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}

// followProgress drains the tracker's update channel, rendering step
// transitions as they arrive, and returns the terminal snapshot.
func (r *Runner) followProgress(ctx context.Context) (*models.GenerationProgress, error) {
	rendered := map[string]models.StepStatus{}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case update := <-r.tracker.Updates():
			if update.Kind == progress.UpdateError && update.Err != nil {
				if errors.Is(update.Err, shared.ErrStreamExhausted) {
					return update.Progress, fmt.Errorf("lost the progress stream: %w", update.Err)
				}
				r.logger.Warn("stream error", "error", update.Err)
			}
			if update.Progress == nil {
				continue
			}

			for _, step := range update.Progress.Steps {
				if rendered[step.Step] == step.Status {
					continue
				}
				rendered[step.Step] = step.Status
				r.renderStep(step)
			}

			if update.Progress.Terminal() {
				r.renderSummary(update.Progress)
				return update.Progress, nil
			}
		}
	}
}

func (r *Runner) renderStep(step models.Step) {
	switch step.Status {
	case models.StepRunning:
		r.writePlain("▸ %s", step.Step)
		if step.Message != "" {
			r.writePlain(": %s", step.Message)
		}
		r.writePlain("\n")
	case models.StepSuccess:
		r.writePlain("✓ %s", step.Step)
		if step.ItemsCount != nil {
			r.writePlain(" (%d items)", *step.ItemsCount)
		}
		r.writePlain("\n")
	case models.StepFailed:
		r.writePlain("✗ %s: %s\n", step.Step, step.Error)
	case models.StepSkipped:
		r.writePlain("- %s (skipped)\n", step.Step)
	}
}

func (r *Runner) renderSummary(final *models.GenerationProgress) {
	r.writePlain("\n")
	switch {
	case final.IsComplete:
		r.writePlainHeader("Generation Complete!")
		if final.GhostPostURL != "" {
			r.writePlain("Post: %s\n", final.GhostPostURL)
		}
		r.writePlain("Elapsed: %s\n", shared.FormatElapsed(final.Elapsed(time.Now())))
	case final.IsCancelled:
		r.writePlainHeader("Generation Cancelled")
	default:
		r.writePlainHeader("Generation Failed")
		if final.Error != "" {
			r.writePlain("Error: %s\n", final.Error)
		}
	}
}

// GeneratePreview renders a newsletter without creating a Ghost post.
func (r *Runner) GeneratePreview(ctx context.Context, cmd *cli.Command) error {
	config := r.buildGenerationConfig(cmd)

	r.logger.Info("requesting preview", "template", config.TemplateID)

	preview, err := r.client.PreviewGeneration(ctx, config)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(preview.HTML), 0644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		r.writePlain("✓ Preview written to %s (%d items)\n", outputPath, preview.ItemsCount)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(preview, cmd.Bool("pretty"))
	}

	r.writePlain("Title: %s\n", preview.Title)
	r.writePlain("Items: %d\n\n", preview.ItemsCount)
	r.writePlain("%s\n", preview.HTML)
	return nil
}

// GenerateCancel cancels a running generation by id.
func (r *Runner) GenerateCancel(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" && r.tracker != nil {
		id = r.tracker.ActiveID()
	}
	if id == "" {
		return fmt.Errorf("%w: generation id is required", shared.ErrMissingArgument)
	}

	r.logger.Info("cancelling generation", "id", id)

	if err := r.client.CancelGeneration(ctx, id); err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}

	r.writePlain("✓ Cancellation requested for %s\n", id)
	return nil
}

// GenerateStatus shows the backend's view of a generation run.
func (r *Runner) GenerateStatus(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: generation id is required", shared.ErrMissingArgument)
	}

	record, err := r.client.GenerationStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, cmd.Bool("pretty"))
	}

	r.writePlain("ID:     %s\n", record.ID)
	r.writePlain("Status: %s\n", record.Status)
	if record.GhostPostURL != "" {
		r.writePlain("Post:   %s\n", record.GhostPostURL)
	}
	if record.ErrorMessage != "" {
		r.writePlain("Error:  %s\n", record.ErrorMessage)
	}
	for _, step := range record.ProgressLog {
		r.renderStep(step)
	}
	return nil
}

// GenerateWatch attaches to an already running generation's stream.
func (r *Runner) GenerateWatch(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")

	if err := r.tracker.Watch(ctx, id); err != nil {
		return fmt.Errorf("failed to attach to generation: %w", err)
	}

	r.writePlain("Watching generation %s\n\n", id)

	_, err := r.followProgress(ctx)
	return err
}
