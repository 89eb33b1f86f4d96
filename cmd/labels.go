package main

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// LabelsList lists template labels.
func (r *Runner) LabelsList(ctx context.Context, cmd *cli.Command) error {
	labels, err := r.client.ListLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list labels: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(labels, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d labels:\n\n", len(labels))
	for i, label := range labels {
		r.writePlain("%d. %s (%s)", i+1, label.Name, label.ID)
		if label.Color != "" {
			r.writePlain(" %s", label.Color)
		}
		r.writePlain("\n")
	}
	return nil
}

// LabelsCreate creates a template label.
func (r *Runner) LabelsCreate(ctx context.Context, cmd *cli.Command) error {
	label := models.Label{
		Name:  cmd.String("name"),
		Color: cmd.String("color"),
	}

	created, err := r.client.CreateLabel(ctx, label)
	if err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}

	r.writePlain("✓ Label created: %s (%s)\n", created.Name, created.ID)
	return nil
}

// LabelsUpdate renames or recolors a template label.
func (r *Runner) LabelsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: label id is required", shared.ErrMissingArgument)
	}

	label := models.Label{
		Name:  cmd.String("name"),
		Color: cmd.String("color"),
	}

	updated, err := r.client.UpdateLabel(ctx, id, label)
	if err != nil {
		return fmt.Errorf("failed to update label: %w", err)
	}

	r.writePlain("✓ Label updated: %s\n", updated.Name)
	return nil
}

// LabelsDelete removes a template label.
func (r *Runner) LabelsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: label id is required", shared.ErrMissingArgument)
	}

	if err := r.client.DeleteLabel(ctx, id); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}

	r.writePlain("✓ Label %s deleted\n", id)
	return nil
}
