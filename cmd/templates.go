package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// TemplatesList lists the templates registered on the backend.
func (r *Runner) TemplatesList(ctx context.Context, cmd *cli.Command) error {
	templates, err := r.client.ListTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(templates, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d templates:\n\n", len(templates))
	for i, template := range templates {
		marker := " "
		if template.IsDefault {
			marker = "*"
		}
		r.writePlain("%d. %s %s (%s)\n", i+1, marker, template.Name, template.ID)
		if template.Description != "" {
			r.writePlain("     %s\n", template.Description)
		}
		if len(template.Labels) > 0 {
			names := make([]string, len(template.Labels))
			for j, label := range template.Labels {
				names[j] = label.Name
			}
			r.writePlain("     labels: %s\n", strings.Join(names, ", "))
		}
	}
	return nil
}

// TemplatesGet shows a single template.
func (r *Runner) TemplatesGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id is required", shared.ErrMissingArgument)
	}

	template, err := r.client.GetTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch template: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(template, cmd.Bool("pretty"))
	}

	r.writePlain("Name:     %s\n", template.Name)
	r.writePlain("ID:       %s\n", template.ID)
	r.writePlain("File:     %s\n", template.Filename)
	r.writePlain("Default:  %v\n", template.IsDefault)
	if template.Description != "" {
		r.writePlain("About:    %s\n", template.Description)
	}
	return nil
}

// TemplatesCreate registers a new template from a local HTML file.
func (r *Runner) TemplatesCreate(ctx context.Context, cmd *cli.Command) error {
	content, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	template := models.Template{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		Content:     string(content),
	}

	created, err := r.client.CreateTemplate(ctx, template)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	r.writePlain("✓ Template created: %s (%s)\n", created.Name, created.ID)
	return nil
}

// TemplatesUpdate updates a template's name, description, or content.
func (r *Runner) TemplatesUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id is required", shared.ErrMissingArgument)
	}

	existing, err := r.client.GetTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch template: %w", err)
	}

	template := *existing
	if name := cmd.String("name"); name != "" {
		template.Name = name
	}
	if description := cmd.String("description"); description != "" {
		template.Description = description
	}
	if filePath := cmd.String("file"); filePath != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		template.Content = string(content)
	}

	updated, err := r.client.UpdateTemplate(ctx, id, template)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	r.writePlain("✓ Template updated: %s\n", updated.Name)
	return nil
}

// TemplatesDelete removes a template from the backend.
func (r *Runner) TemplatesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id is required", shared.ErrMissingArgument)
	}

	if err := r.client.DeleteTemplate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	r.writePlain("✓ Template %s deleted\n", id)
	return nil
}

// TemplatesPreview renders a template with sample data.
func (r *Runner) TemplatesPreview(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id is required", shared.ErrMissingArgument)
	}

	preview, err := r.client.PreviewTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(preview.HTML), 0644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		r.writePlain("✓ Preview written to %s\n", outputPath)
		return nil
	}

	r.writePlain("%s\n", preview.HTML)
	return nil
}

// TemplatesScan asks the backend to rescan its template directory.
func (r *Runner) TemplatesScan(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("scanning template directory")

	templates, err := r.client.ScanTemplates(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	r.writePlain("✓ Scan complete, %d templates registered\n", len(templates))
	return nil
}

// TemplatesLabels replaces a template's label assignments.
func (r *Runner) TemplatesLabels(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id is required", shared.ErrMissingArgument)
	}

	labelIDs := cmd.StringSlice("label")

	template, err := r.client.AssignTemplateLabels(ctx, id, labelIDs)
	if err != nil {
		return fmt.Errorf("failed to assign labels: %w", err)
	}

	r.writePlain("✓ Template %s now has %d labels\n", template.Name, len(template.Labels))
	return nil
}
