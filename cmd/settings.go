package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsServices lists the backend's configured service integrations.
func (r *Runner) SettingsServices(ctx context.Context, cmd *cli.Command) error {
	configs, err := r.client.GetServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch services: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(configs, cmd.Bool("pretty"))
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		config := configs[name]
		state := "disabled"
		if config.Enabled {
			state = "enabled"
		}
		r.writePlain("%-16s [%s]", name, state)
		if config.URL != "" {
			r.writePlain(" %s", config.URL)
		}
		r.writePlain("\n")
	}
	return nil
}

// SettingsTest tests one service connection or all of them.
func (r *Runner) SettingsTest(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		results, err := r.client.TestAllServices(ctx)
		if err != nil {
			return fmt.Errorf("service tests failed: %w", err)
		}
		for _, result := range results {
			r.renderServiceStatus(result)
		}
		return nil
	}

	name := cmd.StringArg("service")
	if name == "" {
		return fmt.Errorf("%w: service name or --all is required", shared.ErrMissingArgument)
	}

	result, err := r.client.TestService(ctx, name)
	if err != nil {
		return fmt.Errorf("service test failed: %w", err)
	}
	r.renderServiceStatus(*result)
	return nil
}

func (r *Runner) renderServiceStatus(status models.ServiceStatus) {
	glyph := "✗"
	if status.Success {
		glyph = "✓"
	}
	r.writePlain("%s %s", glyph, status.Service)
	if status.Message != "" {
		r.writePlain(": %s", status.Message)
	}
	r.writePlain("\n")
}

// SettingsPreferences shows operator preferences.
func (r *Runner) SettingsPreferences(ctx context.Context, cmd *cli.Command) error {
	prefs, err := r.client.GetPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch preferences: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(prefs, cmd.Bool("pretty"))
	}

	r.writePlain("Theme:    %s\n", prefs.Theme)
	r.writePlain("Language: %s\n", prefs.Language)
	return nil
}

// SettingsRetention shows or updates the history retention policy.
func (r *Runner) SettingsRetention(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("set") {
		updated, err := r.client.UpdateRetention(ctx, models.RetentionSettings{
			Enabled:       cmd.Bool("enabled"),
			RetentionDays: cmd.Int("days"),
		})
		if err != nil {
			return fmt.Errorf("failed to update retention: %w", err)
		}
		r.writePlain("✓ Retention updated: %d days (enabled: %v)\n", updated.RetentionDays, updated.Enabled)
		return nil
	}

	retention, err := r.client.GetRetention(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch retention: %w", err)
	}

	r.writePlain("Enabled: %v\n", retention.Enabled)
	r.writePlain("Days:    %d\n", retention.RetentionDays)
	return nil
}

// SettingsBackup exports all backend settings to a local file.
func (r *Runner) SettingsBackup(ctx context.Context, cmd *cli.Command) error {
	backup, err := r.client.ExportSettings(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	data, err := shared.MarshalJSON(backup, true)
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	outputPath := cmd.String("output")
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	r.writePlain("✓ Settings exported to %s\n", outputPath)
	return nil
}

// SettingsRestore imports backend settings from a backup file.
func (r *Runner) SettingsRestore(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.StringArg("file")
	if filePath == "" {
		return fmt.Errorf("%w: backup file path is required", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup models.BackupPayload
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("%w: invalid backup file: %v", shared.ErrInvalidArgument, err)
	}

	result, err := r.client.RestoreSettings(ctx, backup)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	r.writePlain("✓ Restored %d settings (%d skipped)\n", result.Restored, result.Skipped)
	for _, restoreErr := range result.Errors {
		r.writePlain("  ! %s\n", restoreErr)
	}
	return nil
}
