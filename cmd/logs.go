package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/ghostarr/ghostarr/internal/services"
	"github.com/urfave/cli/v3"
)

// LogsList lists backend log entries.
func (r *Runner) LogsList(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.client.ListLogs(ctx, services.LogFilter{
		Level:  cmd.String("level"),
		Search: cmd.String("search"),
		Limit:  cmd.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	for _, entry := range entries {
		r.writePlain("%s [%s] %s", entry.CreatedAt, entry.Level, entry.Message)
		if entry.Source != "" {
			r.writePlain(" (%s)", entry.Source)
		}
		r.writePlain("\n")
	}
	return nil
}

// LogsStats shows backend log volume by level.
func (r *Runner) LogsStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.client.LogStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch log stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlain("Total: %d entries\n", stats.Total)

	levels := make([]string, 0, len(stats.Levels))
	for level := range stats.Levels {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		r.writePlain("  %-8s %d\n", level, stats.Levels[level])
	}
	return nil
}

// LogsPurge deletes old backend log entries.
func (r *Runner) LogsPurge(ctx context.Context, cmd *cli.Command) error {
	days := cmd.Int("older-than")

	r.logger.Info("purging logs", "older_than_days", days)

	deleted, err := r.client.PurgeLogs(ctx, days)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	r.writePlain("✓ Deleted %d log entries older than %d days\n", deleted, days)
	return nil
}
