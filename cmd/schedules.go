package main

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// SchedulesList lists recurring generation schedules.
func (r *Runner) SchedulesList(ctx context.Context, cmd *cli.Command) error {
	schedules, err := r.client.ListSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(schedules, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d schedules:\n\n", len(schedules))
	for i, schedule := range schedules {
		state := "disabled"
		if schedule.Enabled {
			state = "enabled"
		}
		r.writePlain("%d. %s (%s) [%s]\n", i+1, schedule.Name, schedule.ID, state)
		r.writePlain("     cron: %s\n", schedule.CronExpression)
		if schedule.NextRunAt != "" {
			r.writePlain("     next: %s\n", schedule.NextRunAt)
		}
	}
	return nil
}

// SchedulesGet shows a single schedule.
func (r *Runner) SchedulesGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: schedule id is required", shared.ErrMissingArgument)
	}

	schedule, err := r.client.GetSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(schedule, cmd.Bool("pretty"))
	}

	r.writePlain("Name:    %s\n", schedule.Name)
	r.writePlain("ID:      %s\n", schedule.ID)
	r.writePlain("Cron:    %s\n", schedule.CronExpression)
	r.writePlain("Enabled: %v\n", schedule.Enabled)
	if schedule.LastRunAt != "" {
		r.writePlain("Last:    %s\n", schedule.LastRunAt)
	}
	if schedule.NextRunAt != "" {
		r.writePlain("Next:    %s\n", schedule.NextRunAt)
	}
	return nil
}

// SchedulesCreate creates a schedule after validating its CRON expression.
func (r *Runner) SchedulesCreate(ctx context.Context, cmd *cli.Command) error {
	expression := cmd.String("cron")

	validation, err := r.client.ValidateCron(ctx, expression)
	if err != nil {
		return fmt.Errorf("cron validation request failed: %w", err)
	}
	if !validation.Valid {
		return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, validation.Error)
	}

	schedule := models.Schedule{
		Name:           cmd.String("name"),
		CronExpression: expression,
		TemplateID:     cmd.String("template"),
		Enabled:        cmd.Bool("enabled"),
	}

	created, err := r.client.CreateSchedule(ctx, schedule)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	r.writePlain("✓ Schedule created: %s (%s)\n", created.Name, created.ID)
	if created.NextRunAt != "" {
		r.writePlain("  Next run: %s\n", created.NextRunAt)
	}
	return nil
}

// SchedulesUpdate changes the fields of an existing schedule. Only the flags
// the user provided are overlaid on the current state.
func (r *Runner) SchedulesUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: schedule id is required", shared.ErrMissingArgument)
	}

	existing, err := r.client.GetSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}

	schedule := *existing
	if cmd.IsSet("name") {
		schedule.Name = cmd.String("name")
	}
	if cmd.IsSet("cron") {
		expression := cmd.String("cron")
		validation, err := r.client.ValidateCron(ctx, expression)
		if err != nil {
			return fmt.Errorf("cron validation request failed: %w", err)
		}
		if !validation.Valid {
			return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, validation.Error)
		}
		schedule.CronExpression = expression
	}
	if cmd.IsSet("template") {
		schedule.TemplateID = cmd.String("template")
	}
	if cmd.IsSet("enabled") {
		schedule.Enabled = cmd.Bool("enabled")
	}

	updated, err := r.client.UpdateSchedule(ctx, id, schedule)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	r.writePlain("✓ Schedule updated: %s\n", updated.Name)
	if updated.NextRunAt != "" {
		r.writePlain("  Next run: %s\n", updated.NextRunAt)
	}
	return nil
}

// SchedulesDelete removes a schedule.
func (r *Runner) SchedulesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: schedule id is required", shared.ErrMissingArgument)
	}

	if err := r.client.DeleteSchedule(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	r.writePlain("✓ Schedule %s deleted\n", id)
	return nil
}

// SchedulesToggle flips a schedule's enabled state.
func (r *Runner) SchedulesToggle(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: schedule id is required", shared.ErrMissingArgument)
	}

	schedule, err := r.client.ToggleSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to toggle schedule: %w", err)
	}

	state := "disabled"
	if schedule.Enabled {
		state = "enabled"
	}
	r.writePlain("✓ Schedule %s is now %s\n", schedule.Name, state)
	return nil
}

// SchedulesRun executes a schedule immediately.
func (r *Runner) SchedulesRun(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: schedule id is required", shared.ErrMissingArgument)
	}

	r.logger.Info("executing schedule", "id", id)

	record, err := r.client.ExecuteSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute schedule: %w", err)
	}

	r.writePlain("✓ Schedule executed, generation %s started\n", record.ID)
	r.writePlain("  Follow it with: ghostarr generate watch %s\n", record.ID)
	return nil
}

// SchedulesNext shows the upcoming fire times for a schedule.
func (r *Runner) SchedulesNext(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: schedule id is required", shared.ErrMissingArgument)
	}

	next, err := r.client.ScheduleNextRuns(ctx, id, cmd.Int("count"))
	if err != nil {
		return fmt.Errorf("failed to fetch next runs: %w", err)
	}

	r.writePlain("Upcoming runs for %s:\n", next.ScheduleID)
	for i, at := range next.NextRuns {
		r.writePlain("  %d. %s\n", i+1, at)
	}
	return nil
}

// SchedulesValidate validates a CRON expression against the backend.
func (r *Runner) SchedulesValidate(ctx context.Context, cmd *cli.Command) error {
	expression := cmd.StringArg("expression")
	if expression == "" {
		return fmt.Errorf("%w: cron expression is required", shared.ErrMissingArgument)
	}

	validation, err := r.client.ValidateCron(ctx, expression)
	if err != nil {
		return fmt.Errorf("validation request failed: %w", err)
	}

	if !validation.Valid {
		r.writePlain("✗ Invalid: %s\n", validation.Error)
		return nil
	}

	r.writePlain("✓ Valid expression\n")
	for i, at := range validation.NextRuns {
		r.writePlain("  %d. %s\n", i+1, at)
	}
	return nil
}
