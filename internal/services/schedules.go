package services

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// CronValidation is the backend's verdict on a CRON expression.
type CronValidation struct {
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	NextRuns []string `json:"next_runs,omitempty"`
}

// ListSchedules retrieves all generation schedules.
//
// Calls GET /api/v1/schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := c.get(ctx, "/schedules", &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedule retrieves a schedule by id.
//
// Calls GET /api/v1/schedules/{id}.
func (c *Client) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := c.get(ctx, fmt.Sprintf("/schedules/%s", id), &schedule); err != nil {
		return nil, mapNotFound(err, shared.ErrScheduleNotFound)
	}
	return &schedule, nil
}

// CreateSchedule registers a new schedule.
//
// Calls POST /api/v1/schedules.
func (c *Client) CreateSchedule(ctx context.Context, schedule models.Schedule) (*models.Schedule, error) {
	var created models.Schedule
	if err := c.post(ctx, "/schedules", schedule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSchedule replaces a schedule's definition.
//
// Calls PUT /api/v1/schedules/{id}.
func (c *Client) UpdateSchedule(ctx context.Context, id string, schedule models.Schedule) (*models.Schedule, error) {
	var updated models.Schedule
	if err := c.put(ctx, fmt.Sprintf("/schedules/%s", id), schedule, &updated); err != nil {
		return nil, mapNotFound(err, shared.ErrScheduleNotFound)
	}
	return &updated, nil
}

// DeleteSchedule removes a schedule.
//
// Calls DELETE /api/v1/schedules/{id}.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	if err := c.delete(ctx, fmt.Sprintf("/schedules/%s", id)); err != nil {
		return mapNotFound(err, shared.ErrScheduleNotFound)
	}
	return nil
}

// ToggleSchedule flips a schedule between enabled and disabled.
//
// Calls POST /api/v1/schedules/{id}/toggle.
func (c *Client) ToggleSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := c.post(ctx, fmt.Sprintf("/schedules/%s/toggle", id), nil, &schedule); err != nil {
		return nil, mapNotFound(err, shared.ErrScheduleNotFound)
	}
	return &schedule, nil
}

// ExecuteSchedule fires a schedule immediately, returning the pending
// history record of the run it started.
//
// Calls POST /api/v1/schedules/{id}/execute.
func (c *Client) ExecuteSchedule(ctx context.Context, id string) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	if err := c.post(ctx, fmt.Sprintf("/schedules/%s/execute", id), nil, &record); err != nil {
		return nil, mapNotFound(err, shared.ErrScheduleNotFound)
	}
	return &record, nil
}

// ScheduleNextRuns lists the next fire times for a schedule.
//
// Calls GET /api/v1/schedules/{id}/next-runs.
func (c *Client) ScheduleNextRuns(ctx context.Context, id string, count int) (*models.ScheduleNextRuns, error) {
	endpoint := fmt.Sprintf("/schedules/%s/next-runs", id)
	if count > 0 {
		endpoint = fmt.Sprintf("%s?count=%d", endpoint, count)
	}

	var runs models.ScheduleNextRuns
	if err := c.get(ctx, endpoint, &runs); err != nil {
		return nil, mapNotFound(err, shared.ErrScheduleNotFound)
	}
	return &runs, nil
}

// ValidateCron checks a CRON expression server-side without creating a
// schedule.
//
// Calls POST /api/v1/schedules/validate-cron.
func (c *Client) ValidateCron(ctx context.Context, expression string) (*CronValidation, error) {
	if expression == "" {
		return nil, fmt.Errorf("%w: cron expression is required", shared.ErrInvalidInput)
	}
	body := map[string]string{"cron_expression": expression}

	var validation CronValidation
	if err := c.post(ctx, "/schedules/validate-cron", body, &validation); err != nil {
		return nil, err
	}
	return &validation, nil
}
