package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ghostarr/ghostarr/internal/models"
)

// LogFilter narrows a log listing. Zero values leave the filter off.
type LogFilter struct {
	Level  string
	Search string
	Limit  int
	Offset int
}

func (f LogFilter) query() string {
	values := url.Values{}
	if f.Level != "" {
		values.Set("level", f.Level)
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		values.Set("offset", strconv.Itoa(f.Offset))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ListLogs retrieves backend application logs, newest first.
//
// Calls GET /api/v1/logs.
func (c *Client) ListLogs(ctx context.Context, filter LogFilter) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := c.get(ctx, "/logs"+filter.query(), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LogStats retrieves log volume per level.
//
// Calls GET /api/v1/logs/stats.
func (c *Client) LogStats(ctx context.Context) (*models.LogStats, error) {
	var stats models.LogStats
	if err := c.get(ctx, "/logs/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PurgeLogs deletes backend logs, optionally only those older than the
// given number of days. Returns how many rows were removed.
//
// Calls DELETE /api/v1/logs.
func (c *Client) PurgeLogs(ctx context.Context, olderThanDays int) (int, error) {
	endpoint := "/logs"
	if olderThanDays > 0 {
		endpoint += "?older_than_days=" + strconv.Itoa(olderThanDays)
	}

	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := c.doRequest(ctx, http.MethodDelete, endpoint, nil, &result); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}
