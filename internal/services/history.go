package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// HistoryFilter narrows a history listing. Zero values leave the filter
// off.
type HistoryFilter struct {
	Status models.GenerationStatus
	Type   models.GenerationType
	Limit  int
	Offset int
}

func (f HistoryFilter) query() string {
	values := url.Values{}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.Type != "" {
		values.Set("type", string(f.Type))
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

// ListHistory retrieves generation history entries, newest first.
//
// Calls GET /api/v1/history.
func (c *Client) ListHistory(ctx context.Context, filter HistoryFilter) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	if err := c.get(ctx, "/history"+filter.query(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetHistory retrieves one history entry, including its step log.
//
// Calls GET /api/v1/history/{id}.
func (c *Client) GetHistory(ctx context.Context, id string) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	if err := c.get(ctx, fmt.Sprintf("/history/%s", id), &record); err != nil {
		return nil, mapNotFound(err, shared.ErrHistoryNotFound)
	}
	return &record, nil
}

// DeleteHistory removes one history entry.
//
// Calls DELETE /api/v1/history/{id}.
func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	if err := c.delete(ctx, fmt.Sprintf("/history/%s", id)); err != nil {
		return mapNotFound(err, shared.ErrHistoryNotFound)
	}
	return nil
}

// BulkDeleteHistory removes several history entries in one call and
// returns how many the backend deleted.
//
// Calls POST /api/v1/history/bulk-delete.
func (c *Client) BulkDeleteHistory(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: at least one history id is required", shared.ErrInvalidInput)
	}
	body := map[string][]string{"ids": ids}

	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := c.post(ctx, "/history/bulk-delete", body, &result); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}
