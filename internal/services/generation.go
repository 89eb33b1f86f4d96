package services

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// CreateGeneration starts a newsletter generation and returns the pending
// history record, whose id keys the progress stream.
//
// Calls POST /api/v1/newsletters/generate.
func (c *Client) CreateGeneration(ctx context.Context, config models.GenerationConfig) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	if err := c.post(ctx, "/newsletters/generate", config, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, fmt.Errorf("%w: backend returned no generation id", shared.ErrAPIRequest)
	}
	return &record, nil
}

// PreviewGeneration renders the newsletter without publishing it.
//
// Calls POST /api/v1/newsletters/preview.
func (c *Client) PreviewGeneration(ctx context.Context, config models.GenerationConfig) (*models.PreviewResult, error) {
	var preview models.PreviewResult
	if err := c.post(ctx, "/newsletters/preview", config, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// CancelGeneration asks the backend to stop a running generation.
//
// Calls POST /api/v1/newsletters/{id}/cancel.
func (c *Client) CancelGeneration(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: generation id is required", shared.ErrInvalidInput)
	}
	if err := c.post(ctx, fmt.Sprintf("/newsletters/%s/cancel", id), nil, nil); err != nil {
		return mapNotFound(err, shared.ErrGenerationNotFound)
	}
	return nil
}

// GenerationStatus fetches the current history record for a generation,
// used to poll runs started elsewhere.
//
// Calls GET /api/v1/newsletters/{id}/status.
func (c *Client) GenerationStatus(ctx context.Context, id string) (*models.HistoryRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: generation id is required", shared.ErrInvalidInput)
	}

	var record models.HistoryRecord
	if err := c.get(ctx, fmt.Sprintf("/newsletters/%s/status", id), &record); err != nil {
		return nil, mapNotFound(err, shared.ErrGenerationNotFound)
	}
	return &record, nil
}
