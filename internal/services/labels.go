package services

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// ListLabels retrieves all template labels.
//
// Calls GET /api/v1/labels.
func (c *Client) ListLabels(ctx context.Context) ([]models.Label, error) {
	var labels []models.Label
	if err := c.get(ctx, "/labels", &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel registers a new label.
//
// Calls POST /api/v1/labels.
func (c *Client) CreateLabel(ctx context.Context, label models.Label) (*models.Label, error) {
	var created models.Label
	if err := c.post(ctx, "/labels", label, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLabel renames or recolors a label.
//
// Calls PUT /api/v1/labels/{id}.
func (c *Client) UpdateLabel(ctx context.Context, id string, label models.Label) (*models.Label, error) {
	var updated models.Label
	if err := c.put(ctx, fmt.Sprintf("/labels/%s", id), label, &updated); err != nil {
		return nil, mapNotFound(err, shared.ErrLabelNotFound)
	}
	return &updated, nil
}

// DeleteLabel removes a label from all templates and deletes it.
//
// Calls DELETE /api/v1/labels/{id}.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	if err := c.delete(ctx, fmt.Sprintf("/labels/%s", id)); err != nil {
		return mapNotFound(err, shared.ErrLabelNotFound)
	}
	return nil
}
