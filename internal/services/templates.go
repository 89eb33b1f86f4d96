package services

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// ListTemplates retrieves all registered newsletter templates.
//
// Calls GET /api/v1/templates.
func (c *Client) ListTemplates(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := c.get(ctx, "/templates", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate retrieves a template by id, including its content.
//
// Calls GET /api/v1/templates/{id}.
func (c *Client) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var template models.Template
	if err := c.get(ctx, fmt.Sprintf("/templates/%s", id), &template); err != nil {
		return nil, mapNotFound(err, shared.ErrTemplateNotFound)
	}
	return &template, nil
}

// CreateTemplate registers a new template.
//
// Calls POST /api/v1/templates.
func (c *Client) CreateTemplate(ctx context.Context, template models.Template) (*models.Template, error) {
	var created models.Template
	if err := c.post(ctx, "/templates", template, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTemplate replaces a template's metadata and content.
//
// Calls PUT /api/v1/templates/{id}.
func (c *Client) UpdateTemplate(ctx context.Context, id string, template models.Template) (*models.Template, error) {
	var updated models.Template
	if err := c.put(ctx, fmt.Sprintf("/templates/%s", id), template, &updated); err != nil {
		return nil, mapNotFound(err, shared.ErrTemplateNotFound)
	}
	return &updated, nil
}

// DeleteTemplate removes a template.
//
// Calls DELETE /api/v1/templates/{id}.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	if err := c.delete(ctx, fmt.Sprintf("/templates/%s", id)); err != nil {
		return mapNotFound(err, shared.ErrTemplateNotFound)
	}
	return nil
}

// PreviewTemplate renders a template with current library data without
// publishing.
//
// Calls POST /api/v1/templates/{id}/preview.
func (c *Client) PreviewTemplate(ctx context.Context, id string) (*models.PreviewResult, error) {
	var preview models.PreviewResult
	if err := c.post(ctx, fmt.Sprintf("/templates/%s/preview", id), nil, &preview); err != nil {
		return nil, mapNotFound(err, shared.ErrTemplateNotFound)
	}
	return &preview, nil
}

// ScanTemplates asks the backend to re-scan its template directory and
// returns the refreshed list.
//
// Calls POST /api/v1/templates/scan.
func (c *Client) ScanTemplates(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := c.post(ctx, "/templates/scan", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// AssignTemplateLabels replaces the label set attached to a template.
//
// Calls PUT /api/v1/templates/{id}/labels.
func (c *Client) AssignTemplateLabels(ctx context.Context, id string, labelIDs []string) (*models.Template, error) {
	body := map[string][]string{"label_ids": labelIDs}

	var updated models.Template
	if err := c.put(ctx, fmt.Sprintf("/templates/%s/labels", id), body, &updated); err != nil {
		return nil, mapNotFound(err, shared.ErrTemplateNotFound)
	}
	return &updated, nil
}
