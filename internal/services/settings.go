package services

import (
	"context"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// GetServices retrieves connection settings for every configured
// integration, keyed by service name.
//
// Calls GET /api/v1/settings/services.
func (c *Client) GetServices(ctx context.Context) (map[string]models.ServiceConfig, error) {
	var configs map[string]models.ServiceConfig
	if err := c.get(ctx, "/settings/services", &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// UpdateService replaces one integration's connection settings.
//
// Calls PUT /api/v1/settings/services/{name}.
func (c *Client) UpdateService(ctx context.Context, name string, config models.ServiceConfig) (*models.ServiceConfig, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: service name is required", shared.ErrInvalidInput)
	}

	var updated models.ServiceConfig
	if err := c.put(ctx, fmt.Sprintf("/settings/services/%s", name), config, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// TestService checks connectivity for one integration.
//
// Calls POST /api/v1/settings/services/{name}/test.
func (c *Client) TestService(ctx context.Context, name string) (*models.ServiceStatus, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: service name is required", shared.ErrInvalidInput)
	}

	var status models.ServiceStatus
	if err := c.post(ctx, fmt.Sprintf("/settings/services/%s/test", name), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// TestAllServices checks connectivity for every enabled integration.
//
// Calls POST /api/v1/settings/services/test-all.
func (c *Client) TestAllServices(ctx context.Context) ([]models.ServiceStatus, error) {
	var statuses []models.ServiceStatus
	if err := c.post(ctx, "/settings/services/test-all", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetPreferences retrieves operator preferences.
//
// Calls GET /api/v1/settings/preferences.
func (c *Client) GetPreferences(ctx context.Context) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := c.get(ctx, "/settings/preferences", &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences replaces operator preferences.
//
// Calls PUT /api/v1/settings/preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs models.Preferences) (*models.Preferences, error) {
	var updated models.Preferences
	if err := c.put(ctx, "/settings/preferences", prefs, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetRetention retrieves the history retention policy.
//
// Calls GET /api/v1/settings/retention.
func (c *Client) GetRetention(ctx context.Context) (*models.RetentionSettings, error) {
	var retention models.RetentionSettings
	if err := c.get(ctx, "/settings/retention", &retention); err != nil {
		return nil, err
	}
	return &retention, nil
}

// UpdateRetention replaces the history retention policy.
//
// Calls PUT /api/v1/settings/retention.
func (c *Client) UpdateRetention(ctx context.Context, retention models.RetentionSettings) (*models.RetentionSettings, error) {
	var updated models.RetentionSettings
	if err := c.put(ctx, "/settings/retention", retention, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ExportSettings downloads the full settings bundle for backup.
//
// Calls GET /api/v1/settings/backup.
func (c *Client) ExportSettings(ctx context.Context) (*models.BackupPayload, error) {
	var backup models.BackupPayload
	if err := c.get(ctx, "/settings/backup", &backup); err != nil {
		return nil, err
	}
	return &backup, nil
}

// RestoreSettings uploads a settings bundle, replacing current settings.
//
// Calls POST /api/v1/settings/restore.
func (c *Client) RestoreSettings(ctx context.Context, backup models.BackupPayload) (*models.RestoreResult, error) {
	var result models.RestoreResult
	if err := c.post(ctx, "/settings/restore", backup, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
