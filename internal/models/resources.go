package models

// Template is an HTML newsletter template registered on the backend.
type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Filename    string  `json:"filename,omitempty"`
	Content     string  `json:"content,omitempty"`
	IsDefault   bool    `json:"is_default"`
	Labels      []Label `json:"labels,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// Schedule is a recurring generation or deletion job driven by a CRON expression.
type Schedule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	CronExpression   string            `json:"cron_expression"`
	Enabled          bool              `json:"enabled"`
	Type             string            `json:"type,omitempty"`
	TemplateID       string            `json:"template_id,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
	LastRunAt        string            `json:"last_run_at,omitempty"`
	NextRunAt        string            `json:"next_run_at,omitempty"`
	CreatedAt        string            `json:"created_at,omitempty"`
}

// ScheduleNextRuns lists the upcoming fire times for a schedule.
type ScheduleNextRuns struct {
	ScheduleID string   `json:"schedule_id"`
	NextRuns   []string `json:"next_runs"`
}

// Label tags templates for organization.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ServiceStatus is the result of testing one configured integration.
type ServiceStatus struct {
	Service string `json:"service"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ServiceConfig holds connection settings for one backend integration
// (tautulli, tmdb, romm, komga, audiobookshelf, tunarr, ghost).
type ServiceConfig struct {
	URL     string         `json:"url,omitempty"`
	APIKey  string         `json:"api_key,omitempty"`
	Enabled bool           `json:"enabled"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Preferences are operator-level UI/behavior settings.
type Preferences struct {
	Theme         string `json:"theme,omitempty"`
	Language      string `json:"language,omitempty"`
	DefaultsSaved bool   `json:"defaults_saved"`
}

// RetentionSettings control automatic pruning of generation history.
type RetentionSettings struct {
	Enabled       bool `json:"enabled"`
	RetentionDays int  `json:"retention_days"`
	DeleteGhost   bool `json:"delete_ghost_posts"`
}

// LogEntry is one backend application log line.
type LogEntry struct {
	ID        int    `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LogStats summarizes backend log volume by level.
type LogStats struct {
	Total  int            `json:"total"`
	Levels map[string]int `json:"levels"`
}

// PreviewResult is a rendered newsletter preview.
type PreviewResult struct {
	HTML       string `json:"html"`
	Title      string `json:"title"`
	ItemsCount int    `json:"items_count"`
}

// BackupPayload is the exported settings bundle produced by the backend.
type BackupPayload struct {
	Version  string         `json:"version,omitempty"`
	Services map[string]any `json:"services,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// RestoreResult reports the outcome of a settings import.
type RestoreResult struct {
	Restored int      `json:"restored"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
