package models

import (
	"fmt"
	"time"
)

// GenerationType distinguishes manual runs from scheduled ones.
type GenerationType string

const (
	GenerationManual    GenerationType = "manual"
	GenerationScheduled GenerationType = "scheduled"
)

// GenerationStatus is the backend's lifecycle status for a history entry.
type GenerationStatus string

const (
	StatusPending   GenerationStatus = "pending"
	StatusRunning   GenerationStatus = "running"
	StatusSuccess   GenerationStatus = "success"
	StatusFailed    GenerationStatus = "failed"
	StatusCancelled GenerationStatus = "cancelled"
)

// HistoryRecord is one generation history entry as returned by the backend.
type HistoryRecord struct {
	ID              string           `json:"id"`
	Type            GenerationType   `json:"type"`
	ScheduleID      string           `json:"schedule_id,omitempty"`
	TemplateID      string           `json:"template_id,omitempty"`
	Status          GenerationStatus `json:"status"`
	GhostPostID     string           `json:"ghost_post_id,omitempty"`
	GhostPostURL    string           `json:"ghost_post_url,omitempty"`
	ProgressLog     []Step           `json:"progress_log,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	ItemsCount      int              `json:"items_count"`
	DurationSeconds float64          `json:"duration_seconds,omitempty"`
	StartedAt       string           `json:"started_at,omitempty"`
	CompletedAt     string           `json:"completed_at,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
}

// CachedRun is a locally persisted copy of a HistoryRecord.
//
// Implements [Model] for the sqlite cache repository.
type CachedRun struct {
	id        string
	Record    HistoryRecord
	Sequence  int
	createdAt time.Time
	updatedAt time.Time
}

// NewCachedRun wraps a backend history record for local persistence.
func NewCachedRun(record HistoryRecord) *CachedRun {
	now := time.Now()
	return &CachedRun{
		id:        record.ID,
		Record:    record,
		createdAt: now,
		updatedAt: now,
	}
}

func (c *CachedRun) ID() string           { return c.id }
func (c *CachedRun) CreatedAt() time.Time { return c.createdAt }
func (c *CachedRun) UpdatedAt() time.Time { return c.updatedAt }

// SetID assigns the cache row identifier.
func (c *CachedRun) SetID(id string) { c.id = id }

// SetUpdatedAt stamps the row's last modification time.
func (c *CachedRun) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// SetTimestamps restores persistence timestamps when scanning from the database.
func (c *CachedRun) SetTimestamps(created, updated time.Time) {
	c.createdAt = created
	c.updatedAt = updated
}

// Validate checks the cached record's required fields.
func (c *CachedRun) Validate() error {
	if c.id == "" {
		return fmt.Errorf("cached run missing id")
	}
	if c.Record.Status == "" {
		return fmt.Errorf("cached run %s missing status", c.id)
	}
	return nil
}
