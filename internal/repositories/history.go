package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// HistoryRepository implements models.Repository[*models.CachedRun] for the
// local generation history cache.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a cached run with a generated sequence number.
func (r *HistoryRepository) Create(run *models.CachedRun) error {
	sequence, err := NextSequence(r.db, "history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.Sequence = sequence

	if run.ID() == "" {
		run.SetID(shared.GenerateID())
	}
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	progressLog, err := encodeProgressLog(run.Record.ProgressLog)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO history (
			id, sequence, type, status, template_id, schedule_id,
			ghost_post_id, ghost_post_url, error_message, items_count,
			duration_seconds, progress_log, started_at, completed_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence,
		string(run.Record.Type),
		string(run.Record.Status),
		nullable(run.Record.TemplateID),
		nullable(run.Record.ScheduleID),
		nullable(run.Record.GhostPostID),
		nullable(run.Record.GhostPostURL),
		nullable(run.Record.ErrorMessage),
		run.Record.ItemsCount,
		run.Record.DurationSeconds,
		progressLog,
		nullable(run.Record.StartedAt),
		nullable(run.Record.CompletedAt),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history row: %w", err)
	}

	return nil
}

// Get retrieves a cached run by ID, excluding soft-deleted rows.
func (r *HistoryRepository) Get(id string) (*models.CachedRun, error) {
	query := selectColumns + " WHERE id = ? AND deleted_at IS NULL"
	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrHistoryNotFound, id)
	}
	return run, err
}

// Update rewrites a cached run's backend fields.
func (r *HistoryRepository) Update(run *models.CachedRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	run.SetUpdatedAt(time.Now())

	progressLog, err := encodeProgressLog(run.Record.ProgressLog)
	if err != nil {
		return err
	}

	query := `
		UPDATE history
		SET type = ?, status = ?, template_id = ?, schedule_id = ?,
			ghost_post_id = ?, ghost_post_url = ?, error_message = ?,
			items_count = ?, duration_seconds = ?, progress_log = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Record.Type),
		string(run.Record.Status),
		nullable(run.Record.TemplateID),
		nullable(run.Record.ScheduleID),
		nullable(run.Record.GhostPostID),
		nullable(run.Record.GhostPostURL),
		nullable(run.Record.ErrorMessage),
		run.Record.ItemsCount,
		run.Record.DurationSeconds,
		progressLog,
		nullable(run.Record.StartedAt),
		nullable(run.Record.CompletedAt),
		run.UpdatedAt(),
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update history row: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrHistoryNotFound, run.ID())
	}

	return nil
}

// Delete soft-deletes a cached run by ID.
func (r *HistoryRepository) Delete(id string) error {
	query := `
		UPDATE history
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete history row: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrHistoryNotFound, id)
	}

	return nil
}

// List retrieves cached runs matching the criteria, newest first.
//
// Supported keys: "status", "type" (strings) and "limit" (int).
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.CachedRun, error) {
	query := selectColumns + " WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if runType, ok := criteria["type"].(string); ok && runType != "" {
		query += " AND type = ?"
		args = append(args, runType)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var runs []*models.CachedRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Upsert inserts a backend record or refreshes the existing cached copy,
// keeping the original sequence number on refresh. Used when syncing
// listings from the backend.
func (r *HistoryRepository) Upsert(record models.HistoryRecord) error {
	existing, err := r.Get(record.ID)
	if err == nil {
		existing.Record = record
		return r.Update(existing)
	}

	return r.Create(models.NewCachedRun(record))
}

// Prune soft-deletes cached runs whose backend run completed before the
// cutoff. Returns how many rows were pruned.
func (r *HistoryRepository) Prune(cutoff time.Time) (int, error) {
	query := `
		UPDATE history
		SET deleted_at = ?
		WHERE deleted_at IS NULL AND created_at < ?
	`

	result, err := r.db.Exec(query, time.Now(), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

const selectColumns = `
	SELECT
		id, sequence, type, status, template_id, schedule_id,
		ghost_post_id, ghost_post_url, error_message, items_count,
		duration_seconds, progress_log, started_at, completed_at,
		created_at, updated_at
	FROM history`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.CachedRun, error) {
	var (
		id              string
		sequence        int
		runType         string
		status          string
		templateID      sql.NullString
		scheduleID      sql.NullString
		ghostPostID     sql.NullString
		ghostPostURL    sql.NullString
		errorMessage    sql.NullString
		itemsCount      int
		durationSeconds sql.NullFloat64
		progressLog     sql.NullString
		startedAt       sql.NullString
		completedAt     sql.NullString
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(
		&id, &sequence, &runType, &status, &templateID, &scheduleID,
		&ghostPostID, &ghostPostURL, &errorMessage, &itemsCount,
		&durationSeconds, &progressLog, &startedAt, &completedAt,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan history row: %w", err)
	}

	record := models.HistoryRecord{
		ID:              id,
		Type:            models.GenerationType(runType),
		Status:          models.GenerationStatus(status),
		TemplateID:      templateID.String,
		ScheduleID:      scheduleID.String,
		GhostPostID:     ghostPostID.String,
		GhostPostURL:    ghostPostURL.String,
		ErrorMessage:    errorMessage.String,
		ItemsCount:      itemsCount,
		DurationSeconds: durationSeconds.Float64,
		StartedAt:       startedAt.String,
		CompletedAt:     completedAt.String,
	}

	if progressLog.Valid && progressLog.String != "" {
		if err := json.Unmarshal([]byte(progressLog.String), &record.ProgressLog); err != nil {
			return nil, fmt.Errorf("failed to decode progress log for %s: %w", id, err)
		}
	}

	run := models.NewCachedRun(record)
	run.Sequence = sequence
	run.SetTimestamps(createdAt, updatedAt)
	return run, nil
}

func encodeProgressLog(steps []models.Step) (any, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode progress log: %w", err)
	}
	return string(payload), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
