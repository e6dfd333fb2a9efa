package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"buildlog/internal/models"
)

type ArchiveRepositoryImpl struct {
	db *sqlx.DB
}

func NewArchiveRepository(db *sqlx.DB) *ArchiveRepositoryImpl {
	return &ArchiveRepositoryImpl{db: db}
}

// ExportAll reads all four record kinds inside one repeatable-read
// transaction, so the snapshot is a consistent point-in-time set even with
// writers running.
func (r *ArchiveRepositoryImpl) ExportAll(ctx context.Context) (*models.Snapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin export transaction: %w", err)
	}
	defer tx.Rollback()

	snapshot := &models.Snapshot{
		Builds:    []models.Build{},
		Photos:    []models.Photo{},
		Templates: []models.ContentTemplate{},
		Events:    []models.CalendarEvent{},
	}

	if err := tx.SelectContext(ctx, &snapshot.Builds, `SELECT * FROM builds ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to export builds: %w", err)
	}
	if err := tx.SelectContext(ctx, &snapshot.Photos, `SELECT * FROM photos ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to export photos: %w", err)
	}
	if err := tx.SelectContext(ctx, &snapshot.Templates, `SELECT * FROM content_templates ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to export templates: %w", err)
	}
	if err := tx.SelectContext(ctx, &snapshot.Events, `SELECT * FROM calendar_events ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to export calendar events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit export: %w", err)
	}

	return snapshot, nil
}

// ImportAll appends every record of the snapshot as one atomic batch. Ids and
// timestamps are preserved verbatim; nothing is merged or deduplicated.
// Builds go first so photo and event foreign keys resolve.
func (r *ArchiveRepositoryImpl) ImportAll(ctx context.Context, snapshot *models.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range snapshot.Builds {
		if _, err := tx.NamedExecContext(ctx, insertBuildQuery, &snapshot.Builds[i]); err != nil {
			return fmt.Errorf("failed to import build %s: %w", snapshot.Builds[i].BuildID, err)
		}
	}
	for i := range snapshot.Photos {
		if _, err := tx.NamedExecContext(ctx, insertPhotoQuery, &snapshot.Photos[i]); err != nil {
			return fmt.Errorf("failed to import photo %s: %w", snapshot.Photos[i].PhotoID, err)
		}
	}
	for i := range snapshot.Templates {
		if _, err := tx.NamedExecContext(ctx, insertTemplateQuery, &snapshot.Templates[i]); err != nil {
			return fmt.Errorf("failed to import template %s: %w", snapshot.Templates[i].TemplateID, err)
		}
	}
	for i := range snapshot.Events {
		if _, err := tx.NamedExecContext(ctx, insertEventQuery, &snapshot.Events[i]); err != nil {
			return fmt.Errorf("failed to import calendar event %s: %w", snapshot.Events[i].EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	return nil
}

// ClearAll empties every store atomically, children before parents.
func (r *ArchiveRepositoryImpl) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"calendar_events", "photos", "content_templates", "builds"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}

	return nil
}

func (r *ArchiveRepositoryImpl) GetStats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM builds) AS total_builds,
			(SELECT COUNT(*) FROM photos) AS total_photos,
			(SELECT COUNT(*) FROM photos WHERE build_id IS NOT NULL) AS assigned_photos,
			(SELECT COUNT(*) FROM calendar_events) AS scheduled_events
	`

	var stats models.Stats
	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.UnassignedPhotos = stats.TotalPhotos - stats.AssignedPhotos

	return &stats, nil
}
