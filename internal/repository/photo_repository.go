package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"buildlog/internal/models"
)

type PhotoRepositoryImpl struct {
	db *sqlx.DB
}

// UpdatePhotoRequest carries a partial update; nil fields are left untouched.
// Assignment is never changed here, only through Assign/Unassign/BulkAssign.
type UpdatePhotoRequest struct {
	Filename      *string    `json:"filename"`
	Caption       *string    `json:"caption"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Posted        *bool      `json:"posted"`
}

// PhotoFilter is a conjunction of optional criteria. TakenAfter/TakenBefore
// bound taken_at inclusively.
type PhotoFilter struct {
	BuildID     *string    `json:"buildId"`
	Assigned    *bool      `json:"assigned"`
	TakenAfter  *time.Time `json:"takenAfter"`
	TakenBefore *time.Time `json:"takenBefore"`
	Posted      *bool      `json:"posted"`
}

const insertPhotoQuery = `
	INSERT INTO photos
	(photo_id, source_id, url, thumbnail_url, taken_at, filename, build_id, caption,
	 scheduled_date, posted, width, height, camera_make, camera_model, created_at)
	VALUES
	(:photo_id, :source_id, :url, :thumbnail_url, :taken_at, :filename, :build_id, :caption,
	 :scheduled_date, :posted, :width, :height, :camera_make, :camera_model, :created_at)
`

func NewPhotoRepository(db *sqlx.DB) *PhotoRepositoryImpl {
	return &PhotoRepositoryImpl{db: db}
}

// AddBatch inserts externally-sourced photo records verbatim as one atomic
// batch. Ids come from the source; only missing ids and timestamps are filled
// in. No assignment happens here.
func (r *PhotoRepositoryImpl) AddBatch(ctx context.Context, photos []models.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range photos {
		if photos[i].PhotoID == "" {
			photos[i].PhotoID = uuid.New().String()
		}
		if photos[i].CreatedAt.IsZero() {
			photos[i].CreatedAt = time.Now()
		}

		if _, err := tx.NamedExecContext(ctx, insertPhotoQuery, &photos[i]); err != nil {
			return fmt.Errorf("failed to add photo %s: %w", photos[i].PhotoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit photo batch: %w", err)
	}

	return nil
}

func (r *PhotoRepositoryImpl) GetAll(ctx context.Context) ([]models.Photo, error) {
	query := `SELECT * FROM photos ORDER BY taken_at DESC`

	var photos []models.Photo
	err := r.db.SelectContext(ctx, &photos, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, nil
}

func (r *PhotoRepositoryImpl) GetByID(ctx context.Context, photoID string) (*models.Photo, error) {
	query := `SELECT * FROM photos WHERE photo_id = $1`

	var photo models.Photo
	err := r.db.GetContext(ctx, &photo, query, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return &photo, nil
}

func (r *PhotoRepositoryImpl) GetByBuild(ctx context.Context, buildID string) ([]models.Photo, error) {
	query := `SELECT * FROM photos WHERE build_id = $1 ORDER BY taken_at`

	var photos []models.Photo
	err := r.db.SelectContext(ctx, &photos, query, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list build photos: %w", err)
	}

	return photos, nil
}

func (r *PhotoRepositoryImpl) GetUnassigned(ctx context.Context) ([]models.Photo, error) {
	query := `SELECT * FROM photos WHERE build_id IS NULL ORDER BY taken_at DESC`

	var photos []models.Photo
	err := r.db.SelectContext(ctx, &photos, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned photos: %w", err)
	}

	return photos, nil
}

// Assign links a photo to a build and refreshes the build's updated
// timestamp. Both writes commit together or not at all; assigning to a
// missing build aborts without touching the photo.
func (r *PhotoRepositoryImpl) Assign(ctx context.Context, photoID, buildID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := assignInTx(ctx, tx, photoID, buildID); err != nil {
		return err
	}

	if err := touchBuild(ctx, tx, buildID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}

	return nil
}

// Unassign clears the photo's build reference and refreshes the former
// build's updated timestamp in the same transaction.
func (r *PhotoRepositoryImpl) Unassign(ctx context.Context, photoID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var buildID *string
	err = tx.GetContext(ctx, &buildID, `SELECT build_id FROM photos WHERE photo_id = $1`, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE photos SET build_id = NULL WHERE photo_id = $1`, photoID)
	if err != nil {
		return fmt.Errorf("failed to unassign photo: %w", err)
	}

	if buildID != nil {
		if err := touchBuild(ctx, tx, *buildID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unassignment: %w", err)
	}

	return nil
}

// BulkAssign applies Assign semantics to every id in one transaction: either
// the whole batch lands or no partial moves are observable.
func (r *PhotoRepositoryImpl) BulkAssign(ctx context.Context, photoIDs []string, buildID string) error {
	if len(photoIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, photoID := range photoIDs {
		if err := assignInTx(ctx, tx, photoID, buildID); err != nil {
			return err
		}
	}

	if err := touchBuild(ctx, tx, buildID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk assignment: %w", err)
	}

	return nil
}

func (r *PhotoRepositoryImpl) Update(ctx context.Context, photoID string, req UpdatePhotoRequest) error {
	var photo models.Photo
	err := r.db.GetContext(ctx, &photo, `SELECT * FROM photos WHERE photo_id = $1`, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}

	if req.Filename != nil {
		photo.Filename = *req.Filename
	}
	if req.Caption != nil {
		photo.Caption = req.Caption
	}
	if req.ScheduledDate != nil {
		photo.ScheduledDate = req.ScheduledDate
	}
	if req.Posted != nil {
		photo.Posted = *req.Posted
	}

	query := `
		UPDATE photos SET
			filename = :filename,
			caption = :caption,
			scheduled_date = :scheduled_date,
			posted = :posted
		WHERE photo_id = :photo_id
	`

	result, err := r.db.NamedExecContext(ctx, query, &photo)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

// Delete removes a photo, refreshing its former build's updated timestamp in
// the same transaction so the build's derived photo list and the record
// change together. Calendar events for the photo go away with the cascade.
func (r *PhotoRepositoryImpl) Delete(ctx context.Context, photoID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var buildID *string
	err = tx.GetContext(ctx, &buildID, `SELECT build_id FROM photos WHERE photo_id = $1`, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM photos WHERE photo_id = $1`, photoID)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if buildID != nil {
		if err := touchBuild(ctx, tx, *buildID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit photo delete: %w", err)
	}

	return nil
}

func (r *PhotoRepositoryImpl) Search(ctx context.Context, term string) ([]models.Photo, error) {
	query := `
		SELECT * FROM photos
		WHERE filename ILIKE '%' || $1 || '%'
		   OR COALESCE(caption, '') ILIKE '%' || $1 || '%'
	`

	var photos []models.Photo
	err := r.db.SelectContext(ctx, &photos, query, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search photos: %w", err)
	}

	return photos, nil
}

func (r *PhotoRepositoryImpl) Filter(ctx context.Context, criteria PhotoFilter) ([]models.Photo, error) {
	conditions := []string{}
	args := []interface{}{}

	if criteria.BuildID != nil {
		args = append(args, *criteria.BuildID)
		conditions = append(conditions, fmt.Sprintf("build_id = $%d", len(args)))
	}
	if criteria.Assigned != nil {
		if *criteria.Assigned {
			conditions = append(conditions, "build_id IS NOT NULL")
		} else {
			conditions = append(conditions, "build_id IS NULL")
		}
	}
	if criteria.TakenAfter != nil {
		args = append(args, *criteria.TakenAfter)
		conditions = append(conditions, fmt.Sprintf("taken_at >= $%d", len(args)))
	}
	if criteria.TakenBefore != nil {
		args = append(args, *criteria.TakenBefore)
		conditions = append(conditions, fmt.Sprintf("taken_at <= $%d", len(args)))
	}
	if criteria.Posted != nil {
		args = append(args, *criteria.Posted)
		conditions = append(conditions, fmt.Sprintf("posted = $%d", len(args)))
	}

	query := `SELECT * FROM photos`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY taken_at DESC"

	var photos []models.Photo
	err := r.db.SelectContext(ctx, &photos, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter photos: %w", err)
	}

	return photos, nil
}

// assignInTx performs the single-photo half of an assignment. The build
// existence check runs first so a bad build id aborts before any photo row
// changes.
func assignInTx(ctx context.Context, tx *sqlx.Tx, photoID, buildID string) error {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM builds WHERE build_id = $1)`, buildID)
	if err != nil {
		return fmt.Errorf("failed to check build: %w", err)
	}
	if !exists {
		return ErrBuildNotFound
	}

	result, err := tx.ExecContext(ctx, `UPDATE photos SET build_id = $1 WHERE photo_id = $2`, buildID, photoID)
	if err != nil {
		return fmt.Errorf("failed to assign photo %s: %w", photoID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check assigned rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

func touchBuild(ctx context.Context, tx *sqlx.Tx, buildID string) error {
	_, err := tx.ExecContext(ctx, `UPDATE builds SET updated_at = $1 WHERE build_id = $2`, time.Now(), buildID)
	if err != nil {
		return fmt.Errorf("failed to touch build: %w", err)
	}
	return nil
}
