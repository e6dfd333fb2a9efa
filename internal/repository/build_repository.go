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

type BuildRepositoryImpl struct {
	db *sqlx.DB
}

// UpdateBuildRequest carries a partial update; nil fields are left untouched.
// Photo membership is never changed here, only through the photo repository's
// assignment operations.
type UpdateBuildRequest struct {
	Name       *string    `json:"name"`
	WoodType   *string    `json:"woodType"`
	Style      *string    `json:"style"`
	StartDate  *time.Time `json:"startDate"`
	ClientName *string    `json:"clientName"`
	Notes      *string    `json:"notes"`
}

// BuildFilter is an exact-match conjunction; omitted criteria are not
// constraints.
type BuildFilter struct {
	WoodType   *string `json:"woodType"`
	Style      *string `json:"style"`
	ClientName *string `json:"clientName"`
}

const insertBuildQuery = `
	INSERT INTO builds
	(build_id, name, wood_type, style, start_date, client_name, notes, created_at, updated_at)
	VALUES
	(:build_id, :name, :wood_type, :style, :start_date, :client_name, :notes, :created_at, :updated_at)
`

func NewBuildRepository(db *sqlx.DB) *BuildRepositoryImpl {
	return &BuildRepositoryImpl{db: db}
}

func (r *BuildRepositoryImpl) Create(ctx context.Context, build *models.Build) error {
	query := insertBuildQuery

	if build.BuildID == "" {
		build.BuildID = uuid.New().String()
	}

	now := time.Now()
	build.CreatedAt = now
	build.UpdatedAt = now
	build.Photos = []models.Photo{}

	_, err := r.db.NamedExecContext(ctx, query, build)
	if err != nil {
		return fmt.Errorf("failed to create build: %w", err)
	}

	return nil
}

func (r *BuildRepositoryImpl) GetAll(ctx context.Context) ([]models.Build, error) {
	query := `SELECT * FROM builds ORDER BY created_at DESC`

	var builds []models.Build
	err := r.db.SelectContext(ctx, &builds, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}

	if err := r.attachPhotos(ctx, builds); err != nil {
		return nil, err
	}

	return builds, nil
}

func (r *BuildRepositoryImpl) GetByID(ctx context.Context, buildID string) (*models.Build, error) {
	query := `SELECT * FROM builds WHERE build_id = $1`

	var build models.Build
	err := r.db.GetContext(ctx, &build, query, buildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildNotFound
		}
		return nil, fmt.Errorf("failed to get build: %w", err)
	}

	builds := []models.Build{build}
	if err := r.attachPhotos(ctx, builds); err != nil {
		return nil, err
	}

	return &builds[0], nil
}

func (r *BuildRepositoryImpl) Update(ctx context.Context, buildID string, req UpdateBuildRequest) error {
	var build models.Build
	err := r.db.GetContext(ctx, &build, `SELECT * FROM builds WHERE build_id = $1`, buildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBuildNotFound
		}
		return fmt.Errorf("failed to get build: %w", err)
	}

	if req.Name != nil {
		build.Name = *req.Name
	}
	if req.WoodType != nil {
		build.WoodType = *req.WoodType
	}
	if req.Style != nil {
		build.Style = *req.Style
	}
	if req.StartDate != nil {
		build.StartDate = *req.StartDate
	}
	if req.ClientName != nil {
		build.ClientName = req.ClientName
	}
	if req.Notes != nil {
		build.Notes = req.Notes
	}

	build.UpdatedAt = time.Now()

	query := `
		UPDATE builds SET
			name = :name,
			wood_type = :wood_type,
			style = :style,
			start_date = :start_date,
			client_name = :client_name,
			notes = :notes,
			updated_at = :updated_at
		WHERE build_id = :build_id
	`

	result, err := r.db.NamedExecContext(ctx, query, &build)
	if err != nil {
		return fmt.Errorf("failed to update build: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBuildNotFound
	}

	return nil
}

// Delete removes a build after detaching every photo assigned to it. The
// photos survive with build_id cleared; calendar events referencing the build
// go away with the cascade. Everything happens in one transaction.
func (r *BuildRepositoryImpl) Delete(ctx context.Context, buildID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `UPDATE photos SET build_id = NULL WHERE build_id = $1`, buildID)
	if err != nil {
		return fmt.Errorf("failed to detach photos: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM builds WHERE build_id = $1`, buildID)
	if err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBuildNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build delete: %w", err)
	}

	return nil
}

func (r *BuildRepositoryImpl) Search(ctx context.Context, term string) ([]models.Build, error) {
	query := `
		SELECT * FROM builds
		WHERE name ILIKE '%' || $1 || '%'
		   OR wood_type ILIKE '%' || $1 || '%'
		   OR style ILIKE '%' || $1 || '%'
		   OR COALESCE(client_name, '') ILIKE '%' || $1 || '%'
	`

	var builds []models.Build
	err := r.db.SelectContext(ctx, &builds, query, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search builds: %w", err)
	}

	if err := r.attachPhotos(ctx, builds); err != nil {
		return nil, err
	}

	return builds, nil
}

func (r *BuildRepositoryImpl) Filter(ctx context.Context, criteria BuildFilter) ([]models.Build, error) {
	conditions := []string{}
	args := []interface{}{}

	if criteria.WoodType != nil {
		args = append(args, *criteria.WoodType)
		conditions = append(conditions, fmt.Sprintf("wood_type = $%d", len(args)))
	}
	if criteria.Style != nil {
		args = append(args, *criteria.Style)
		conditions = append(conditions, fmt.Sprintf("style = $%d", len(args)))
	}
	if criteria.ClientName != nil {
		args = append(args, *criteria.ClientName)
		conditions = append(conditions, fmt.Sprintf("client_name = $%d", len(args)))
	}

	query := `SELECT * FROM builds`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var builds []models.Build
	err := r.db.SelectContext(ctx, &builds, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter builds: %w", err)
	}

	if err := r.attachPhotos(ctx, builds); err != nil {
		return nil, err
	}

	return builds, nil
}

// attachPhotos fills the derived Photos view for every build in one query.
func (r *BuildRepositoryImpl) attachPhotos(ctx context.Context, builds []models.Build) error {
	for i := range builds {
		builds[i].Photos = []models.Photo{}
	}

	if len(builds) == 0 {
		return nil
	}

	ids := make([]string, 0, len(builds))
	for _, b := range builds {
		ids = append(ids, b.BuildID)
	}

	query, args, err := sqlx.In(`SELECT * FROM photos WHERE build_id IN (?) ORDER BY taken_at`, ids)
	if err != nil {
		return fmt.Errorf("failed to build photo query: %w", err)
	}

	var photos []models.Photo
	err = r.db.SelectContext(ctx, &photos, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to load build photos: %w", err)
	}

	byBuild := make(map[string][]models.Photo, len(builds))
	for _, p := range photos {
		if p.BuildID == nil {
			continue
		}
		byBuild[*p.BuildID] = append(byBuild[*p.BuildID], p)
	}

	for i := range builds {
		if assigned, ok := byBuild[builds[i].BuildID]; ok {
			builds[i].Photos = assigned
		}
	}

	return nil
}
