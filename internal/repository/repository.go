package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"buildlog/internal/models"
)

// Sentinel errors so callers can distinguish not-found and consistency
// failures from plain storage errors with errors.Is.
var (
	ErrBuildNotFound    = errors.New("build not found")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrEventNotFound    = errors.New("calendar event not found")
)

type BuildRepository interface {
	Create(ctx context.Context, build *models.Build) error
	GetAll(ctx context.Context) ([]models.Build, error)
	GetByID(ctx context.Context, buildID string) (*models.Build, error)
	Update(ctx context.Context, buildID string, req UpdateBuildRequest) error
	Delete(ctx context.Context, buildID string) error
	Search(ctx context.Context, term string) ([]models.Build, error)
	Filter(ctx context.Context, criteria BuildFilter) ([]models.Build, error)
}

type PhotoRepository interface {
	AddBatch(ctx context.Context, photos []models.Photo) error
	GetAll(ctx context.Context) ([]models.Photo, error)
	GetByID(ctx context.Context, photoID string) (*models.Photo, error)
	GetByBuild(ctx context.Context, buildID string) ([]models.Photo, error)
	GetUnassigned(ctx context.Context) ([]models.Photo, error)
	Assign(ctx context.Context, photoID, buildID string) error
	Unassign(ctx context.Context, photoID string) error
	BulkAssign(ctx context.Context, photoIDs []string, buildID string) error
	Update(ctx context.Context, photoID string, req UpdatePhotoRequest) error
	Delete(ctx context.Context, photoID string) error
	Search(ctx context.Context, term string) ([]models.Photo, error)
	Filter(ctx context.Context, criteria PhotoFilter) ([]models.Photo, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, template *models.ContentTemplate) error
	GetAll(ctx context.Context) ([]models.ContentTemplate, error)
	GetByStage(ctx context.Context, stage string) ([]models.ContentTemplate, error)
	Update(ctx context.Context, templateID string, req UpdateTemplateRequest) error
	Delete(ctx context.Context, templateID string) error
}

type CalendarRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	GetRange(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	GetByDay(ctx context.Context, day time.Time) ([]models.CalendarEvent, error)
	Update(ctx context.Context, eventID string, req UpdateEventRequest) error
	Delete(ctx context.Context, eventID string) error
}

type ArchiveRepository interface {
	ExportAll(ctx context.Context) (*models.Snapshot, error)
	ImportAll(ctx context.Context, snapshot *models.Snapshot) error
	ClearAll(ctx context.Context) error
	GetStats(ctx context.Context) (*models.Stats, error)
}

type Repository struct {
	Build    BuildRepository
	Photo    PhotoRepository
	Template TemplateRepository
	Calendar CalendarRepository
	Archive  ArchiveRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Build:    NewBuildRepository(db),
		Photo:    NewPhotoRepository(db),
		Template: NewTemplateRepository(db),
		Calendar: NewCalendarRepository(db),
		Archive:  NewArchiveRepository(db),
	}
}
