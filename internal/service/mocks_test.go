package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"buildlog/internal/models"
	"buildlog/internal/repository"
	"buildlog/internal/storage"
)

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) AddBatch(ctx context.Context, photos []models.Photo) error {
	args := m.Called(ctx, photos)
	return args.Error(0)
}

func (m *MockPhotoRepository) GetAll(ctx context.Context) ([]models.Photo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) GetByID(ctx context.Context, photoID string) (*models.Photo, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) GetByBuild(ctx context.Context, buildID string) ([]models.Photo, error) {
	args := m.Called(ctx, buildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) GetUnassigned(ctx context.Context) ([]models.Photo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) Assign(ctx context.Context, photoID, buildID string) error {
	args := m.Called(ctx, photoID, buildID)
	return args.Error(0)
}

func (m *MockPhotoRepository) Unassign(ctx context.Context, photoID string) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func (m *MockPhotoRepository) BulkAssign(ctx context.Context, photoIDs []string, buildID string) error {
	args := m.Called(ctx, photoIDs, buildID)
	return args.Error(0)
}

func (m *MockPhotoRepository) Update(ctx context.Context, photoID string, req repository.UpdatePhotoRequest) error {
	args := m.Called(ctx, photoID, req)
	return args.Error(0)
}

func (m *MockPhotoRepository) Delete(ctx context.Context, photoID string) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func (m *MockPhotoRepository) Search(ctx context.Context, term string) ([]models.Photo, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) Filter(ctx context.Context, criteria repository.PhotoFilter) ([]models.Photo, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Photo), args.Error(1)
}

type MockBuildRepository struct {
	mock.Mock
}

func (m *MockBuildRepository) Create(ctx context.Context, build *models.Build) error {
	args := m.Called(ctx, build)
	return args.Error(0)
}

func (m *MockBuildRepository) GetAll(ctx context.Context) ([]models.Build, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Build), args.Error(1)
}

func (m *MockBuildRepository) GetByID(ctx context.Context, buildID string) (*models.Build, error) {
	args := m.Called(ctx, buildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Build), args.Error(1)
}

func (m *MockBuildRepository) Update(ctx context.Context, buildID string, req repository.UpdateBuildRequest) error {
	args := m.Called(ctx, buildID, req)
	return args.Error(0)
}

func (m *MockBuildRepository) Delete(ctx context.Context, buildID string) error {
	args := m.Called(ctx, buildID)
	return args.Error(0)
}

func (m *MockBuildRepository) Search(ctx context.Context, term string) ([]models.Build, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Build), args.Error(1)
}

func (m *MockBuildRepository) Filter(ctx context.Context, criteria repository.BuildFilter) ([]models.Build, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Build), args.Error(1)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *models.ContentTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) GetAll(ctx context.Context) ([]models.ContentTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContentTemplate), args.Error(1)
}

func (m *MockTemplateRepository) GetByStage(ctx context.Context, stage string) ([]models.ContentTemplate, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContentTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, templateID string, req repository.UpdateTemplateRequest) error {
	args := m.Called(ctx, templateID, req)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

type MockCalendarRepository struct {
	mock.Mock
}

func (m *MockCalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCalendarRepository) GetRange(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) GetByDay(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) Update(ctx context.Context, eventID string, req repository.UpdateEventRequest) error {
	args := m.Called(ctx, eventID, req)
	return args.Error(0)
}

func (m *MockCalendarRepository) Delete(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadPhoto(ctx context.Context, fileName string, file io.Reader, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, fileName, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockStorage) DeletePhoto(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}
