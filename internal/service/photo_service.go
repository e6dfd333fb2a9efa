package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"buildlog/internal/config"
	"buildlog/internal/models"
	"buildlog/internal/repository"
	"buildlog/internal/storage"
)

type PhotoService interface {
	ImportBatch(ctx context.Context, photos []models.Photo) ([]models.Photo, error)
	Upload(ctx context.Context, fileName string, file io.Reader, size int64) (*models.Photo, error)
}

type photoService struct {
	photoRepo repository.PhotoRepository
	storage   storage.Storage
	cfg       *config.Config
}

func NewPhotoService(photoRepo repository.PhotoRepository, storage storage.Storage, cfg *config.Config) PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		storage:   storage,
		cfg:       cfg,
	}
}

// ImportBatch stores picker-supplied photo records verbatim. The picker owns
// the ids and every required field; no build assignment happens here.
func (p *photoService) ImportBatch(ctx context.Context, photos []models.Photo) ([]models.Photo, error) {
	for i := range photos {
		photos[i].BuildID = nil
		photos[i].Posted = false
	}

	if err := p.photoRepo.AddBatch(ctx, photos); err != nil {
		return nil, err
	}

	return photos, nil
}

// Upload stores a local file in object storage, generates its thumbnail and
// records the photo. The stored objects are removed again when the record
// insert fails, so storage and the database stay in step.
func (p *photoService) Upload(ctx context.Context, fileName string, file io.Reader, size int64) (*models.Photo, error) {
	result, err := p.storage.UploadPhoto(ctx, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	now := time.Now()
	photo := models.Photo{
		PhotoID:      uuid.New().String(),
		SourceID:     "upload:" + result.ObjectName,
		URL:          result.URL,
		ThumbnailURL: result.ThumbnailURL,
		TakenAt:      now,
		Filename:     fileName,
		Width:        &result.Width,
		Height:       &result.Height,
		CreatedAt:    now,
	}

	if err := p.photoRepo.AddBatch(ctx, []models.Photo{photo}); err != nil {
		p.cleanup(ctx, result)
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}

	return &photo, nil
}

func (p *photoService) cleanup(ctx context.Context, result *storage.UploadResult) {
	if err := p.storage.DeletePhoto(ctx, result.ObjectName); err != nil {
		log.Printf("Warning: failed to remove %s: %v", result.ObjectName, err)
	}
	if err := p.storage.DeletePhoto(ctx, result.ThumbObjectName); err != nil {
		log.Printf("Warning: failed to remove %s: %v", result.ThumbObjectName, err)
	}
}
