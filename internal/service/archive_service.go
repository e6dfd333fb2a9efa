package service

import (
	"context"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

type ArchiveService interface {
	Export(ctx context.Context) (*models.Snapshot, error)
	Import(ctx context.Context, snapshot *models.Snapshot) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*models.Stats, error)
}

type archiveService struct {
	archiveRepo repository.ArchiveRepository
}

func NewArchiveService(archiveRepo repository.ArchiveRepository) ArchiveService {
	return &archiveService{archiveRepo: archiveRepo}
}

func (a *archiveService) Export(ctx context.Context) (*models.Snapshot, error) {
	return a.archiveRepo.ExportAll(ctx)
}

func (a *archiveService) Import(ctx context.Context, snapshot *models.Snapshot) error {
	return a.archiveRepo.ImportAll(ctx, snapshot)
}

func (a *archiveService) Clear(ctx context.Context) error {
	return a.archiveRepo.ClearAll(ctx)
}

func (a *archiveService) Stats(ctx context.Context) (*models.Stats, error) {
	return a.archiveRepo.GetStats(ctx)
}
