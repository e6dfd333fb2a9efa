package service

import (
	"buildlog/internal/config"
	"buildlog/internal/repository"
	"buildlog/internal/storage"
)

type Service struct {
	Photo    PhotoService
	Content  ContentService
	Calendar CalendarService
	Archive  ArchiveService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Photo:    NewPhotoService(rep.Photo, storage, cfg),
		Content:  NewContentService(rep.Template),
		Calendar: NewCalendarService(rep.Calendar, rep.Photo, rep.Build),
		Archive:  NewArchiveService(rep.Archive),
	}
}
