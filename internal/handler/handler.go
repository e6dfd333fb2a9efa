package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"buildlog/internal/config"
	"buildlog/internal/repository"
	"buildlog/internal/service"
)

type Handlers struct {
	BuildRepo       repository.BuildRepository
	PhotoRepo       repository.PhotoRepository
	TemplateRepo    repository.TemplateRepository
	PhotoService    service.PhotoService
	ContentService  service.ContentService
	CalendarService service.CalendarService
	ArchiveService  service.ArchiveService
	Cfg             *config.Config
	Validate        *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		BuildRepo:       repo.Build,
		PhotoRepo:       repo.Photo,
		TemplateRepo:    repo.Template,
		PhotoService:    service.Photo,
		ContentService:  service.Content,
		CalendarService: service.Calendar,
		ArchiveService:  service.Archive,
		Cfg:             config,
		Validate:        validator.New(),
	}
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{"service": "buildlog"}, http.StatusOK)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
