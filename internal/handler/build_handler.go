package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

type CreateBuildRequest struct {
	Name       string    `json:"name" validate:"required,max=200"`
	WoodType   string    `json:"woodType" validate:"required,max=100"`
	Style      string    `json:"style" validate:"required,max=100"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	ClientName *string   `json:"clientName" validate:"omitempty,max=200"`
	Notes      *string   `json:"notes"`
}

func (h *Handlers) CreateBuild(w http.ResponseWriter, r *http.Request) {
	var req CreateBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.StartDate.After(time.Now()) {
		WriteError(w, "Start date must not be in the future", http.StatusBadRequest)
		return
	}

	build := &models.Build{
		Name:       req.Name,
		WoodType:   req.WoodType,
		Style:      req.Style,
		StartDate:  req.StartDate,
		ClientName: req.ClientName,
		Notes:      req.Notes,
	}

	if err := h.BuildRepo.Create(r.Context(), build); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, build, http.StatusCreated)
}

func (h *Handlers) GetBuilds(w http.ResponseWriter, r *http.Request) {
	builds, err := h.BuildRepo.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, builds, http.StatusOK)
}

func (h *Handlers) GetBuild(w http.ResponseWriter, r *http.Request) {
	buildID := mux.Vars(r)["buildId"]

	build, err := h.BuildRepo.GetByID(r.Context(), buildID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, build, http.StatusOK)
}

func (h *Handlers) UpdateBuild(w http.ResponseWriter, r *http.Request) {
	buildID := mux.Vars(r)["buildId"]

	var req repository.UpdateBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.StartDate != nil && req.StartDate.After(time.Now()) {
		WriteError(w, "Start date must not be in the future", http.StatusBadRequest)
		return
	}

	if err := h.BuildRepo.Update(r.Context(), buildID, req); err != nil {
		writeRepoError(w, err)
		return
	}

	build, err := h.BuildRepo.GetByID(r.Context(), buildID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, build, http.StatusOK)
}

func (h *Handlers) DeleteBuild(w http.ResponseWriter, r *http.Request) {
	buildID := mux.Vars(r)["buildId"]

	if err := h.BuildRepo.Delete(r.Context(), buildID); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"deleted": buildID}, http.StatusOK)
}

func (h *Handlers) SearchBuilds(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		WriteError(w, "Query parameter q is required", http.StatusBadRequest)
		return
	}

	builds, err := h.BuildRepo.Search(r.Context(), term)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, builds, http.StatusOK)
}

func (h *Handlers) FilterBuilds(w http.ResponseWriter, r *http.Request) {
	criteria := repository.BuildFilter{}

	query := r.URL.Query()
	if v := query.Get("woodType"); v != "" {
		criteria.WoodType = &v
	}
	if v := query.Get("style"); v != "" {
		criteria.Style = &v
	}
	if v := query.Get("clientName"); v != "" {
		criteria.ClientName = &v
	}

	builds, err := h.BuildRepo.Filter(r.Context(), criteria)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, builds, http.StatusOK)
}
