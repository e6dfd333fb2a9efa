package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

// PickerPhoto is one record from the external photo picker. The picker owns
// the ids and populates every required field.
type PickerPhoto struct {
	PhotoID      string    `json:"photoId" validate:"required"`
	SourceID     string    `json:"sourceId" validate:"required"`
	URL          string    `json:"url" validate:"required"`
	ThumbnailURL string    `json:"thumbnailUrl" validate:"required"`
	TakenAt      time.Time `json:"takenAt" validate:"required"`
	Filename     string    `json:"filename" validate:"required,max=255"`
	Width        *int      `json:"width"`
	Height       *int      `json:"height"`
	CameraMake   *string   `json:"cameraMake"`
	CameraModel  *string   `json:"cameraModel"`
}

type ImportPhotosRequest struct {
	Photos []PickerPhoto `json:"photos" validate:"required,min=1,dive"`
}

type AssignPhotoRequest struct {
	BuildID string `json:"buildId" validate:"required"`
}

type BulkAssignRequest struct {
	PhotoIDs []string `json:"photoIds" validate:"required,min=1"`
	BuildID  string   `json:"buildId" validate:"required"`
}

func (h *Handlers) ImportPhotos(w http.ResponseWriter, r *http.Request) {
	var req ImportPhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	photos := make([]models.Photo, 0, len(req.Photos))
	for _, p := range req.Photos {
		photos = append(photos, models.Photo{
			PhotoID:      p.PhotoID,
			SourceID:     p.SourceID,
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
			TakenAt:      p.TakenAt,
			Filename:     p.Filename,
			Width:        p.Width,
			Height:       p.Height,
			CameraMake:   p.CameraMake,
			CameraModel:  p.CameraModel,
		})
	}

	imported, err := h.PhotoService.ImportBatch(r.Context(), photos)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, imported, http.StatusCreated)
}

func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteError(w, "Form file photo is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.Cfg.MaxUploadSize {
		WriteError(w, "File is too large", http.StatusRequestEntityTooLarge)
		return
	}

	photo, err := h.PhotoService.Upload(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, photo, http.StatusCreated)
}

// GetPhotos lists photos, optionally narrowed to one build (?build=id) or to
// the unassigned pool (?unassigned=true).
func (h *Handlers) GetPhotos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var photos []models.Photo
	var err error

	switch {
	case query.Get("build") != "":
		photos, err = h.PhotoRepo.GetByBuild(r.Context(), query.Get("build"))
	case query.Get("unassigned") == "true":
		photos, err = h.PhotoRepo.GetUnassigned(r.Context())
	default:
		photos, err = h.PhotoRepo.GetAll(r.Context())
	}

	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, photos, http.StatusOK)
}

func (h *Handlers) AssignPhoto(w http.ResponseWriter, r *http.Request) {
	photoID := mux.Vars(r)["photoId"]

	var req AssignPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.PhotoRepo.Assign(r.Context(), photoID, req.BuildID); err != nil {
		// A missing build is a consistency violation of the request, not a
		// missing resource.
		if errors.Is(err, repository.ErrBuildNotFound) {
			WriteError(w, err.Error(), http.StatusConflict)
			return
		}
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"photoId": photoID, "buildId": req.BuildID}, http.StatusOK)
}

func (h *Handlers) UnassignPhoto(w http.ResponseWriter, r *http.Request) {
	photoID := mux.Vars(r)["photoId"]

	if err := h.PhotoRepo.Unassign(r.Context(), photoID); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"photoId": photoID}, http.StatusOK)
}

func (h *Handlers) BulkAssignPhotos(w http.ResponseWriter, r *http.Request) {
	var req BulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.PhotoRepo.BulkAssign(r.Context(), req.PhotoIDs, req.BuildID); err != nil {
		if errors.Is(err, repository.ErrBuildNotFound) {
			WriteError(w, err.Error(), http.StatusConflict)
			return
		}
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"photoIds": req.PhotoIDs, "buildId": req.BuildID}, http.StatusOK)
}

func (h *Handlers) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := mux.Vars(r)["photoId"]

	var req repository.UpdatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.PhotoRepo.Update(r.Context(), photoID, req); err != nil {
		writeRepoError(w, err)
		return
	}

	photo, err := h.PhotoRepo.GetByID(r.Context(), photoID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, photo, http.StatusOK)
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := mux.Vars(r)["photoId"]

	if err := h.PhotoRepo.Delete(r.Context(), photoID); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"deleted": photoID}, http.StatusOK)
}

func (h *Handlers) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		WriteError(w, "Query parameter q is required", http.StatusBadRequest)
		return
	}

	photos, err := h.PhotoRepo.Search(r.Context(), term)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, photos, http.StatusOK)
}

func (h *Handlers) FilterPhotos(w http.ResponseWriter, r *http.Request) {
	criteria := repository.PhotoFilter{}
	query := r.URL.Query()

	if v := query.Get("build"); v != "" {
		criteria.BuildID = &v
	}
	if v := query.Get("assigned"); v != "" {
		assigned, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, "Invalid assigned parameter", http.StatusBadRequest)
			return
		}
		criteria.Assigned = &assigned
	}
	if v := query.Get("takenAfter"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, "Invalid takenAfter parameter", http.StatusBadRequest)
			return
		}
		criteria.TakenAfter = &t
	}
	if v := query.Get("takenBefore"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, "Invalid takenBefore parameter", http.StatusBadRequest)
			return
		}
		criteria.TakenBefore = &t
	}
	if v := query.Get("posted"); v != "" {
		posted, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, "Invalid posted parameter", http.StatusBadRequest)
			return
		}
		criteria.Posted = &posted
	}

	photos, err := h.PhotoRepo.Filter(r.Context(), criteria)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, photos, http.StatusOK)
}
