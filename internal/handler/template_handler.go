package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

type CreateTemplateRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Stage    string `json:"stage" validate:"required"`
	Template string `json:"template" validate:"required"`
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	template, err := h.ContentService.CreateTemplate(r.Context(), req.Name, req.Stage, req.Template)
	if err != nil {
		if !models.IsValidStage(req.Stage) {
			WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, template, http.StatusCreated)
}

// GetTemplates lists all templates, or just one stage's with ?stage=.
func (h *Handlers) GetTemplates(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")

	var templates []models.ContentTemplate
	var err error

	if stage != "" {
		if !models.IsValidStage(stage) {
			WriteError(w, "Unknown build stage: "+stage, http.StatusBadRequest)
			return
		}
		templates, err = h.TemplateRepo.GetByStage(r.Context(), stage)
	} else {
		templates, err = h.TemplateRepo.GetAll(r.Context())
	}

	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, templates, http.StatusOK)
}

func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	var req repository.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ContentService.UpdateTemplate(r.Context(), templateID, req); err != nil {
		if req.Stage != nil && !models.IsValidStage(*req.Stage) {
			WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"updated": templateID}, http.StatusOK)
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	if err := h.TemplateRepo.Delete(r.Context(), templateID); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"deleted": templateID}, http.StatusOK)
}
