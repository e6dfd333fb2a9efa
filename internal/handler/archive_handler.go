package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"buildlog/internal/models"
)

func (h *Handlers) ExportData(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ArchiveService.Export(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, snapshot, http.StatusOK)
}

func (h *Handlers) ImportData(w http.ResponseWriter, r *http.Request) {
	var snapshot models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validateSnapshot(&snapshot); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ArchiveService.Import(r.Context(), &snapshot); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]int{
		"builds":    len(snapshot.Builds),
		"photos":    len(snapshot.Photos),
		"templates": len(snapshot.Templates),
		"events":    len(snapshot.Events),
	}, http.StatusCreated)
}

func (h *Handlers) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.ArchiveService.Clear(r.Context()); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"status": "cleared"}, http.StatusOK)
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ArchiveService.Stats(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, stats, http.StatusOK)
}

// validateSnapshot rejects the whole import when any record misses a required
// field, before anything is written.
func (h *Handlers) validateSnapshot(snapshot *models.Snapshot) error {
	for i := range snapshot.Builds {
		if err := h.Validate.Struct(&snapshot.Builds[i]); err != nil {
			return fmt.Errorf("invalid build %d: %w", i, err)
		}
	}
	for i := range snapshot.Photos {
		if err := h.Validate.Struct(&snapshot.Photos[i]); err != nil {
			return fmt.Errorf("invalid photo %d: %w", i, err)
		}
	}
	for i := range snapshot.Templates {
		if err := h.Validate.Struct(&snapshot.Templates[i]); err != nil {
			return fmt.Errorf("invalid template %d: %w", i, err)
		}
	}
	for i := range snapshot.Events {
		if err := h.Validate.Struct(&snapshot.Events[i]); err != nil {
			return fmt.Errorf("invalid calendar event %d: %w", i, err)
		}
	}
	return nil
}
