package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"buildlog/internal/repository"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeRepoError maps repository sentinel errors onto status codes: missing
// records become 404, everything else is a storage failure.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrBuildNotFound),
		errors.Is(err, repository.ErrPhotoNotFound),
		errors.Is(err, repository.ErrTemplateNotFound),
		errors.Is(err, repository.ErrEventNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	default:
		WriteError(w, err.Error(), http.StatusInternalServerError)
	}
}
