package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/services"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto HTTP statuses: validation
// failures are 400, expected absences are 404, everything else is a store
// failure and reports 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
