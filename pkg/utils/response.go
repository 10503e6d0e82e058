package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"waterbill-backend/internal/apperrors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error maps a domain error to an HTTP status and writes it as JSON.
// Validation and not-found errors surface their message; anything else is
// logged and reported generically.
func Error(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperrors.IsNotFound(err):
		JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperrors.IsAuthorization(err):
		JSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		log.Printf("[HTTP] upstream error: %v", err)
		JSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
