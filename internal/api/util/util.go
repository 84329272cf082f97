package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Shayan56/StudentSync/internal/shared"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := JSONResponse{Success: true, Data: payload}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONMessage writes a success response with a message and no data
func WriteJSONMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := JSONResponse{Success: true, Message: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleDomainError translates domain errors to appropriate HTTP responses.
// This is the single error mapping point for the API layer.
func HandleDomainError(w http.ResponseWriter, err error) {
	var validationErr *shared.ValidationError
	var referenceErr *shared.ReferenceNotFoundError
	var duplicateErr *shared.DuplicateKeyError
	var storeErr *shared.StoreError

	switch {
	case errors.As(err, &validationErr):
		WriteJSONError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &referenceErr):
		WriteJSONError(w, http.StatusBadRequest, referenceErr.Error())
	case errors.As(err, &duplicateErr):
		WriteJSONError(w, http.StatusConflict, duplicateErr.Error())
	case errors.Is(err, shared.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "record not found")
	case errors.As(err, &storeErr):
		WriteJSONError(w, http.StatusInternalServerError, "persistence failure")
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
