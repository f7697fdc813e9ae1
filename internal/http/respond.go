package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gatherly/internal/core"
	"gatherly/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondDomainError maps a service error to the API status: missing rows are
// 404, validation failures 422, everything else 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		core.ErrEmptyGroupName,
		core.ErrEmptyTitle,
		core.ErrEmptyDescription,
		core.ErrInvalidAmount,
		core.ErrEmptyPayer,
		core.ErrInvalidDate,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// decodeJSON reads the body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
