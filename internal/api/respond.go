package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/apperrors"
)

// envelope is the uniform JSON response shape. Count is always present on
// success so clients can size lists without inspecting data.
type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
	Param   string      `json:"parameter,omitempty"`
	Extra   interface{} `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data, Count: &count})
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors
// stay opaque to the client; the detail goes to the log only.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var invalidQuery *apperrors.ErrInvalidQuery
	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		writeJSON(w, http.StatusNotFound, envelope{Status: "error", Message: err.Error()})
	case errors.As(err, &invalidQuery):
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: err.Error(), Param: invalidQuery.Param})
	case errors.Is(err, &apperrors.ErrStoreUnavailable{}):
		logger.Error().Err(err).Msg("Store unavailable")
		writeJSON(w, http.StatusServiceUnavailable, envelope{Status: "error", Message: "store unavailable"})
	default:
		logger.Error().Err(err).Msg("Unhandled error")
		writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: "internal server error"})
	}
}
