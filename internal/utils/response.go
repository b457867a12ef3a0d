package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fyyur/internal/apperrors"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now().UTC(),
	}
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, SuccessResponse(message, data))
}

// StatusFor maps the application error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrReferentialIntegrity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as an error page. Validation failures carry the
// per-field messages in data; internal errors hide the driver detail.
func WriteError(w http.ResponseWriter, message string, err error) {
	status := StatusFor(err)
	resp := ErrorResponse(message, http.StatusText(status))

	switch status {
	case http.StatusInternalServerError:
	case http.StatusUnprocessableEntity:
		resp.Error = err.Error()
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			resp.Data = verr.Fields
		}
	default:
		resp.Error = err.Error()
	}

	WriteJSON(w, status, resp)
}
