package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/attaboy/blackjack/internal/domain"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes a JSON error response, detecting domain.AppError for
// status codes and structured details.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		body := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		RespondJSON(w, appErr.Status, body)
		return
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    "INTERNAL_ERROR",
		"message": "internal server error",
	})
}

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// RespondBadBody writes the standard malformed-request-body error.
func RespondBadBody(w http.ResponseWriter) {
	RespondJSON(w, http.StatusBadRequest, map[string]string{
		"code":    "VALIDATION_ERROR",
		"message": "invalid request body",
	})
}
