package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/observability"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// respondAppError maps a typed application error to its HTTP status. The
// client sees the error's own message for validation/auth/not-found kinds and
// a generic message otherwise, never raw store internals.
func respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := models.HTTPStatus(err)

	switch models.KindOf(err) {
	case models.KindValidation, models.KindAuth, models.KindNotFound, models.KindNotConfigured:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			respondError(w, status, appErr.Message)
			return
		}
		respondError(w, status, err.Error())
	default:
		observability.Logger().ErrorContext(r.Context(), "upstream error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, status, "요청을 처리하지 못했습니다. 잠시 후 다시 시도해 주세요.")
	}
}
