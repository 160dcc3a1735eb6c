package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to a status code. action is the user-facing
// description of what failed ("could not add customer to queue"); the wrapped
// cause is logged, never returned.
func respondWithAppError(w http.ResponseWriter, err error, action string) {
	status := statusForError(err)

	var appErr *apperrors.AppError
	message := action
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = action + ": " + appErr.Message
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("action", action).Msg("Request failed")
	}

	respondWithJSON(w, status, map[string]string{
		"error": message,
		"code":  string(apperrors.TypeOf(err)),
	})
}

func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeInvalidTransition:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypePartialFailure:
		return http.StatusMultiStatus
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	case apperrors.ErrorTypePersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
