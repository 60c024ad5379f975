package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/service"
	"github.com/MKhiriev/go-user-prefs/internal/store"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/models"
)

var errorStatusMap = map[error]int{
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,
	service.ErrRefreshTokenInvalid:     http.StatusUnauthorized,
	service.ErrUnknownSection:          http.StatusBadRequest,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,

	store.ErrLoginAlreadyExists:      http.StatusConflict,
	store.ErrNoUserWasFound:          http.StatusNotFound,
	store.ErrPreferencesAlreadyExist: http.StatusBadRequest,
	store.ErrPreferencesNotFound:     http.StatusNotFound,
	store.ErrTokenNotFound:           http.StatusUnauthorized,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrEncodingDocument:   http.StatusInternalServerError,
	store.ErrDecodingDocument:   http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err onto an HTTP status and renders the JSON error body:
// per-field messages under "errors" for validation failures, a single
// "detail" string for everything else.
func writeError(w http.ResponseWriter, r *http.Request, err error, detail string) {
	log := logger.FromRequest(r)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		log.Err(err).Msg("validation failed")
		utils.WriteJSON(w, models.ValidationErrorResponse{Errors: validationErr.Errors}, http.StatusBadRequest)
		return
	}

	log.Err(err).Msg(detail)

	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		detail = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSON(w, models.ErrorResponse{Detail: detail}, status)
}
