package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/models"
)

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.updatePassword").Msg("no user ID was given")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "no user ID was given"}, http.StatusUnauthorized)
		return
	}

	var request models.PasswordUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	pair, err := h.services.AuthService.UpdatePassword(ctx, userID, request)
	if err != nil {
		writeError(w, r, err, "password update failed")
		return
	}

	log.Info().Int64("user_id", userID).Msg("password updated, refresh tokens rotated")

	utils.WriteJSON(w, models.PasswordUpdateResponse{
		Message: "Password updated successfully.",
		Access:  pair.Access,
		Refresh: pair.Refresh,
	}, http.StatusOK)
}
