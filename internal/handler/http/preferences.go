package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.createPreferences").Msg("no user ID was given")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "no user ID was given"}, http.StatusUnauthorized)
		return
	}

	var create models.PreferencesCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	preferences, err := h.services.PreferencesService.CreateMine(ctx, userID, create)
	if err != nil {
		writeError(w, r, err, "Preferences already exist for this user.")
		return
	}

	utils.WriteJSON(w, preferences, http.StatusCreated)
}

func (h *Handler) getMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getMyPreferences").Msg("no user ID was given")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "no user ID was given"}, http.StatusUnauthorized)
		return
	}

	preferences, err := h.services.PreferencesService.GetMine(ctx, userID)
	if err != nil {
		writeError(w, r, err, "error getting user preferences")
		return
	}

	utils.WriteJSON(w, preferences, http.StatusOK)
}

func (h *Handler) updateMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.updateMyPreferences").Msg("no user ID was given")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "no user ID was given"}, http.StatusUnauthorized)
		return
	}

	var update models.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	preferences, err := h.services.PreferencesService.UpdateMine(ctx, userID, update)
	if err != nil {
		writeError(w, r, err, "error updating user preferences")
		return
	}

	utils.WriteJSON(w, preferences, http.StatusOK)
}

func (h *Handler) deleteMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.deleteMyPreferences").Msg("no user ID was given")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "no user ID was given"}, http.StatusUnauthorized)
		return
	}

	if err := h.services.PreferencesService.DeleteMine(ctx, userID); err != nil {
		writeError(w, r, err, "No preferences found for this user.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getPreferencesSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getPreferencesSection").Msg("no user ID was given")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "no user ID was given"}, http.StatusUnauthorized)
		return
	}

	section := chi.URLParam(r, "section")

	group, err := h.services.PreferencesService.GetSection(ctx, userID, section)
	if err != nil {
		writeError(w, r, err, "unknown preferences section")
		return
	}

	utils.WriteJSON(w, group, http.StatusOK)
}
