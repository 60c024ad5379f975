package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, request)
	if err != nil {
		writeError(w, r, err, "user registration failed")
		return
	}

	log.Debug().Int64("id", registeredUser.UserID).Str("username", registeredUser.Username).Msg("user registered")

	pair, err := h.issueTokenPair(w, r, registeredUser)
	if err != nil {
		return
	}

	utils.WriteJSON(w, pair, http.StatusCreated)
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, request)
	if err != nil {
		writeError(w, r, err, "invalid login/password")
		return
	}

	log.Debug().Int64("id", foundUser.UserID).Str("username", foundUser.Username).Msg("user successfully logged in")

	pair, err := h.issueTokenPair(w, r, foundUser)
	if err != nil {
		return
	}

	utils.WriteJSON(w, pair, http.StatusOK)
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Detail: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	pair, err := h.services.AuthService.Refresh(ctx, request.RefreshToken)
	if err != nil {
		writeError(w, r, err, "refresh token rejected")
		return
	}

	utils.WriteJSON(w, pair, http.StatusOK)
}

// issueTokenPair mints the access/refresh pair for a freshly authenticated
// user and renders the failure itself, so callers only need to bail out.
func (h *Handler) issueTokenPair(w http.ResponseWriter, r *http.Request, user models.User) (models.TokenPair, error) {
	ctx := r.Context()

	access, err := h.services.AuthService.CreateToken(ctx, user)
	if err != nil {
		writeError(w, r, err, "creation of token failed")
		return models.TokenPair{}, err
	}

	refresh, err := h.services.AuthService.CreateRefreshToken(ctx, user)
	if err != nil {
		writeError(w, r, err, "creation of refresh token failed")
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access.SignedString, Refresh: refresh}, nil
}
