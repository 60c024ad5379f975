package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu     sync.RWMutex
	tokens models.TokenPair

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from address and
// configures the underlying HTTP client with the resolved base URL and
// request timeout.
//
// Returns an error if address is empty or cannot be parsed as a valid URL.
func NewHTTPServerAdapter(address string, timeout time.Duration, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetTokens implements [ServerAdapter].
func (h *httpServerAdapter) SetTokens(pair models.TokenPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens = models.TokenPair{
		Access:  strings.TrimSpace(pair.Access),
		Refresh: strings.TrimSpace(pair.Refresh),
	}
}

// Tokens implements [ServerAdapter].
func (h *httpServerAdapter) Tokens() models.TokenPair {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tokens
}

// Register implements [ServerAdapter]. It POSTs the registration payload to
// POST /api/v1/register and stores the returned token pair via SetTokens.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error) {
	var pair models.TokenPair

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&pair).
		Post("/api/v1/register")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	h.SetTokens(pair)
	return pair, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/v1/token and stores the returned token pair via SetTokens.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	var pair models.TokenPair

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&pair).
		Post("/api/v1/token")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	h.SetTokens(pair)
	return pair, nil
}

// Refresh implements [ServerAdapter]. It POSTs the stored refresh token to
// POST /api/v1/token/refresh and replaces the stored pair on success. The
// refresh endpoint is public, so no Authorization header is attached.
func (h *httpServerAdapter) Refresh(ctx context.Context) (models.TokenPair, error) {
	current := h.Tokens()
	if current.Refresh == "" {
		return models.TokenPair{}, fmt.Errorf("%w: no refresh token stored", ErrUnauthorized)
	}

	var pair models.TokenPair

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: current.Refresh}).
		SetResult(&pair).
		Post("/api/v1/token/refresh")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	h.SetTokens(pair)
	return pair, nil
}

// GetPreferences implements [ServerAdapter]. It GETs the full preferences
// document from GET /api/v1/preferences/my_preferences.
func (h *httpServerAdapter) GetPreferences(ctx context.Context) (models.Preferences, error) {
	var prefs models.Preferences

	resp, err := h.authedRequest(ctx).
		SetResult(&prefs).
		Get("/api/v1/preferences/my_preferences")
	if err != nil {
		return models.Preferences{}, fmt.Errorf("get preferences request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Preferences{}, err
	}

	return prefs, nil
}

// CreatePreferences implements [ServerAdapter]. It POSTs a full preferences
// document to POST /api/v1/preferences.
func (h *httpServerAdapter) CreatePreferences(ctx context.Context, create models.PreferencesCreate) (models.Preferences, error) {
	var prefs models.Preferences

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(create).
		SetResult(&prefs).
		Post("/api/v1/preferences")
	if err != nil {
		return models.Preferences{}, fmt.Errorf("create preferences request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Preferences{}, err
	}

	return prefs, nil
}

// UpdatePreferences implements [ServerAdapter]. It PATCHes the partial
// document to PATCH /api/v1/preferences/my_preferences and returns the full
// document after the update.
func (h *httpServerAdapter) UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (models.Preferences, error) {
	var prefs models.Preferences

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(update).
		SetResult(&prefs).
		Patch("/api/v1/preferences/my_preferences")
	if err != nil {
		return models.Preferences{}, fmt.Errorf("update preferences request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Preferences{}, err
	}

	return prefs, nil
}

// DeletePreferences implements [ServerAdapter]. It sends a DELETE request to
// DELETE /api/v1/preferences/my_preferences.
func (h *httpServerAdapter) DeletePreferences(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).
		Delete("/api/v1/preferences/my_preferences")
	if err != nil {
		return fmt.Errorf("delete preferences request: %w", err)
	}

	return mapHTTPError(resp)
}

// GetSection implements [ServerAdapter]. It GETs a single preferences group
// from GET /api/v1/preferences/{section} and returns the raw JSON object.
func (h *httpServerAdapter) GetSection(ctx context.Context, section string) (json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		Get("/api/v1/preferences/" + url.PathEscape(section))
	if err != nil {
		return nil, fmt.Errorf("get section request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	raw := make(json.RawMessage, len(resp.Body()))
	copy(raw, resp.Body())
	return raw, nil
}

// UpdatePassword implements [ServerAdapter]. It PUTs the password change
// payload to PUT /api/v1/account/password. On success the new token pair
// from the response replaces the stored one, because the server revokes
// every outstanding refresh token during the change.
func (h *httpServerAdapter) UpdatePassword(ctx context.Context, req models.PasswordUpdateRequest) (models.PasswordUpdateResponse, error) {
	var result models.PasswordUpdateResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Put("/api/v1/account/password")
	if err != nil {
		return models.PasswordUpdateResponse{}, fmt.Errorf("update password request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PasswordUpdateResponse{}, err
	}

	h.SetTokens(models.TokenPair{Access: result.Access, Refresh: result.Refresh})
	return result, nil
}

// Version implements [ServerAdapter]. It GETs the server build version from
// GET /api/v1/version as plain text.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.authedRequest(ctx).Get("/api/v1/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(string(resp.Body())), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if pair := h.Tokens(); pair.Access != "" {
		req.SetHeader("Authorization", "Bearer "+pair.Access)
	}
	return req
}
