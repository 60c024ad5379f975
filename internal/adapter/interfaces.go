// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the preferences server.
//
// The primary abstraction is [ServerAdapter], which decouples callers (the
// prefsctl command-line client) from the underlying protocol. The package
// ships an HTTP/REST implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-user-prefs/models"
)

// ServerAdapter defines transport-agnostic communication with the preferences
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetTokens stores the token pair that will be used for all subsequent
	// authenticated requests. It should be called immediately after a
	// successful Register, Login, Refresh, or UpdatePassword, and when
	// restoring a persisted session.
	SetTokens(pair models.TokenPair)

	// Tokens returns the token pair currently stored in the adapter. Both
	// fields are empty if no session has been established yet.
	Tokens() models.TokenPair

	// Register creates a new account. On success it stores the returned
	// token pair via SetTokens and returns it.
	Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error)

	// Login exchanges credentials for a token pair. On success the pair is
	// stored via SetTokens and returned.
	Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error)

	// Refresh redeems the stored refresh token for a fresh pair. The old
	// refresh token becomes unusable after a successful call. Returns
	// [ErrUnauthorized] (wrapped) if the stored refresh token was already
	// redeemed, revoked, or expired.
	Refresh(ctx context.Context) (models.TokenPair, error)

	// GetPreferences fetches the caller's preferences document. The server
	// provisions a default document on first read, so this never returns a
	// not-found error for an authenticated caller.
	GetPreferences(ctx context.Context) (models.Preferences, error)

	// CreatePreferences explicitly creates the caller's preferences document.
	// Returns [ErrBadRequest] (wrapped) if a document already exists.
	CreatePreferences(ctx context.Context, create models.PreferencesCreate) (models.Preferences, error)

	// UpdatePreferences applies a partial update: every non-nil group in
	// update wholesale replaces the stored group. Returns the full document
	// after the update.
	UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (models.Preferences, error)

	// DeletePreferences removes the caller's preferences document. Returns
	// [ErrNotFound] (wrapped) if no document exists.
	DeletePreferences(ctx context.Context) error

	// GetSection fetches a single named group (account, notifications,
	// theme, privacy) of the caller's document. The raw JSON object is
	// returned so callers can render it without a per-section type switch.
	// Returns [ErrBadRequest] (wrapped) for an unknown section name.
	GetSection(ctx context.Context, section string) (json.RawMessage, error)

	// UpdatePassword changes the account password. Every refresh token is
	// revoked server-side; the replacement pair from the response is stored
	// via SetTokens so the current session survives the change.
	UpdatePassword(ctx context.Context, req models.PasswordUpdateRequest) (models.PasswordUpdateResponse, error)

	// Version returns the server build version as plain text.
	Version(ctx context.Context) (string, error)
}
