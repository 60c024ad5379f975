package models

// RegisterRequest is the body of POST /api/v1/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/v1/token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /api/v1/token/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh"`
}

// PasswordUpdateRequest is the body of PUT /api/v1/account/password.
// Both fields are required; the current password is re-verified before
// any mutation happens.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
