package dto

// ── auth ──

// TokenResponse an issued access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenID     string       `json:"token_id"`
	ExpiresIn   int          `json:"expires_in"`
	ExpiresAt   string       `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// LogoutResponse POST /auth/logout
type LogoutResponse struct {
	Revoked bool `json:"revoked"`
}
