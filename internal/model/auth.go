package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"

	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Principal `json:"user"`
}

// Principal is the signed-in identity carried by a session token.
type Principal struct {
	Subject  string `json:"sub"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Provider string `json:"provider"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ResponseApi is the envelope every handler responds with.
type ResponseApi struct {
	ApiMessage string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}
