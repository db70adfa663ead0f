package auth

import (
	"github.com/konekt/konekt-api/internal/domain/user"
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,username"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokensResponse carries issued tokens
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	User   *user.Profile  `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}
