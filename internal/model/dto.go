package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeBearer is the token_type returned by /login.
const TokenTypeBearer = "bearer"

// Form-encoded login body, OAuth2 password grant style.
type DTOLoginRequest struct {
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	GrantType string `validate:"omitempty,eq=password"`
}

type DTOLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Optional JSON body of POST /event. Omitted fields fall back to values
// measured from the request itself.
type DTOEventRequest struct {
	Endpoint          string `json:"endpoint" validate:"omitempty,startswith=/,max=2048"`
	DurationMs        *int   `json:"duration_ms" validate:"omitempty,gte=0"`
	ResponseSizeBytes *int   `json:"response_size_bytes" validate:"omitempty,gte=0"`
	StatusCode        *int   `json:"status_code" validate:"omitempty,gte=100,lte=599"`
}

// Claims is the payload of an access token: sub carries the username.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
