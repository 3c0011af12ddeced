package auth

import (
	"time"

	"storefront-service/internal/pkg/token"
)

// LoginRequest for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest for account creation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterResponse returns the created account without the credential
type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// TokenPair is one issuance: both tokens plus the access expiry the
// handler needs to stamp onto the Authentication cookie. The refresh
// cookie intentionally carries no explicit expiry.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Payload      token.Payload
}
