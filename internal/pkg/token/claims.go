package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Payload is the authorization snapshot embedded in every token. Access
// and refresh tokens carry the same shape; they are told apart only by
// the secret that signed them.
type Payload struct {
	UserID      int64    `json:"userId"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Claims represents the signed JWT claims
type Claims struct {
	UserID      int64    `json:"userId"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Payload extracts the authorization snapshot from the claims.
func (c *Claims) Payload() Payload {
	return Payload{
		UserID:      c.UserID,
		Roles:       c.Roles,
		Permissions: c.Permissions,
	}
}

// HasRole checks if the claims contain a specific role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission checks if the claims contain a specific permission
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
