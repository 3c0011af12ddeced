package middleware

import (
	"storefront-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

// GetUserID gets the authenticated user ID from context
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetUserID gets the user ID from context or panics
func MustGetUserID(c *gin.Context) int64 {
	id, ok := GetUserID(c)
	if !ok {
		panic("user_id not found in context")
	}
	return id
}

// GetRoles gets user roles from context
func GetRoles(c *gin.Context) []string {
	v, exists := c.Get("roles")
	if !exists {
		return []string{}
	}
	roles, ok := v.([]string)
	if !ok {
		return []string{}
	}
	return roles
}

// GetPermissions gets user permissions from context
func GetPermissions(c *gin.Context) []string {
	v, exists := c.Get("permissions")
	if !exists {
		return []string{}
	}
	permissions, ok := v.([]string)
	if !ok {
		return []string{}
	}
	return permissions
}

// GetTokenPayload gets the full authorization snapshot from context
func GetTokenPayload(c *gin.Context) (token.Payload, bool) {
	v, exists := c.Get("token_payload")
	if !exists {
		return token.Payload{}, false
	}
	payload, ok := v.(token.Payload)
	return payload, ok
}
