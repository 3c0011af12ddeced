package auth

import (
	"net/http"

	"storefront-service/internal/domain/auth"
	"storefront-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// setSessionCookies attaches the token pair to the response. The
// Authentication cookie expires exactly when the access token does; the
// Refresh cookie deliberately carries no expiry and follows the
// client's session-cookie default. Both are HTTP-only and same-site
// restricted; Secure is forced on in production.
func setSessionCookies(c *gin.Context, pair *auth.TokenPair, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
