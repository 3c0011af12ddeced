package auth

import (
	"errors"
	"net/http"

	"storefront-service/internal/domain/auth"
	"storefront-service/internal/middleware"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/response"
	authUsecase "storefront-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	secure      bool
	logger      *zap.Logger
}

// NewAuthHandler builds the auth endpoints. secure controls the Secure
// flag on session cookies and must be true in production.
func NewAuthHandler(authService *authUsecase.AuthService, secure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		secure:      secure,
		logger:      logger,
	}
}

// Register handles account creation (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusUnprocessableEntity, "email already exists", nil)
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", resp)
}

// Login verifies credentials and sets the session cookie pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if xerrors.IsAuthFailure(err) {
			h.logger.Info("login rejected",
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
		} else {
			h.logger.Error("login failed", zap.Error(err))
		}
		response.Unauthorized(c)
		return
	}

	setSessionCookies(c, pair, h.secure)

	h.logger.Info("user logged in", zap.Int64("user_id", pair.Payload.UserID))
	response.Success(c, http.StatusOK, "login successful", gin.H{"tokenPayload": pair.Payload})
}

// Refresh re-issues the cookie pair. The refresh cookie was already
// validated, and the principal re-resolved, by the refresh middleware;
// issuance recomputes claims so role changes take effect immediately.
// A new refresh token is always minted alongside the access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	pair, err := h.authService.Issue(c.Request.Context(), userID)
	if err != nil {
		h.logger.Info("refresh rejected",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		response.Unauthorized(c)
		return
	}

	setSessionCookies(c, pair, h.secure)

	response.Success(c, http.StatusOK, "session refreshed", gin.H{"tokenPayload": pair.Payload})
}

// Me returns the authenticated principal's token payload.
func (h *AuthHandler) Me(c *gin.Context) {
	payload, ok := middleware.GetTokenPayload(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	response.Success(c, http.StatusOK, "authenticated", payload)
}
