package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// AuthHandler session endpoints. Tokens come from the campus identity
// service, so there is no login here.
type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc}
}

// GetCurrentUser the caller's directory entry
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

// Logout revokes the presented token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Logout(c.Request.Context(), claims)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "user not found")
	case errors.Is(err, service.ErrRevocationDisabled):
		response.ServiceUnavailable(c, 11002, "token revocation is unavailable")
	case errors.Is(err, service.ErrTokenTTLNotPositive), errors.Is(err, service.ErrTokenIDRequired):
		response.BadRequest(c, 11003, "token cannot be revoked")
	default:
		response.InternalError(c)
	}
}
