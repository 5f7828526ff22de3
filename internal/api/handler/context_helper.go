package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/service"
	pkgerrors "fyp-portal/pkg/errors"
	"fyp-portal/pkg/jwt"
	"fyp-portal/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxUserID     = "user_id"
	CtxRole       = "role"
	CtxDepartment = "department"
	CtxClaims     = "claims"
)

// MustGetUserID reads user_id from the gin context. When the JWT middleware
// did not run it writes a 401 and returns false; callers return right away.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxUserID)
}

// MustGetRole reads role from the gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxRole)
}

// MustGetCaller reads both identity values as a service.Caller.
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, Role: role}, true
}

// MustGetClaims returns the verified token claims.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	claims, ok := v.(*jwt.Claims)
	if !exists || !ok || claims == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "not authenticated")
		return nil, false
	}
	return claims, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "not authenticated")
		return "", false
	}
	return s, true
}

// bindFailed writes the shared validation error.
func bindFailed(c *gin.Context, err error) {
	response.InvalidParams(c, err)
}

// isVersionConflict optimistic lock failures map to 409 everywhere.
func isVersionConflict(c *gin.Context, err error) bool {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		response.Conflict(c, response.CodeVersionConflict, "record was modified by someone else, reload and retry")
		return true
	}
	return false
}
