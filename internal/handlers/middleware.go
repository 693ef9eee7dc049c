package handlers

import (
	"errors"
	"net/http"
	"strings"

	"taskboard/internal/models"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

const userCtxKey = "currentUser"

// authMiddleware verifies the Bearer token, re-derives the acting user from
// storage, and stores it in the Gin context for downstream handlers.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	user, err := h.userFromToken(c, parts[1])
	if err != nil {
		if !isAuthFailure(err) {
			// Storage failure while resolving the user; not the caller's fault.
			h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_user_load_failed", err)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
		return
	}

	c.Set(userCtxKey, user)
	c.Next()
}

// userFromToken parses an access token and loads the active user it names.
func (h *Handler) userFromToken(c *gin.Context, token string) (*models.User, error) {
	userID, err := h.services.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := h.services.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, service.ErrInactiveUser
	}
	return user, nil
}

// isAuthFailure reports whether err is a credential/token/account problem the
// caller can act on; anything else is an internal failure and gets a 500.
func isAuthFailure(err error) bool {
	return errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenMalformed) ||
		errors.Is(err, service.ErrTokenSignature) ||
		errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrInactiveUser) ||
		errors.Is(err, service.ErrUserNotFound)
}

// tokenErrorMessage maps token/user resolution failures to client-facing
// messages without leaking internals.
func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, service.ErrTokenMalformed):
		return "token malformed"
	case errors.Is(err, service.ErrTokenSignature):
		return "token signature invalid"
	case errors.Is(err, service.ErrInactiveUser):
		return "account is deactivated"
	}
	return "invalid or expired token"
}

// currentUser returns the authenticated user stored by authMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// adminRequired rejects non-admin callers with 403. Must run after
// authMiddleware.
func (h *Handler) adminRequired(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if !user.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
		return
	}
	c.Next()
}

// rateLimitMiddleware rejects clients that exhausted their request budget.
func (h *Handler) rateLimitMiddleware(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		if h.log != nil {
			h.log.Infow("rate_limit_exceeded", "client", c.ClientIP(), "path", c.FullPath())
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}
