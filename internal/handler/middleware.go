package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

const (
	contextUserIDKey     = "user_id"
	contextAccessUUIDKey = "access_uuid"
	contextUserKey       = "current_user"
)

// authenticate verifies the Bearer access token and stores the caller's id in
// the context. On failure the request is aborted and false is returned.
func (h *Handler) authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		zap.L().Warn("Authorization header missing")
		tokenVerificationsTotal.WithLabelValues("failure").Inc()
		handleServiceError(c, models.ErrTokenInvalid)
		return false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		zap.L().Warn("Invalid Authorization header format")
		tokenVerificationsTotal.WithLabelValues("failure").Inc()
		handleServiceError(c, models.ErrTokenInvalid)
		return false
	}

	claims, err := h.authService.VerifyAccessToken(c.Request.Context(), parts[1])
	if err != nil {
		zap.L().Warn("Access token verification failed", zap.Error(err))
		tokenVerificationsTotal.WithLabelValues("failure").Inc()
		handleServiceError(c, err)
		return false
	}

	tokenVerificationsTotal.WithLabelValues("success").Inc()
	c.Set(contextUserIDKey, claims.UserID)
	c.Set(contextAccessUUIDKey, claims.ID)
	return true
}

// loadCurrentUser fetches the caller's profile and caches it in the context.
// Soft-deleted callers are rejected: GetUser hides deleted profiles behind
// ErrUserNotFound, which for the caller's own token means the account is gone.
func (h *Handler) loadCurrentUser(c *gin.Context) bool {
	userID := c.GetInt64(contextUserIDKey)
	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if err == models.ErrUserNotFound {
			handleServiceError(c, models.ErrAccountDeleted)
			return false
		}
		handleServiceError(c, err)
		return false
	}
	c.Set(contextUserKey, user)
	return true
}

// AuthMiddleware verifies the Bearer access token and stores the caller's id.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.authenticate(c) {
			return
		}
		c.Next()
	}
}

// OptionalAuth authenticates the caller when an Authorization header is
// present and continues anonymously otherwise. A header that is present but
// invalid is still rejected.
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if !h.authenticate(c) || !h.loadCurrentUser(c) {
				return
			}
		}
		c.Next()
	}
}

// RequireNonDeleted loads the caller's profile and rejects soft-deleted
// accounts. The loaded profile is cached in the context.
func (h *Handler) RequireNonDeleted() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.loadCurrentUser(c) {
			return
		}
		c.Next()
	}
}

// RequireActiveAccount rejects callers whose account is deactivated.
func (h *Handler) RequireActiveAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsActiveAccount {
			handleServiceError(c, models.ErrAccountInactive)
			return
		}
		c.Next()
	}
}

// RequireStaff rejects non-staff callers.
func (h *Handler) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsStaff {
			handleServiceError(c, models.ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
