package middleware

import (
	"agritrain_backend/internal/util"
	"agritrain_backend/pkg/logger"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

type SessionToucher interface {
	Touch(ctx context.Context, token string) error
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// AuthMiddleware requires a valid bearer token for an existing user and stores
// its claims under util.ContextUserKey.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.UnauthorizedWithMessage(c, "Not authenticated")
			c.Abort()
			return
		}

		claims, err := verifier.Authenticate(c.Request.Context(), tokenString)
		switch {
		case err == nil:
		case errors.Is(err, util.ErrUserNotFound):
			util.UnauthorizedWithMessage(c, "User not found")
			c.Abort()
			return
		case errors.Is(err, util.ErrUnauthenticated):
			util.UnauthorizedWithMessage(c, "Could not validate credentials")
			c.Abort()
			return
		default:
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Set(util.ContextTokenKey, tokenString)
		c.Next()
	}
}

// SelfOnly rejects requests whose path parameter does not name the caller.
// Must run after AuthMiddleware.
func SelfOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		id, ok := util.ParseID(c.Param(param))
		if !ok {
			util.BadRequest(c, "Invalid user id")
			c.Abort()
			return
		}

		if id != claims.UserID {
			util.Forbidden(c, "Not authorized to access this user's data")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityMiddleware bumps last_activity on the caller's session.
func ActivityMiddleware(sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := util.GetTokenFromContext(c); token != "" {
			if err := sessions.Touch(c.Request.Context(), token); err != nil {
				logger.Log.Warn("session activity update failed", zap.Error(err))
			}
		}
		c.Next()
	}
}
