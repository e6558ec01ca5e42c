package middleware

import (
	"context"
	"strings"

	"github.com/billbook/billbook/internal/auth"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/types"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthenticateMiddleware verifies the bearer token in the Authorization header
// and puts the user's email, name and role in the request context.
// Failures are handed to ErrorHandler as permission errors.
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "Unauthorized - No token provided")
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		claims, err := provider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abortUnauthorized(c, "Unauthorized - Invalid token")
			return
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, types.CtxUserEmail, claims.Email)
		ctx = context.WithValue(ctx, types.CtxUserName, claims.Name)
		ctx = context.WithValue(ctx, types.CtxUserRole, claims.Role)
		ctx = context.WithValue(ctx, types.CtxJWT, tokenString)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, hint string) {
	_ = c.Error(ierr.NewError("unauthenticated request").
		WithHint(hint).
		Mark(ierr.ErrPermissionDenied))
	c.Abort()
}
