package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"santiye/internal/core/apperror"
	appctx "santiye/internal/core/context"
	"santiye/internal/core/id"
	"santiye/internal/domain/auth"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// UserResolver re-checks the token subject against the user store, so
// disabled or deleted accounts are rejected even with a valid token.
type UserResolver interface {
	ResolveActiveUser(ctx context.Context, userID id.ID) (*auth.User, error)
}

// Auth middleware validates JWT tokens, resolves the account and populates
// the user context.
func Auth(validator JWTValidator, resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		account, err := resolver.ResolveActiveUser(c.Request.Context(), user.UserID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		// Token claims may be stale; the stored account wins.
		user.Email = account.Email
		user.UserType = string(account.UserType)
		user.IsAdmin = account.IsAdmin()

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID.String())

		c.Next()
	}
}

// RequireAdmin middleware restricts the route to admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !user.IsAdmin {
			_ = c.Error(apperror.NewForbidden("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUserType middleware restricts the route to the listed user types.
// Admins always pass.
func RequireUserType(types ...auth.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if user.IsAdmin {
			c.Next()
			return
		}
		for _, t := range types {
			if user.UserType == string(t) {
				c.Next()
				return
			}
		}
		_ = c.Error(apperror.NewForbidden("insufficient permissions").
			WithDetail("required_types", types))
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
