// Package context provides request-scoped value extraction.
package context

import (
	"context"

	"santiye/internal/core/id"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID   id.ID
	Email    string
	UserType string
	IsAdmin  bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context, or nil.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns the user ID from context or the nil ID.
func GetUserID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return id.Nil()
}

// IsContractor reports whether the authenticated user is a contractor.
func IsContractor(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.UserType == "contractor"
}
