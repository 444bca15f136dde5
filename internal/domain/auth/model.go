// Package auth provides user accounts, authentication and JWT issuance.
package auth

import (
	"context"
	"strings"
	"time"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
)

// UserType partitions the user base by role.
type UserType string

const (
	UserTypeAdmin      UserType = "admin"
	UserTypeOffice     UserType = "office"
	UserTypeField      UserType = "field"
	UserTypeContractor UserType = "contractor" // taşeron
)

// IsValidUserType reports whether t is a known user type.
func IsValidUserType(t UserType) bool {
	switch t {
	case UserTypeAdmin, UserTypeOffice, UserTypeField, UserTypeContractor:
		return true
	}
	return false
}

// User represents a system user.
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	UserType     UserType   `db:"user_type" json:"userType"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// NewUser creates an active user.
func NewUser(email, passwordHash, fullName string, userType UserType) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		FullName:     fullName,
		UserType:     userType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks user invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if !IsValidUserType(u.UserType) {
		return apperror.NewValidation("invalid user type").
			WithDetail("field", "userType").
			WithDetail("value", string(u.UserType))
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// CanLogin checks account state before issuing a token.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// RecordLogin stamps the last login time.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}
