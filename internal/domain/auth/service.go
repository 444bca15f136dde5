package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/tx"
	"santiye/pkg/logger"
)

// Service provides authentication business logic.
type Service struct {
	repo      Repository
	jwt       *JWTService
	txManager tx.Manager
}

// NewService creates a new auth service.
func NewService(repo Repository, jwt *JWTService, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		jwt:       jwt,
		txManager: txManager,
	}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// Login verifies credentials and issues an access token.
// Invalid email and invalid password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user.RecordLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "user_type", user.UserType)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, password, fullName string, userType UserType) (*User, error) {
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}

	user := NewUser(email, string(hash), fullName, userType)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.GetByEmail(ctx, user.Email); err == nil && existing != nil {
			return apperror.NewDuplicate("user", "email", user.Email)
		} else if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "user_type", user.UserType)
	return user, nil
}

// ResolveActiveUser loads a user by ID and rejects inactive accounts.
// Called by the auth middleware after token validation, so disabled users
// are cut off before any handler runs.
func (s *Service) ResolveActiveUser(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}
	return user, nil
}

// GetByID retrieves a user.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// SetActive enables or disables an account.
func (s *Service) SetActive(ctx context.Context, userID id.ID, active bool) (*User, error) {
	var result *User
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.IsActive = active
		user.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
