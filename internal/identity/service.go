// Package identity implements user registration and login.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/incidentflow/incidentflow/internal/pkg/ctxlog"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer issues a credential bound to a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// Service implements identity business logic.
type Service struct {
	repo   Repository
	issuer TokenIssuer
}

// NewService creates a new identity service.
func NewService(repo Repository, issuer TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
	}
}

// RegisterInput holds data for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput holds data for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new user and returns a credential for it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (string, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return "", ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
	}

	// The repository also maps the unique constraint to ErrEmailExists,
	// closing the race between the existence check and the insert.
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return "", err
	}

	ctxlog.FromContext(ctx).Info("user registered", "user_id", user.ID)

	tok, err := s.issuer.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// Login verifies the password and returns a credential for the user.
func (s *Service) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	tok, err := s.issuer.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
