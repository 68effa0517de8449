// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evently-labs/event-booking-api/internal/auth"
	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so the response does not reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles account registration and session issuance.
type AuthService struct {
	users      *repository.UserRepository
	jwt        *auth.JWTManager
	bcryptCost int
}

// NewAuthService constructs an AuthService.
func NewAuthService(users *repository.UserRepository, jwt *auth.JWTManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, jwt: jwt, bcryptCost: bcryptCost}
}

// Register creates an account and returns a signed session token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.TokenResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, strings.TrimSpace(req.Name), email, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.tokenFor(user)
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.tokenFor(user)
}

// Me returns the account for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) tokenFor(user *model.User) (*model.TokenResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.TokenResponse{Token: token, User: *user}, nil
}
