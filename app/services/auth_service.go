package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"conexa/app/models"
	"conexa/app/repositories"
)

// DefaultTokenTTL is how long a bearer token issued at sign-in stays valid.
const DefaultTokenTTL = 24 * time.Hour

// AuthService signs users in and resolves their bearer tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	ttl       time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo, ttl: ttl}
}

// Register creates an account with a hashed password.
func (s *AuthService) Register(email, name, password, role string) (*models.User, error) {
	user := &models.User{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
		Role:  role,
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and issues a bearer token.
func (s *AuthService) Authenticate(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", ErrUnauthorized
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := user.PasswordMatches(password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrUnauthorized
	}

	token, err := s.tokenRepo.Issue(user.ID, s.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// UserForToken resolves a bearer token to its user.
func (s *AuthService) UserForToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	userID, err := s.tokenRepo.Resolve(token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

// Logout revokes token. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) error {
	err := s.tokenRepo.Revoke(token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}
