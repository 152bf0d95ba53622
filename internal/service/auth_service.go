package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vedran77/courier/internal/auth"
	"github.com/vedran77/courier/internal/domain"
	"github.com/vedran77/courier/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, hasher *PasswordHasher, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		JoinedAt:     now,
		LastLoginAt:  now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same name.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// Authenticate reports whether the username/password pair is valid. An
// unknown username and a wrong password are indistinguishable to the caller:
// both return false, and the missing-user path still pays for a bcrypt
// comparison.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if user == nil {
		s.hasher.CompareDummy(password)
		return false, nil
	}
	return s.hasher.Verify(password, user.PasswordHash), nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	if err := s.TouchLogin(ctx, username); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}

// TouchLogin stamps last_login_at with the current time.
func (s *AuthService) TouchLogin(ctx context.Context, username string) error {
	found, err := s.userRepo.TouchLastLogin(ctx, username, time.Now())
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}
