package service

import (
	"context"

	"github.com/vedran77/courier/internal/domain"
	"github.com/vedran77/courier/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns every user's public summary, ordered by last name.
func (s *UserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.UserSummary{}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
