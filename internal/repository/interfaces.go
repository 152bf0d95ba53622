package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/courier/internal/domain"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	TouchLastLogin(ctx context.Context, username string, at time.Time) (bool, error)
	List(ctx context.Context) ([]domain.UserSummary, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListFrom(ctx context.Context, username string) ([]domain.Message, error)
	ListTo(ctx context.Context, username string) ([]domain.Message, error)
}
