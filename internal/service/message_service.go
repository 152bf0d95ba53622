package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/courier/internal/domain"
	"github.com/vedran77/courier/internal/repository"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrInvalidSender    = errors.New("sender does not exist")
	ErrInvalidRecipient = errors.New("recipient does not exist")
	ErrEmptyBody        = errors.New("message body must not be empty")
)

// UserChecker is the slice of the user directory the ledger needs: an
// existence probe for validating sender and recipient usernames.
type UserChecker interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyMessageRead(msg *domain.Message)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	users       UserChecker
	notifier    Notifier
}

func NewMessageService(messageRepo repository.MessageRepository, users UserChecker) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		users:       users,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *MessageService) Send(ctx context.Context, from, to, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	ok, err := s.users.Exists(ctx, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidSender
	}

	ok, err = s.users.Exists(ctx, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidRecipient
	}

	msg := &domain.Message{
		ID:           uuid.New(),
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	// Refetch with sender and recipient summaries joined in.
	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}

	return full, nil
}

func (s *MessageService) Get(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// MarkRead stamps the message's read_at. The transition happens once: marking
// an already-read message keeps the original timestamp.
func (s *MessageService) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	found, err := s.messageRepo.MarkRead(ctx, id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("marking message read: %w", err)
	}
	if !found {
		return nil, ErrMessageNotFound
	}

	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyMessageRead(msg)
	}

	return msg, nil
}

// ThreadFrom returns every message sent by username, oldest first, with the
// recipient summary embedded.
func (s *MessageService) ThreadFrom(ctx context.Context, username string) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListFrom(ctx, username)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// ThreadTo is the symmetric counterpart: messages received by username with
// the sender summary embedded.
func (s *MessageService) ThreadTo(ctx context.Context, username string) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListTo(ctx, username)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
