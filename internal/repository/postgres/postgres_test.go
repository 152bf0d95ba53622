package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/vedran77/courier/internal/config"
	"github.com/vedran77/courier/internal/database"
	"github.com/vedran77/courier/internal/domain"
	"github.com/vedran77/courier/internal/repository"
)

// TestRepositoriesIntegration exercises both repositories against a live
// Postgres. It creates throwaway rows keyed by the current timestamp and does
// not clean up after itself.
func TestRepositoriesIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	pool, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := NewUserRepo(pool)
	messages := NewMessageRepo(pool)

	alice := seedUser(t, ctx, users, "alice", "Smith")
	bob := seedUser(t, ctx, users, "bob", "Jones")

	t.Run("duplicate username", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{
			Username:     alice.Username,
			PasswordHash: "x",
			FirstName:    "Other",
			LastName:     "Person",
			Phone:        "1",
			JoinedAt:     time.Now(),
			LastLoginAt:  time.Now(),
		})
		if !errors.Is(err, repository.ErrDuplicate) {
			t.Errorf("Create() error = %v, want ErrDuplicate", err)
		}
	})

	t.Run("touch last login", func(t *testing.T) {
		at := time.Now().Add(time.Minute)
		found, err := users.TouchLastLogin(ctx, alice.Username, at)
		if err != nil || !found {
			t.Fatalf("TouchLastLogin() = %v, %v", found, err)
		}
		got, err := users.GetByUsername(ctx, alice.Username)
		if err != nil {
			t.Fatalf("GetByUsername() error = %v", err)
		}
		if !got.LastLoginAt.After(got.JoinedAt) {
			t.Errorf("LastLoginAt %v not after JoinedAt %v", got.LastLoginAt, got.JoinedAt)
		}
		// timestamptz stores microseconds, so compare with a small tolerance
		if d := got.JoinedAt.Sub(alice.JoinedAt); d < -time.Millisecond || d > time.Millisecond {
			t.Errorf("JoinedAt changed: %v → %v", alice.JoinedAt, got.JoinedAt)
		}

		found, err = users.TouchLastLogin(ctx, "no-such-user-ever", at)
		if err != nil {
			t.Fatalf("TouchLastLogin() error = %v", err)
		}
		if found {
			t.Error("TouchLastLogin() reported success for a missing user")
		}
	})

	t.Run("message lifecycle", func(t *testing.T) {
		msg := &domain.Message{
			ID:           uuid.New(),
			FromUsername: alice.Username,
			ToUsername:   bob.Username,
			Body:         "hi",
			SentAt:       time.Now(),
		}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := messages.GetByID(ctx, msg.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.ReadAt != nil {
			t.Errorf("ReadAt = %v after creation, want nil", got.ReadAt)
		}
		if got.FromUser == nil || got.ToUser == nil {
			t.Fatal("joined summaries missing")
		}
		if got.FromUser.Username != alice.Username || got.ToUser.Username != bob.Username {
			t.Errorf("summaries = %q/%q, want %q/%q",
				got.FromUser.Username, got.ToUser.Username, alice.Username, bob.Username)
		}

		// mark read freezes the timestamp
		first := time.Now()
		found, err := messages.MarkRead(ctx, msg.ID, first)
		if err != nil || !found {
			t.Fatalf("MarkRead() = %v, %v", found, err)
		}
		afterFirst, err := messages.GetByID(ctx, msg.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if afterFirst.ReadAt == nil {
			t.Fatal("ReadAt still nil after MarkRead")
		}

		found, err = messages.MarkRead(ctx, msg.ID, first.Add(time.Hour))
		if err != nil || !found {
			t.Fatalf("second MarkRead() = %v, %v", found, err)
		}
		afterSecond, err := messages.GetByID(ctx, msg.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if !afterSecond.ReadAt.Equal(*afterFirst.ReadAt) {
			t.Errorf("ReadAt re-stamped: %v → %v", afterFirst.ReadAt, afterSecond.ReadAt)
		}

		found, err = messages.MarkRead(ctx, uuid.New(), time.Now())
		if err != nil {
			t.Fatalf("MarkRead() error = %v", err)
		}
		if found {
			t.Error("MarkRead() reported success for a missing id")
		}
	})

	t.Run("threads", func(t *testing.T) {
		sent, err := messages.ListFrom(ctx, alice.Username)
		if err != nil {
			t.Fatalf("ListFrom() error = %v", err)
		}
		for _, m := range sent {
			if m.FromUsername != alice.Username {
				t.Errorf("foreign message in sent thread: %+v", m)
			}
			if m.ToUser == nil {
				t.Error("sent thread missing recipient summary")
			}
		}

		received, err := messages.ListTo(ctx, bob.Username)
		if err != nil {
			t.Fatalf("ListTo() error = %v", err)
		}
		for _, m := range received {
			if m.ToUsername != bob.Username {
				t.Errorf("foreign message in received thread: %+v", m)
			}
			if m.FromUser == nil {
				t.Error("received thread missing sender summary")
			}
		}
	})
}

func seedUser(t *testing.T, ctx context.Context, repo *UserRepo, prefix, lastName string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		Username:     fmt.Sprintf("%s_%d", prefix, now.UnixNano()),
		PasswordHash: "not-a-real-digest",
		FirstName:    prefix,
		LastName:     lastName,
		Phone:        "+15551234567",
		JoinedAt:     now,
		LastLoginAt:  now,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("seed user %s: %v", prefix, err)
	}
	return user
}
