package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a configurable work factor. The dummy
// digest is generated at the same cost so comparisons against absent users
// take as long as real mismatches.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("courier-dummy-credential"), cost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy digest: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. Mismatches and malformed
// digests both return false.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// CompareDummy burns a full bcrypt comparison. Called on the missing-user
// path so response latency does not reveal whether a username exists.
func (h *PasswordHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
