package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	digest, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if digest == "pw1" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !h.Verify("pw1", digest) {
		t.Error("Verify() = false for the original password")
	}
	if h.Verify("pw2", digest) {
		t.Error("Verify() = true for a different password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical; salting is broken")
	}
}

func TestVerify_MalformedDigest(t *testing.T) {
	h := newTestHasher(t)

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty", digest: ""},
		{name: "not bcrypt", digest: "plaintext"},
		{name: "truncated", digest: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h.Verify("anything", tt.digest) {
				t.Errorf("Verify() = true for malformed digest %q", tt.digest)
			}
		})
	}
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	// Out-of-range costs fall back to the library default rather than failing.
	h, err := NewPasswordHasher(0)
	if err != nil {
		t.Fatalf("NewPasswordHasher(0) error = %v", err)
	}

	digest, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("Cost() error = %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("digest cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}

func TestNewPasswordHasher_ConfiguredCost(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}

	digest, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("Cost() error = %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("digest cost = %d, want %d", cost, bcrypt.MinCost)
	}
}
