package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "test-secret-key-at-least-32-chars-long"
	testTTL    = 24 * time.Hour
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager(testSecret, testTTL)

	tests := []struct {
		name     string
		username string
	}{
		{name: "simple username", username: "alice"},
		{name: "username with separators", username: "alice_smith-99"},
		{name: "long username", username: strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.Issue(tt.username)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if token == "" {
				t.Fatal("Issue() returned empty token")
			}

			got, err := m.Verify(token)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got != tt.username {
				t.Errorf("Verify() = %q, want %q", got, tt.username)
			}
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, testTTL).Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other := NewTokenManager("a-completely-different-signing-secret!", testTTL)
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	m := NewTokenManager(testSecret, testTTL)
	token, err := m.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token structure: %d segments", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := m.Verify(tampered); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	m := NewTokenManager(testSecret, testTTL)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "two segments", token: "abc.def"},
		{name: "four segments", token: "a.b.c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); err != ErrInvalidToken {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)
	token, err := m.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() on expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSigningMethod(t *testing.T) {
	// Token signed with "none" must be rejected regardless of claims.
	claims := Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none: %v", err)
	}

	m := NewTokenManager(testSecret, testTTL)
	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_EmptyUsernameClaim(t *testing.T) {
	m := NewTokenManager(testSecret, testTTL)
	token, err := m.Issue("")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
