package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var issuedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	id := Identity{ID: "user-123", Name: "Ann", Avatar: "//www.gravatar.com/avatar/x"}

	tok, err := GenerateToken(id, secret, time.Hour, issuedAt)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret, issuedAt)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.ID != id.ID || claims.Name != id.Name || claims.Avatar != id.Avatar {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Subject != id.ID {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if !claims.IssuedAt.Time.Equal(issuedAt) {
		t.Fatalf("iat mismatch: got %v", claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("exp mismatch: got %v", claims.ExpiresAt.Time)
	}
}

func TestParseToken_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(Identity{ID: "u1"}, secret, 3600*time.Second, issuedAt)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	tests := []struct {
		name    string
		offset  time.Duration
		wantErr error
	}{
		{"at issuance", 0, nil},
		{"one second before expiry", 3599 * time.Second, nil},
		{"one second after expiry", 3601 * time.Second, common.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tok, secret, issuedAt.Add(tt.offset))
			if err != tt.wantErr {
				t.Fatalf("got %v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(Identity{ID: "u2"}, []byte("right-secret"), time.Hour, issuedAt)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken(tok, []byte("wrong-secret"), issuedAt); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "not.a.jwt", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"} {
		if _, err := ParseToken(s, []byte("k"), issuedAt); err != common.ErrInvalidToken {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		ID: "u3",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseToken(tok, secret, issuedAt); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_RequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: "u4"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseToken(tok, secret, issuedAt); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_UsesClock(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	now := issuedAt
	m.now = func() time.Time { return now }

	tok, err := m.Issue(Identity{ID: "u5", Name: "Bob"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	now = issuedAt.Add(59 * time.Minute)
	if _, err := m.Verify(tok); err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}

	now = issuedAt.Add(61 * time.Minute)
	if _, err := m.Verify(tok); err != common.ErrTokenExpired {
		t.Fatalf("Verify after expiry: got %v", err)
	}

	if m.validity != time.Hour {
		t.Fatalf("unexpected validity %v", m.validity)
	}
}
