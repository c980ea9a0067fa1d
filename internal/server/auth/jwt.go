// Package auth holds the credential primitives: one-way password hashing and
// signed, time-limited bearer tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the minimal claim set embedded into a token.
type Identity struct {
	ID     string
	Name   string
	Avatar string
}

// Claims is the JWT payload: the identity plus registered iat/exp/sub.
type Claims struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for identity, issued at now and valid
// for validity.
func GenerateToken(identity Identity, secretKey []byte, validity time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:     identity.ID,
		Name:   identity.Name,
		Avatar: identity.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates signature and expiry as of now. A token is valid
// while now is strictly before its expiry.
func ParseToken(tokenString string, secretKey []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.ID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// TokenManager binds the process secret and token lifetime.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenManager(secretKey string, validity time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secretKey), validity: validity, now: time.Now}
}

// Issue mints a token for identity using the wall clock.
func (m *TokenManager) Issue(identity Identity) (string, error) {
	return GenerateToken(identity, m.secret, m.validity, m.now())
}

// Verify parses and validates tokenString using the wall clock.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, m.secret, m.now())
}

