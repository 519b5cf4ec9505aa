package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fixed token lifetime from issuance
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrTokenExpired indicates the token's expiry has passed
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenSignature indicates the token was not signed with the server secret
	ErrTokenSignature = errors.New("token signature invalid")
	// ErrTokenMalformed indicates the token could not be parsed as a JWT
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the decoded payload of a session token
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	timeFunc func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
// The secret is required: an empty value is a configuration error, never a
// fallback to a built-in default.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		timeFunc: time.Now,
	}, nil
}

// Issue creates a signed token embedding the user's identity claims with a
// fixed expiry from issuance time
func (s *TokenService) Issue(userID int64, username string) (string, error) {
	now := s.timeFunc()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Failures map to exactly one of ErrTokenExpired, ErrTokenSignature or
// ErrTokenMalformed; a verified token's claims are trusted as caller
// identity for the lifetime of the request only.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.timeFunc),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	return claims, nil
}
