package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens inside the payload.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrTokenInvalid = errors.New("invalid token")

// Claims is the signed payload shared by access and refresh tokens.
type Claims struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Type  TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Signer signs and verifies expiring payloads.
type Signer interface {
	Sign(claims Claims, ttl time.Duration) (string, error)
	Verify(raw string) (*Claims, error)
}

type JWTSigner struct {
	secret []byte
	now    func() time.Time
}

func NewJWTSigner(secret string) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the time source, used by tests to mint expired tokens.
func (s *JWTSigner) WithClock(now func() time.Time) *JWTSigner {
	return &JWTSigner{secret: s.secret, now: now}
}

func (s *JWTSigner) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims.ID = uuid.NewString()
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", claims.Type, err)
	}
	return signed, nil
}

func (s *JWTSigner) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Email == "" || claims.Type == "" {
		return nil, fmt.Errorf("%w: missing email or type", ErrTokenInvalid)
	}
	return claims, nil
}
