// Package auth issues and validates the signed tokens that carry a
// shopper's cart session id.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSecret    = errors.New("session secret is required")
)

// SessionClaims are the claims of a cart session token. The subject is
// the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionToken is a freshly issued token
type SessionToken struct {
	SessionID string
	Token     string
	ExpiresAt time.Time
}

// SessionTokenService handles cart session token operations
type SessionTokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewSessionTokenService creates a new SessionTokenService
func NewSessionTokenService(cfg config.SessionConfig) (*SessionTokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	expiration := cfg.TTL
	if expiration <= 0 {
		expiration = 30 * 24 * time.Hour
	}
	return &SessionTokenService{
		secret:     []byte(cfg.Secret),
		expiration: expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}, nil
}

// Issue starts a new session and signs its token
func (s *SessionTokenService) Issue() (*SessionToken, error) {
	return s.IssueFor(uuid.NewString())
}

// IssueFor signs a token for an existing session id
func (s *SessionTokenService) IssueFor(sessionID string) (*SessionToken, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &SessionToken{SessionID: sessionID, Token: token, ExpiresAt: expiresAt}, nil
}

// Validate checks a token and returns its session id
func (s *SessionTokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return "", ErrTokenNotYetValid
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidClaims
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidClaims
	}
	return claims.Subject, nil
}

// Expiration returns how long issued tokens stay valid
func (s *SessionTokenService) Expiration() time.Duration {
	return s.expiration
}
