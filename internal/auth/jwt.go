// Package auth turns bearer tokens into caller identities.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ledger/internal/access"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the caller identity. Role is kept as text so tokens naming a
// role this build does not know still parse and end up with no capabilities.
type Claims struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	InvestorID string `json:"investor_id,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for caller valid for the configured TTL.
func (t *Tokens) Issue(caller access.Caller) (string, error) {
	if strings.TrimSpace(caller.Name) == "" {
		return "", errors.New("caller name is required")
	}
	now := t.now()
	claims := Claims{
		Name:       caller.Name,
		Role:       caller.Role.String(),
		InvestorID: caller.InvestorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.Name,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its caller.
func (t *Tokens) Verify(token string) (access.Caller, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return access.Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Name) == "" {
		return access.Caller{}, fmt.Errorf("%w: empty name", ErrInvalidToken)
	}
	return access.Caller{
		Name:       claims.Name,
		Role:       access.ParseRole(claims.Role),
		InvestorID: claims.InvestorID,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
