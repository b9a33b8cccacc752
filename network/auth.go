package network

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("network: unauthorized")

const (
	MinUsernameLen = 1
	MaxUsernameLen = 10
)

// ValidUsername reports whether name fits the username length bounds.
func ValidUsername(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MinUsernameLen && n <= MaxUsernameLen
}

// Claims carries the player's username alongside the standard claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenAuth issues and verifies HS256 player tokens.
type TokenAuth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenAuth(secret string, ttl time.Duration) *TokenAuth {
	return &TokenAuth{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (a *TokenAuth) Issue(username string) (string, error) {
	username = strings.TrimSpace(username)
	if !ValidUsername(username) {
		return "", fmt.Errorf("%w: username must be %d to %d characters", ErrUnauthorized, MinUsernameLen, MaxUsernameLen)
	}
	now := a.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses tokenString and returns the username it was issued for.
func (a *TokenAuth) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("%w: missing token", ErrUnauthorized)
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", fmt.Errorf("%w: invalid claims", ErrUnauthorized)
	}
	return claims.Username, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
