// Package auth issues and verifies the bearer tokens the HTTP surface
// requires, and hashes account passwords.
package auth

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Claims is what a verified token carries.
type Claims struct {
	UserID   string
	Username string
}

// Authenticator signs and verifies HS256 JWTs.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates an Authenticator with the given signing
// secret and token lifetime.
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// IssueToken signs a token for the user.
func (a *Authenticator) IssueToken(userID, username string) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject(userID).
		Claim("username", username).
		IssuedAt(now).
		Expiration(now.Add(a.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, a.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// VerifyToken parses and validates a token, returning its claims.
func (a *Authenticator) VerifyToken(token string) (*Claims, error) {
	tok, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256, a.secret), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	username, _ := tok.Get("username")
	name, _ := username.(string)

	return &Claims{
		UserID:   tok.Subject(),
		Username: name,
	}, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
