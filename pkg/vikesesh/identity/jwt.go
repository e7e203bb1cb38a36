// Package identity resolves the calling student from the bearer token the
// campus SSO gateway attaches to each request. Authenticating the student
// is the gateway's job; this package only decodes the result.
package identity

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents the identity claims carried by the gateway token
type Claims struct {
	StudentID uint   `json:"student_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// getSigningSecret returns the shared token secret from environment or a
// default for development
func getSigningSecret() []byte {
	secret := os.Getenv("VIKESESH_JWT_SECRET")
	if secret == "" {
		// Default for development only - should be set in production
		secret = "vikesesh-dev-secret-change-in-production"
	}
	return []byte(secret)
}

// MintToken creates a gateway-style token for a student. In production
// tokens come from the SSO gateway; this exists for development and tests.
func MintToken(studentID uint, email string) (string, error) {
	claims := &Claims{
		StudentID: studentID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vikesesh",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSigningSecret())
}

// DecodeToken validates a token and returns the identity claims
func DecodeToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return getSigningSecret(), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
