// Package auth covers the two secrets in the system: the password each
// participant picks when confirming, and the admin token handed to the
// group creator.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
)

// MinPasswordLength is deliberately low: these are throwaway secrets scoped
// to a single drawing, not account passwords.
const MinPasswordLength = 4

// HashPassword validates and bcrypt-hashes a participant password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword compares a stored hash against a candidate password.
// Returns ErrWrongPassword on mismatch.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
