// Package cryptox holds the small crypto helpers shared by the reporting
// service: password hashing and opaque token handling.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch reports a failed password verification.
var ErrPasswordMismatch = errors.New("password does not match")

// bcryptCost is the work factor for new hashes. Existing hashes keep the
// cost they were created with; bcrypt encodes it in the hash string.
const bcryptCost = 12

// HashPassword returns a bcrypt hash of password, salt and cost included in
// the encoded string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// Returns ErrPasswordMismatch when they do not match.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}
