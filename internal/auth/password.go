package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/gophertalk/pkg/apperr"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher salts every hash, so equal passwords hash differently.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify accepts only bcrypt hashes; anything else fails.
func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
