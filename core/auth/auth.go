package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Credentials is the single username/password pair accepted by the basic auth gate.
type Credentials struct {
	User         string
	PasswordHash string
}

// NewCredentials builds Credentials from a precomputed hash, or hashes password when hash is empty.
func NewCredentials(user, password, hash string) (*Credentials, error) {
	if user == "" {
		return nil, fmt.Errorf("basic auth user is empty")
	}
	if hash == "" {
		if password == "" {
			return nil, fmt.Errorf("basic auth password is empty")
		}
		var err error
		if hash, err = HashPassword(password); err != nil {
			return nil, err
		}
	} else if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	return &Credentials{User: user, PasswordHash: hash}, nil
}

// Verify reports whether user and password match.
func (c *Credentials) Verify(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1
	passOK := CheckPasswordHash(password, c.PasswordHash)
	return userOK && passOK
}
