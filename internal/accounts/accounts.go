// Package accounts persists registered user accounts. The store enforces the
// email-uniqueness invariant; callers treat their own duplicate checks as a
// fast path only.
package accounts

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/models"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

// Store is the persistent account collaborator.
type Store interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Insert(ctx context.Context, username, email, passwordHash string) (string, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) error
}

// Authenticate checks a password against the stored hash and returns the
// matching account. Session issuance is the caller's concern.
func Authenticate(ctx context.Context, store Store, email, password string) (models.User, error) {
	user, err := store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrBadCredentials
	}
	return user, nil
}
