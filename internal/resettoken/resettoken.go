// Package resettoken issues and validates the signed, time-bounded tokens
// behind password-reset links. Tokens are stateless: nothing is stored, and a
// token stays valid until its max age elapses.
package resettoken

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/accounts"
	"taskmanager/internal/mailer"
	"taskmanager/internal/util"
)

var (
	// ErrInvalidToken covers both tampered and expired tokens; callers are
	// not told which.
	ErrInvalidToken = errors.New("invalid or expired reset token")
	ErrValidation   = errors.New("password is required")
)

const resetMailSubject = "Password Reset Link"

const resetMailBody = `Please use the following link to reset your password. This link is valid for 1 hour:
{{.URL}}
If you did not request a password reset, please ignore this email.`

// Service issues reset tokens binding an email address and an issue time.
type Service struct {
	accounts accounts.Store
	notifier mailer.Notifier
	secret   []byte
	maxAge   time.Duration
	baseURL  string
	now      func() time.Time
}

func NewService(store accounts.Store, notifier mailer.Notifier, secret []byte, maxAge time.Duration, baseURL string) *Service {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Service{
		accounts: store,
		notifier: notifier,
		secret:   secret,
		maxAge:   maxAge,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// Issue signs a token binding email to the current time.
func (s *Service) Issue(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  email,
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing reset token: %v", err)
	}
	return token, nil
}

// Validate returns the email bound to the token, or ErrInvalidToken if the
// signature does not check out or the token is older than the max age.
func (s *Service) Validate(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return "", ErrInvalidToken
	}
	if s.now().Sub(claims.IssuedAt.Time) > s.maxAge {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// RequestReset mails a reset link to the account's address. The account must
// exist; accounts.ErrNotFound surfaces unchanged.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrValidation
	}
	if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
		return err
	}

	token, err := s.Issue(email)
	if err != nil {
		return err
	}
	body, err := util.RenderTemplate(resetMailBody, struct{ URL string }{s.baseURL + "/" + token})
	if err != nil {
		return fmt.Errorf("error rendering reset mail: %v", err)
	}
	if err := s.notifier.Send(email, resetMailSubject, body); err != nil {
		return &mailer.DeliveryError{Err: err}
	}
	log.Printf("Reset email sent to %s", email)
	return nil
}

// Reset validates the token and updates the bound account's password hash.
// A valid token may be used more than once until it expires.
func (s *Service) Reset(ctx context.Context, token, newPassword string) error {
	email, err := s.Validate(token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %v", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, email, string(hash)); err != nil {
		return err
	}
	log.Printf("Password for %s reset successfully.", email)
	return nil
}
