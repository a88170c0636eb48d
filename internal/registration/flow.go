// Package registration moves an account registration from initiated to
// committed: the caller registers, receives a one-time code by mail, and
// confirms it within the TTL to create the account.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/accounts"
	"taskmanager/internal/mailer"
	"taskmanager/internal/util"
)

// ErrValidation means a required field was empty or malformed.
var ErrValidation = errors.New("all fields are required")

// CodeSource produces one-time codes for registration confirmation.
type CodeSource interface {
	Issue() (string, error)
}

const otpMailSubject = "Your Registration OTP"

const otpMailBody = `Your One-Time Password (OTP) for registration is: {{.Code}}
This OTP is valid for {{.Minutes}} minutes. Please enter it to complete your registration.`

// Flow orchestrates CodeSource, PendingStore and the account store.
type Flow struct {
	accounts accounts.Store
	pending  *PendingStore
	codes    CodeSource
	notifier mailer.Notifier
	ttl      time.Duration
}

func NewFlow(store accounts.Store, pending *PendingStore, codes CodeSource, notifier mailer.Notifier, ttl time.Duration) *Flow {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Flow{
		accounts: store,
		pending:  pending,
		codes:    codes,
		notifier: notifier,
		ttl:      ttl,
	}
}

// Register validates the fields, issues a one-time code and mails it. On a
// failed send the pending entry is dropped before returning, so no attempt is
// ever left looking like it is awaiting a code the user never received.
// The duplicate-email check here is a fast path; the store's unique index is
// what actually guards the invariant at commit time.
func (f *Flow) Register(ctx context.Context, session, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return ErrValidation
	}
	if !util.ValidateEmail(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	_, err := f.accounts.FindByEmail(ctx, email)
	if err == nil {
		return accounts.ErrEmailTaken
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("error checking existing account: %v", err)
	}

	code, err := f.codes.Issue()
	if err != nil {
		return fmt.Errorf("error issuing code: %v", err)
	}
	f.pending.Begin(session, username, email, password, code, f.ttl)

	body, err := util.RenderTemplate(otpMailBody, struct {
		Code    string
		Minutes int
	}{code, int(f.ttl.Minutes())})
	if err != nil {
		f.pending.Clear(session)
		return fmt.Errorf("error rendering OTP mail: %v", err)
	}
	if err := f.notifier.Send(email, otpMailSubject, body); err != nil {
		f.pending.Clear(session)
		return &mailer.DeliveryError{Err: err}
	}
	log.Printf("OTP email sent to %s", email)
	return nil
}

// Confirm checks the submitted code and, on a match, commits the pending
// registration as a new account with a hashed password. A successful commit
// clears the pending entry, so a second Confirm returns ErrNotFound. A
// transient store failure keeps the entry for retry; a duplicate-email
// failure clears it, since retrying can never succeed.
func (f *Flow) Confirm(ctx context.Context, session, code string) error {
	p, err := f.pending.Verify(session, code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %v", err)
	}
	if _, err := f.accounts.Insert(ctx, p.Username, p.Email, string(hash)); err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			f.pending.Clear(session)
			return accounts.ErrEmailTaken
		}
		return err
	}
	f.pending.Clear(session)
	log.Printf("User %s registered successfully.", p.Username)
	return nil
}
