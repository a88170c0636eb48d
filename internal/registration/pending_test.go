package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyMatch(t *testing.T) {
	store := NewPendingStore()
	store.Begin("sess", "alice", "alice@example.com", "secret", "123456", 10*time.Minute)

	p, err := store.Verify("sess", "123456")
	require.Nil(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "alice@example.com", p.Email)

	// A match does not clear the entry; commit does, via Clear.
	_, err = store.Verify("sess", "123456")
	assert.Nil(t, err)

	store.Clear("sess")
	_, err = store.Verify("sess", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyMismatchRetains(t *testing.T) {
	store := NewPendingStore()
	store.Begin("sess", "alice", "alice@example.com", "secret", "123456", 10*time.Minute)

	_, err := store.Verify("sess", "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)

	// Retry with the right code still succeeds.
	_, err = store.Verify("sess", "123456")
	assert.Nil(t, err)
}

func TestVerifyExpiredClears(t *testing.T) {
	store := NewPendingStore()
	start := time.Now()
	store.now = func() time.Time { return start }
	store.Begin("sess", "alice", "alice@example.com", "secret", "123456", 10*time.Minute)

	store.now = func() time.Time { return start.Add(11 * time.Minute) }
	_, err := store.Verify("sess", "123456")
	assert.ErrorIs(t, err, ErrExpired)

	// Expiry cleared the entry; even the right code finds nothing now.
	_, err = store.Verify("sess", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyUnknownSession(t *testing.T) {
	store := NewPendingStore()
	_, err := store.Verify("sess", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBeginOverwritesPrior(t *testing.T) {
	store := NewPendingStore()
	store.Begin("sess", "alice", "alice@example.com", "secret", "111111", 10*time.Minute)
	store.Begin("sess", "alice", "alice@example.com", "secret", "222222", 10*time.Minute)

	_, err := store.Verify("sess", "111111")
	assert.ErrorIs(t, err, ErrCodeMismatch)
	_, err = store.Verify("sess", "222222")
	assert.Nil(t, err)
}

func TestPurgeExpired(t *testing.T) {
	store := NewPendingStore()
	start := time.Now()
	store.now = func() time.Time { return start }
	store.Begin("old", "alice", "alice@example.com", "secret", "111111", time.Minute)
	store.Begin("new", "bob", "bob@example.com", "secret", "222222", time.Hour)

	store.now = func() time.Time { return start.Add(30 * time.Minute) }
	store.PurgeExpired()

	_, err := store.Verify("old", "111111")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Verify("new", "222222")
	assert.Nil(t, err)
}
