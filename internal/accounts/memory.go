package accounts

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskmanager/internal/models"
)

// MemoryStore is an in-memory Store, used in tests.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) Insert(ctx context.Context, username, email, passwordHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return "", ErrEmailTaken
	}
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.users[email] = user
	return user.ID.Hex(), nil
}

func (s *MemoryStore) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = hash
	s.users[email] = user
	return nil
}
