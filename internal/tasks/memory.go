package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskmanager/internal/models"
)

// MemoryStore is an in-memory Store, used in tests. All multi-step operations
// run under one lock, so the cascade delete is trivially all-or-nothing.
type MemoryStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]models.Task
	lists map[string][]string // owner -> list names, in creation order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[primitive.ObjectID]models.Task),
		lists: make(map[string][]string),
	}
}

func (s *MemoryStore) InsertTask(ctx context.Context, t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = primitive.NewObjectID()
	s.tasks[t.ID] = t
	return t, nil
}

func (s *MemoryStore) TasksByCategory(ctx context.Context, owner, category string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.OwnerID == owner && strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	sortByPosition(out)
	return out, nil
}

func (s *MemoryStore) ImportantTasks(ctx context.Context, owner string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.OwnerID == owner && t.Important {
			out = append(out, t)
		}
	}
	sortByPosition(out)
	return out, nil
}

func (s *MemoryStore) TaskByID(ctx context.Context, owner string, id primitive.ObjectID) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != owner {
		return models.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) SetCompleted(ctx context.Context, owner string, id primitive.ObjectID, completed bool) error {
	return s.update(owner, id, func(t *models.Task) { t.Completed = completed })
}

func (s *MemoryStore) SetImportant(ctx context.Context, owner string, id primitive.ObjectID, important bool) error {
	return s.update(owner, id, func(t *models.Task) { t.Important = important })
}

func (s *MemoryStore) update(owner string, id primitive.ObjectID, apply func(*models.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != owner {
		return ErrNotFound
	}
	apply(&t)
	s.tasks[id] = t
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, owner string, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != owner {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) MaxPosition(ctx context.Context, owner, category string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max, found := 0, false
	for _, t := range s.tasks {
		if t.OwnerID == owner && strings.EqualFold(t.Category, category) {
			if !found || t.Position > max {
				max, found = t.Position, true
			}
		}
	}
	return max, found, nil
}

func (s *MemoryStore) SetPositions(ctx context.Context, owner string, order []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for index, id := range order {
		t, ok := s.tasks[id]
		if !ok || t.OwnerID != owner {
			continue
		}
		t.Position = index
		s.tasks[id] = t
	}
	return nil
}

func (s *MemoryStore) InsertList(ctx context.Context, owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.lists[owner] {
		if existing == name {
			return ErrDuplicateList
		}
	}
	s.lists[owner] = append(s.lists[owner], name)
	return nil
}

func (s *MemoryStore) ListNames(ctx context.Context, owner string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists[owner]...), nil
}

func (s *MemoryStore) DeleteListCascade(ctx context.Context, owner, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.lists[owner] {
		if existing == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrListNotFound
	}

	var removed int64
	for id, t := range s.tasks {
		if t.OwnerID == owner && strings.EqualFold(t.Category, name) {
			delete(s.tasks, id)
			removed++
		}
	}
	s.lists[owner] = append(s.lists[owner][:idx], s.lists[owner][idx+1:]...)
	return removed, nil
}

func sortByPosition(ts []models.Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].Position < ts[j].Position
	})
}
