package tasks

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskmanager/internal/models"
)

// Engine maintains task ordering on top of a Store.
type Engine struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// groupLock returns the mutex serializing position assignment for one
// (owner, category) group. Different groups never block each other.
func (e *Engine) groupLock(owner, category string) *sync.Mutex {
	key := owner + "\x00" + strings.ToLower(category)
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	return l
}

// Add appends a task at the end of its (owner, category) group. The
// max-position read and the insert happen under the group lock, so
// concurrent adds cannot claim the same position.
func (e *Engine) Add(ctx context.Context, owner, title, category string, due *time.Time) (models.Task, error) {
	if title == "" || category == "" {
		return models.Task{}, ErrValidation
	}

	lock := e.groupLock(owner, category)
	lock.Lock()
	defer lock.Unlock()

	max, ok, err := e.store.MaxPosition(ctx, owner, category)
	if err != nil {
		return models.Task{}, err
	}
	next := 0
	if ok {
		next = max + 1
	}

	return e.store.InsertTask(ctx, models.Task{
		OwnerID:  owner,
		Title:    title,
		Category: category,
		DueDate:  due,
		Position: next,
	})
}

// List returns the owner's tasks in the category, ordered by position. The
// "important" pseudo-category returns important tasks across all categories.
func (e *Engine) List(ctx context.Context, owner, category string) ([]models.Task, error) {
	if strings.EqualFold(category, ImportantCategory) {
		return e.store.ImportantTasks(ctx, owner)
	}
	return e.store.TasksByCategory(ctx, owner, category)
}

// ToggleCompleted flips the task's completed flag and returns the updated
// task. Position is untouched.
func (e *Engine) ToggleCompleted(ctx context.Context, owner string, id primitive.ObjectID) (models.Task, error) {
	t, err := e.store.TaskByID(ctx, owner, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := e.store.SetCompleted(ctx, owner, id, !t.Completed); err != nil {
		return models.Task{}, err
	}
	t.Completed = !t.Completed
	return t, nil
}

// ToggleImportant flips the task's important flag and returns the updated
// task. Position and category membership are untouched.
func (e *Engine) ToggleImportant(ctx context.Context, owner string, id primitive.ObjectID) (models.Task, error) {
	t, err := e.store.TaskByID(ctx, owner, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := e.store.SetImportant(ctx, owner, id, !t.Important); err != nil {
		return models.Task{}, err
	}
	t.Important = !t.Important
	return t, nil
}

// Delete removes the task. Remaining positions are not renumbered; gaps close
// at the next Reorder.
func (e *Engine) Delete(ctx context.Context, owner string, id primitive.ObjectID) error {
	return e.store.DeleteTask(ctx, owner, id)
}

// Reorder assigns position = index for each id in the caller-supplied full
// ordering of one (owner, category) group. Ids the owner does not hold are
// silently excluded, so a forged id can never move another user's task.
// This is where contiguity is restored after deletes.
func (e *Engine) Reorder(ctx context.Context, owner string, order []primitive.ObjectID) error {
	if len(order) == 0 {
		return nil
	}

	// The submitted ids all belong to one group; the first resolvable one
	// tells us which, so the rewrite serializes with Add on that group.
	if t, err := e.store.TaskByID(ctx, owner, order[0]); err == nil {
		lock := e.groupLock(owner, t.Category)
		lock.Lock()
		defer lock.Unlock()
	}

	return e.store.SetPositions(ctx, owner, order)
}
