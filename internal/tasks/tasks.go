// Package tasks maintains per-user task lists: dense zero-based ordering
// within each (owner, category) group, a derived "important" view, and
// user-defined list names with cascading delete.
package tasks

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskmanager/internal/models"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrListNotFound  = errors.New("list not found")
	ErrDuplicateList = errors.New("list already exists")
	ErrValidation    = errors.New("missing required field")
)

// ImportantCategory is the derived pseudo-category of flagged tasks.
const ImportantCategory = "important"

// Store is row-level task and list persistence. Category matching is
// case-insensitive throughout.
type Store interface {
	InsertTask(ctx context.Context, t models.Task) (models.Task, error)
	// TasksByCategory returns the owner's tasks in the category, ordered by
	// position.
	TasksByCategory(ctx context.Context, owner, category string) ([]models.Task, error)
	// ImportantTasks returns the owner's important tasks across all
	// categories, ordered by position.
	ImportantTasks(ctx context.Context, owner string) ([]models.Task, error)
	TaskByID(ctx context.Context, owner string, id primitive.ObjectID) (models.Task, error)
	SetCompleted(ctx context.Context, owner string, id primitive.ObjectID, completed bool) error
	SetImportant(ctx context.Context, owner string, id primitive.ObjectID, important bool) error
	DeleteTask(ctx context.Context, owner string, id primitive.ObjectID) error
	// MaxPosition returns the highest position in the owner's category; ok is
	// false when the group is empty.
	MaxPosition(ctx context.Context, owner, category string) (pos int, ok bool, err error)
	// SetPositions assigns position = index for each listed task the owner
	// actually holds. Ids belonging to other owners are skipped.
	SetPositions(ctx context.Context, owner string, order []primitive.ObjectID) error
	InsertList(ctx context.Context, owner, name string) error
	ListNames(ctx context.Context, owner string) ([]string, error)
	// DeleteListCascade removes the list and all of the owner's tasks in that
	// category as one all-or-nothing operation, returning the number of tasks
	// removed.
	DeleteListCascade(ctx context.Context, owner, name string) (int64, error)
}
