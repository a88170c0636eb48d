package tasks

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskmanager/internal/models"
)

const owner = "user1"

func addTasks(t *testing.T, e *Engine, category string, titles ...string) []models.Task {
	t.Helper()
	out := make([]models.Task, 0, len(titles))
	for _, title := range titles {
		task, err := e.Add(context.Background(), owner, title, category, nil)
		require.Nil(t, err)
		out = append(out, task)
	}
	return out
}

func TestAddAssignsDensePositions(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	added := addTasks(t, e, "Work", "a", "b", "c")

	for i, task := range added {
		assert.Equal(t, i, task.Position)
	}

	listed, err := e.List(context.Background(), owner, "Work")
	require.Nil(t, err)
	require.Len(t, listed, 3)
	for i, task := range listed {
		assert.Equal(t, i, task.Position)
		assert.Equal(t, added[i].Title, task.Title)
	}
}

func TestAddValidation(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	_, err := e.Add(context.Background(), owner, "", "Work", nil)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.Add(context.Background(), owner, "a", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPositionsIndependentAcrossGroups(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	work := addTasks(t, e, "Work", "a", "b")
	home := addTasks(t, e, "Home", "c")

	assert.Equal(t, 1, work[1].Position)
	assert.Equal(t, 0, home[0].Position)

	// Another owner's tasks start at zero too.
	other, err := e.Add(context.Background(), "user2", "d", "Work", nil)
	require.Nil(t, err)
	assert.Equal(t, 0, other.Position)
}

func TestListMatchesCategoryCaseInsensitively(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	addTasks(t, e, "Work", "a")
	addTasks(t, e, "work", "b")

	listed, err := e.List(context.Background(), owner, "WORK")
	require.Nil(t, err)
	assert.Len(t, listed, 2)
}

func TestConcurrentAddsKeepPositionsUnique(t *testing.T) {
	e := NewEngine(NewMemoryStore())

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := e.Add(context.Background(), owner, "task", "Work", nil)
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	listed, err := e.List(context.Background(), owner, "Work")
	require.Nil(t, err)
	require.Len(t, listed, n)
	for i, task := range listed {
		assert.Equal(t, i, task.Position)
	}
}

func TestToggleCompleted(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	added := addTasks(t, e, "Work", "a")

	toggled, err := e.ToggleCompleted(context.Background(), owner, added[0].ID)
	require.Nil(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, added[0].Position, toggled.Position)

	toggled, err = e.ToggleCompleted(context.Background(), owner, added[0].ID)
	require.Nil(t, err)
	assert.False(t, toggled.Completed)
}

func TestToggleImportantAndDerivedView(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	work := addTasks(t, e, "Work", "a", "b")
	home := addTasks(t, e, "Home", "c")

	_, err := e.ToggleImportant(context.Background(), owner, work[1].ID)
	require.Nil(t, err)
	_, err = e.ToggleImportant(context.Background(), owner, home[0].ID)
	require.Nil(t, err)

	important, err := e.List(context.Background(), owner, "important")
	require.Nil(t, err)
	titles := make([]string, 0, len(important))
	for _, task := range important {
		titles = append(titles, task.Title)
	}
	assert.ElementsMatch(t, []string{"b", "c"}, titles)

	// Toggling back removes the task from the derived view.
	_, err = e.ToggleImportant(context.Background(), owner, work[1].ID)
	require.Nil(t, err)
	important, err = e.List(context.Background(), owner, "important")
	require.Nil(t, err)
	require.Len(t, important, 1)
	assert.Equal(t, "c", important[0].Title)
}

func TestToggleUnknownTask(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	other := NewEngine(NewMemoryStore())
	added := addTasks(t, other, "Work", "a")

	_, err := e.ToggleCompleted(context.Background(), owner, added[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.ToggleImportant(context.Background(), owner, added[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLeavesGapUntilReorder(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	added := addTasks(t, e, "Work", "a", "b", "c")

	require.Nil(t, e.Delete(context.Background(), owner, added[1].ID))

	listed, err := e.List(context.Background(), owner, "Work")
	require.Nil(t, err)
	require.Len(t, listed, 2)
	// No renumbering on delete.
	assert.Equal(t, 0, listed[0].Position)
	assert.Equal(t, 2, listed[1].Position)

	// Reorder restores contiguity.
	require.Nil(t, e.Reorder(context.Background(), owner, taskIDs(listed)))
	listed, err = e.List(context.Background(), owner, "Work")
	require.Nil(t, err)
	assert.Equal(t, 0, listed[0].Position)
	assert.Equal(t, 1, listed[1].Position)

	assert.ErrorIs(t, e.Delete(context.Background(), owner, added[1].ID), ErrNotFound)
}

func TestReorderAppliesSubmittedOrder(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	added := addTasks(t, e, "Work", "a", "b", "c")

	require.Nil(t, e.Reorder(context.Background(), owner, idsOf(added[1], added[0], added[2])))

	listed, err := e.List(context.Background(), owner, "Work")
	require.Nil(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "b", listed[0].Title)
	assert.Equal(t, "a", listed[1].Title)
	assert.Equal(t, "c", listed[2].Title)
	for i, task := range listed {
		assert.Equal(t, i, task.Position)
	}
}

func TestReorderExcludesForeignIDs(t *testing.T) {
	store := NewMemoryStore()
	e := NewEngine(store)
	mine := addTasks(t, e, "Work", "a")

	theirs, err := store.InsertTask(context.Background(), models.Task{
		OwnerID:  "user2",
		Title:    "x",
		Category: "Work",
		Position: 0,
	})
	require.Nil(t, err)

	require.Nil(t, e.Reorder(context.Background(), owner, idsOf(theirs, mine[0])))

	// The foreign task keeps its position; only the owned one moved.
	kept, err := store.TaskByID(context.Background(), "user2", theirs.ID)
	require.Nil(t, err)
	assert.Equal(t, 0, kept.Position)

	moved, err := store.TaskByID(context.Background(), owner, mine[0].ID)
	require.Nil(t, err)
	assert.Equal(t, 1, moved.Position)
}

func idsOf(ts ...models.Task) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func taskIDs(ts []models.Task) []primitive.ObjectID {
	return idsOf(ts...)
}
