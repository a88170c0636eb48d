package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListNames(t *testing.T) {
	c := NewCatalog(NewMemoryStore())
	ctx := context.Background()

	require.Nil(t, c.Create(ctx, owner, "Work"))
	require.Nil(t, c.Create(ctx, owner, "Groceries"))

	names, err := c.Names(ctx, owner)
	require.Nil(t, err)
	assert.Equal(t, []string{"Work", "Groceries"}, names)

	// Other owners see their own catalogs.
	names, err = c.Names(ctx, "user2")
	require.Nil(t, err)
	assert.Empty(t, names)
}

func TestCreateValidationAndDuplicates(t *testing.T) {
	c := NewCatalog(NewMemoryStore())
	ctx := context.Background()

	assert.ErrorIs(t, c.Create(ctx, owner, ""), ErrValidation)

	require.Nil(t, c.Create(ctx, owner, "Work"))
	assert.ErrorIs(t, c.Create(ctx, owner, "Work"), ErrDuplicateList)

	// The same name is fine for a different owner.
	assert.Nil(t, c.Create(ctx, "user2", "Work"))
}

func TestDeleteCascades(t *testing.T) {
	store := NewMemoryStore()
	c := NewCatalog(store)
	e := NewEngine(store)
	ctx := context.Background()

	require.Nil(t, c.Create(ctx, owner, "Work"))
	addTasks(t, e, "Work", "a", "b", "c")
	addTasks(t, e, "Home", "d")

	require.Nil(t, c.Delete(ctx, owner, "Work"))

	gone, err := e.List(ctx, owner, "Work")
	require.Nil(t, err)
	assert.Empty(t, gone)

	kept, err := e.List(ctx, owner, "Home")
	require.Nil(t, err)
	assert.Len(t, kept, 1)

	names, err := c.Names(ctx, owner)
	require.Nil(t, err)
	assert.NotContains(t, names, "Work")

	// Deleting again reports the list as gone.
	assert.ErrorIs(t, c.Delete(ctx, owner, "Work"), ErrListNotFound)
}

func TestDeleteDoesNotCrossOwners(t *testing.T) {
	store := NewMemoryStore()
	c := NewCatalog(store)
	e := NewEngine(store)
	ctx := context.Background()

	require.Nil(t, c.Create(ctx, owner, "Work"))
	require.Nil(t, c.Create(ctx, "user2", "Work"))
	addTasks(t, e, "Work", "a")

	_, err := e.Add(ctx, "user2", "x", "Work", nil)
	require.Nil(t, err)

	require.Nil(t, c.Delete(ctx, owner, "Work"))

	theirs, err := e.List(ctx, "user2", "Work")
	require.Nil(t, err)
	assert.Len(t, theirs, 1)

	names, err := c.Names(ctx, "user2")
	require.Nil(t, err)
	assert.Contains(t, names, "Work")
}
