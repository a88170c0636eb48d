package tasks

import (
	"context"
	"log"
)

// Catalog manages the user-defined list names tasks are grouped under.
type Catalog struct {
	store Store
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store}
}

// Create adds a list name for the owner. Names are unique per owner.
func (c *Catalog) Create(ctx context.Context, owner, name string) error {
	if name == "" {
		return ErrValidation
	}
	return c.store.InsertList(ctx, owner, name)
}

// Names returns the owner's list names.
func (c *Catalog) Names(ctx context.Context, owner string) ([]string, error) {
	return c.store.ListNames(ctx, owner)
}

// Delete removes the list and every task categorized under it. The cascade is
// all-or-nothing: either the list and its tasks are all gone, or nothing is.
func (c *Catalog) Delete(ctx context.Context, owner, name string) error {
	if name == "" {
		return ErrValidation
	}
	removed, err := c.store.DeleteListCascade(ctx, owner, name)
	if err != nil {
		return err
	}
	log.Printf("Deleted list %q and %d tasks for user %s", name, removed, owner)
	return nil
}
