package category

import (
	"context"
	"errors"
	"fmt"
)

// Resolver finds categories by name, creating them on first reference.
type Resolver struct {
	repo Repository
}

// NewResolver creates a new category resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// FindOrCreate returns the category named name, inserting it when absent.
// A concurrent insert of the same name surfaces as ErrAlreadyExists from the
// repository, in which case the winner's row is read back.
func (r *Resolver) FindOrCreate(ctx context.Context, name string) (Category, error) {
	c, err := r.repo.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Category{}, fmt.Errorf("find category %q: %w", name, err)
	}

	c, err = r.repo.Insert(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrAlreadyExists) {
		return Category{}, fmt.Errorf("insert category %q: %w", name, err)
	}

	c, err = r.repo.FindByName(ctx, name)
	if err != nil {
		return Category{}, fmt.Errorf("reload category %q: %w", name, err)
	}
	return c, nil
}
