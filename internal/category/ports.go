package category

import (
	"context"
)

// Repository defines the contract for category storage.
type Repository interface {
	// FindByName returns ErrNotFound when no row matches name exactly.
	FindByName(ctx context.Context, name string) (Category, error)
	// Insert returns ErrAlreadyExists when name is already taken.
	Insert(ctx context.Context, name string) (Category, error)
}
