package category

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no category matches the requested name.
	ErrNotFound = errors.New("category not found")
	// ErrAlreadyExists is returned when an insert collides with the unique name constraint.
	ErrAlreadyExists = errors.New("category already exists")
)

// Category groups books under a unique name.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
