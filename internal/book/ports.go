package book

import (
	"context"

	"bulkybook/internal/category"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	// FindByTitlePublisher returns ErrNotFound when the natural key is free.
	FindByTitlePublisher(ctx context.Context, title, publisher string) (Book, error)
	// Insert fills in ID and timestamps. It returns ErrAlreadyExists on a natural key collision.
	Insert(ctx context.Context, b *Book) error
	// UpdateImage records the outcome of an image upload. ref is ignored unless status is ImageAttached.
	UpdateImage(ctx context.Context, id string, status ImageStatus, ref ImageRef) (Book, error)
}

// CategoryResolver finds or creates a category by name.
type CategoryResolver interface {
	FindOrCreate(ctx context.Context, name string) (category.Category, error)
}

// AssetUploader sends a local file to the remote asset store under publicID
// and returns the public URL of the stored asset.
type AssetUploader interface {
	Upload(ctx context.Context, filePath, publicID string) (string, error)
}
