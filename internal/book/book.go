package book

import (
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrAlreadyExists is returned when a book with the same title and publisher exists.
	ErrAlreadyExists = errors.New("book already exists")
	// ErrImageUpload marks a failure to attach an image to an already persisted book.
	ErrImageUpload = errors.New("book image upload failed")
)

// ImageStatus tracks the image attachment of a persisted book.
type ImageStatus string

const (
	ImageNone     ImageStatus = "NONE"
	ImagePending  ImageStatus = "PENDING"
	ImageAttached ImageStatus = "ATTACHED"
	ImageFailed   ImageStatus = "FAILED"
)

// Book represents a catalog item.
type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Publisher   string      `json:"publisher"`
	Description string      `json:"description"`
	Units       int         `json:"units"`
	Cost        float64     `json:"cost"`
	Price       float64     `json:"price"`
	CategoryID  string      `json:"category_id"`
	ImageURL    *string     `json:"image_url,omitempty"`
	ImageName   *string     `json:"image_name,omitempty"`
	ImageStatus ImageStatus `json:"image_status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ImageRef is what the asset store hands back for an uploaded image.
type ImageRef struct {
	URL  string
	Name string
}

// Image is an optional attachment submitted with a create request.
type Image struct {
	Filename string
	Content  io.Reader
}

// CreateRequest carries a submitted book form.
// Price and Cost are pointers so that a missing value can be told apart from zero.
type CreateRequest struct {
	CategoryName string   `validate:"required"`
	Title        string   `validate:"required"`
	Description  string   `validate:"required"`
	Publisher    string   `validate:"required"`
	Price        *float64 `validate:"required,gte=0"`
	Cost         *float64 `validate:"required,gte=0"`
	Units        int      `validate:"gte=0"`
	Image        *Image   `validate:"-"`
}
