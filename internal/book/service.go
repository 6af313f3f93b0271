package book

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Outcome classifies the result of Create.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeAlreadyExists
	OutcomeValidationFailed
	OutcomeImageFailed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeImageFailed:
		return "image_failed"
	default:
		return "failed"
	}
}

// OutcomeOf maps an error returned by Create to its Outcome.
func OutcomeOf(err error) Outcome {
	var verr *ValidationError
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.As(err, &verr):
		return OutcomeValidationFailed
	case errors.Is(err, ErrAlreadyExists):
		return OutcomeAlreadyExists
	case errors.Is(err, ErrImageUpload):
		return OutcomeImageFailed
	default:
		return OutcomeFailed
	}
}

const statusWriteTimeout = 5 * time.Second

// Service provides the create-book workflow.
type Service struct {
	repo       Repository
	categories CategoryResolver
	assets     AssetUploader
	stagingDir string
}

// Option configures a Service.
type Option func(*Service)

// WithStagingDir sets the directory used to stage image uploads. Empty means os.TempDir.
func WithStagingDir(dir string) Option {
	return func(s *Service) {
		s.stagingDir = dir
	}
}

// NewService creates a new book service.
func NewService(repo Repository, categories CategoryResolver, assets AssetUploader, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		categories: categories,
		assets:     assets,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req, rejects a duplicate (title, publisher), resolves the
// category, persists the book and, when an image is attached, uploads it and
// records the result on the book.
//
// Errors:
//   - *ValidationError: nothing was touched.
//   - ErrAlreadyExists: a book with the same title and publisher exists.
//   - ErrImageUpload: the book was persisted and is returned alongside the
//     error with ImageStatus FAILED (or PENDING if that could not be recorded).
//   - anything else: a store failure; no book is returned.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Book, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByTitlePublisher(ctx, req.Title, req.Publisher)
	switch {
	case err == nil:
		return nil, ErrAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("check duplicate book: %w", err)
	}

	cat, err := s.categories.FindOrCreate(ctx, req.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	b, err := s.writeBook(ctx, req, cat)
	if err != nil {
		return nil, err
	}

	if req.Image == nil {
		return b, nil
	}

	ref, uploadErr := s.uploadImage(ctx, b.ID, req.Image)
	if uploadErr != nil {
		// The upload may have failed because ctx ended; FAILED must still be recorded.
		statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
		failed, err := s.repo.UpdateImage(statusCtx, b.ID, ImageFailed, ImageRef{})
		cancel()
		if err != nil {
			log.Printf("book image status not recorded book_id=%s status=%s error=%v", b.ID, ImageFailed, err)
			return b, fmt.Errorf("%w: %w", ErrImageUpload, uploadErr)
		}
		return &failed, fmt.Errorf("%w: %w", ErrImageUpload, uploadErr)
	}

	updated, err := s.repo.UpdateImage(ctx, b.ID, ImageAttached, ref)
	if err != nil {
		return b, fmt.Errorf("%w: record image for book %s: %w", ErrImageUpload, b.ID, err)
	}
	return &updated, nil
}
