package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
)

const imageNamePrefix = "book-"

// ImageName is the asset public ID and display name used for a book's image.
func ImageName(bookID string) string {
	return imageNamePrefix + bookID
}

// uploadImage stages img on local disk, hands it to the asset store under
// ImageName(bookID) and returns the stored reference.
func (s *Service) uploadImage(ctx context.Context, bookID string, img *Image) (ImageRef, error) {
	name := ImageName(bookID)

	var url string
	err := withStagedFile(s.stagingDir, img.Content, func(path string) error {
		var err error
		url, err = s.assets.Upload(ctx, path, name)
		return err
	})
	if err != nil {
		return ImageRef{}, err
	}
	return ImageRef{URL: url, Name: name}, nil
}

// withStagedFile copies src into a fresh temporary file under dir and calls fn
// with its path. The file is removed on every return path, including a panic in fn.
func withStagedFile(dir string, src io.Reader, fn func(path string) error) error {
	f, err := os.CreateTemp(dir, "book-image-*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Printf("staging cleanup failed path=%s error=%v", path, rmErr)
		}
	}()

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return fmt.Errorf("write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}

	return fn(path)
}
