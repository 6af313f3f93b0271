package book

import (
	"context"
	"errors"
	"fmt"

	"bulkybook/internal/category"

	"github.com/shopspring/decimal"
)

// moneyScale matches the NUMERIC(12,2) money columns.
const moneyScale = 2

// roundCents rounds half away from zero on the decimal form of v, as Postgres
// does when storing into a NUMERIC(12,2) column.
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(moneyScale).InexactFloat64()
}

// writeBook persists a new book built from req and linked to cat.
// The caller is responsible for the duplicate pre-check.
func (s *Service) writeBook(ctx context.Context, req CreateRequest, cat category.Category) (*Book, error) {
	b := &Book{
		Title:       req.Title,
		Publisher:   req.Publisher,
		Description: req.Description,
		Units:       req.Units,
		Cost:        roundCents(*req.Cost),
		Price:       roundCents(*req.Price),
		CategoryID:  cat.ID,
		ImageStatus: ImageNone,
	}
	if req.Image != nil {
		b.ImageStatus = ImagePending
	}

	if err := s.repo.Insert(ctx, b); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}
