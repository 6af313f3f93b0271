package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulkybook/internal/category"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoriesTable = "categories"

type CategoryPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewCategoryPG(db *pgxpool.Pool, timeout time.Duration) *CategoryPG {
	return &CategoryPG{db: db, timeout: timeout}
}

func (r *CategoryPG) FindByName(ctx context.Context, name string) (category.Category, error) {
	query, args, err := dialect.From(categoriesTable).
		Select("id", "name", "created_at").
		Where(goqu.C("name").Eq(name)).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return category.Category{}, fmt.Errorf("build find category query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var c category.Category
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, err
	}
	return c, nil
}

func (r *CategoryPG) Insert(ctx context.Context, name string) (category.Category, error) {
	query, args, err := dialect.Insert(categoriesTable).
		Rows(goqu.Record{"name": name}).
		Returning("id", "name", "created_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return category.Category{}, fmt.Errorf("build insert category query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var c category.Category
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return category.Category{}, category.ErrAlreadyExists
		}
		return category.Category{}, err
	}
	return c, nil
}
