package store

//Repository implementation (Postgres)

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulkybook/internal/book"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const booksTable = "books"

var bookColumns = []any{
	"id", "title", "publisher", "description", "units", "cost", "price",
	"category_id", "image_url", "image_name", "image_status", "created_at", "updated_at",
}

type BookPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBookPG(db *pgxpool.Pool, timeout time.Duration) *BookPG {
	return &BookPG{db: db, timeout: timeout}
}

func (r *BookPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookPG) FindByTitlePublisher(ctx context.Context, title, publisher string) (book.Book, error) {
	query, args, err := dialect.From(booksTable).
		Select(bookColumns...).
		Where(goqu.C("title").Eq(title), goqu.C("publisher").Eq(publisher)).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build find book query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *BookPG) Insert(ctx context.Context, b *book.Book) error {
	query, args, err := dialect.Insert(booksTable).
		Rows(goqu.Record{
			"title":        b.Title,
			"publisher":    b.Publisher,
			"description":  b.Description,
			"units":        b.Units,
			"cost":         b.Cost,
			"price":        b.Price,
			"category_id":  b.CategoryID,
			"image_status": string(b.ImageStatus),
		}).
		Returning("id", "cost", "price", "created_at", "updated_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert book query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(&b.ID, &b.Cost, &b.Price, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return book.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *BookPG) UpdateImage(ctx context.Context, id string, status book.ImageStatus, ref book.ImageRef) (book.Book, error) {
	set := goqu.Record{
		"image_status": string(status),
		"updated_at":   goqu.L("NOW()"),
	}
	if status == book.ImageAttached {
		set["image_url"] = ref.URL
		set["image_name"] = ref.Name
	}

	query, args, err := dialect.Update(booksTable).
		Set(set).
		Where(goqu.C("id").Eq(id)).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build update book image query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, err
	}
	return b, nil
}

func scanBook(row pgx.Row) (book.Book, error) {
	var b book.Book
	var status string
	err := row.Scan(
		&b.ID, &b.Title, &b.Publisher, &b.Description, &b.Units, &b.Cost, &b.Price,
		&b.CategoryID, &b.ImageURL, &b.ImageName, &status, &b.CreatedAt, &b.UpdatedAt,
	)
	b.ImageStatus = book.ImageStatus(status)
	return b, err
}
