package store

import (
	"context"
	"sync"
	"time"

	"bulkybook/internal/book"
	"bulkybook/internal/category"

	"github.com/google/uuid"
)

type bookKey struct {
	title     string
	publisher string
}

// MemoryBooks is an in-process book repository enforcing the (title, publisher)
// uniqueness rule the Postgres schema enforces.
type MemoryBooks struct {
	mu    sync.RWMutex
	byID  map[string]book.Book
	byKey map[bookKey]string
}

func NewMemoryBooks() *MemoryBooks {
	return &MemoryBooks{
		byID:  make(map[string]book.Book),
		byKey: make(map[bookKey]string),
	}
}

func (m *MemoryBooks) FindByTitlePublisher(_ context.Context, title, publisher string) (book.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byKey[bookKey{title, publisher}]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryBooks) Insert(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := bookKey{b.Title, b.Publisher}
	if _, exists := m.byKey[key]; exists {
		return book.ErrAlreadyExists
	}

	now := time.Now()
	b.ID = uuid.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.byID[b.ID] = *b
	m.byKey[key] = b.ID
	return nil
}

func (m *MemoryBooks) UpdateImage(_ context.Context, id string, status book.ImageStatus, ref book.ImageRef) (book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.byID[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	b.ImageStatus = status
	if status == book.ImageAttached {
		url, name := ref.URL, ref.Name
		b.ImageURL = &url
		b.ImageName = &name
	}
	b.UpdatedAt = time.Now()
	m.byID[id] = b
	return b, nil
}

// Len returns the number of stored books.
func (m *MemoryBooks) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// MemoryCategories is an in-process category repository with unique names.
type MemoryCategories struct {
	mu     sync.RWMutex
	byName map[string]category.Category
}

func NewMemoryCategories() *MemoryCategories {
	return &MemoryCategories{byName: make(map[string]category.Category)}
}

func (m *MemoryCategories) FindByName(_ context.Context, name string) (category.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.byName[name]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	return c, nil
}

func (m *MemoryCategories) Insert(_ context.Context, name string) (category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[name]; exists {
		return category.Category{}, category.ErrAlreadyExists
	}
	c := category.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	m.byName[name] = c
	return c, nil
}

// Len returns the number of stored categories.
func (m *MemoryCategories) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byName)
}

var (
	_ book.Repository     = (*MemoryBooks)(nil)
	_ book.Repository     = (*BookPG)(nil)
	_ category.Repository = (*MemoryCategories)(nil)
	_ category.Repository = (*CategoryPG)(nil)
)
