// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

// Store errors.
var (
	ErrNotFound = errors.New("book not found")
	ErrNilBook  = errors.New("book cannot be nil")
)

// Store defines the interface for book storage operations.
// Implementations keep books in insertion order and never reuse an id.
type Store interface {
	// List returns all books in insertion order.
	List(ctx context.Context) ([]model.Book, error)

	// Get retrieves a book by its ID.
	Get(ctx context.Context, id int64) (*model.Book, error)

	// Create appends a new book and returns it with its assigned ID.
	Create(ctx context.Context, in *model.BookInput) (*model.Book, error)

	// Update applies the supplied fields to an existing book.
	Update(ctx context.Context, id int64, in *model.BookInput) (*model.Book, error)

	// Delete removes a book and returns the removed record.
	Delete(ctx context.Context, id int64) (*model.Book, error)

	// Count returns the number of stored books.
	Count(ctx context.Context) (int, error)
}

// Pinger is implemented by stores backed by an external resource.
type Pinger interface {
	Ping(ctx context.Context) error
}
