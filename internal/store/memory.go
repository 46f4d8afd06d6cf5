package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

// MemoryStore implements Store with an ordered in-memory slice.
type MemoryStore struct {
	mu     sync.RWMutex
	books  []model.Book
	nextID int64
}

// NewMemoryStore creates a MemoryStore holding the given seed books.
// The id counter starts after the highest seeded id.
func NewMemoryStore(seed ...model.Book) *MemoryStore {
	s := &MemoryStore{
		books:  make([]model.Book, 0, len(seed)),
		nextID: 1,
	}
	for _, b := range seed {
		s.books = append(s.books, b)
		if b.ID >= s.nextID {
			s.nextID = b.ID + 1
		}
	}
	return s
}

// List returns all books in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list books: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]model.Book, len(s.books))
	copy(books, s.books)

	return books, nil
}

// Get retrieves a book by its ID.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get book: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	book := s.books[idx]
	return &book, nil
}

// Create appends a new book and returns it with its assigned ID.
func (s *MemoryStore) Create(ctx context.Context, in *model.BookInput) (*model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create book: %w", ctx.Err())
	default:
	}

	if in == nil {
		return nil, fmt.Errorf("create book: %w", ErrNilBook)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := model.Book{
		ID:     s.nextID,
		Title:  in.Title,
		Author: in.Author,
	}
	s.nextID++
	s.books = append(s.books, book)

	return &book, nil
}

// Update applies the supplied fields to an existing book.
func (s *MemoryStore) Update(ctx context.Context, id int64, in *model.BookInput) (*model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update book: %w", ctx.Err())
	default:
	}

	if in == nil {
		return nil, fmt.Errorf("update book: %w", ErrNilBook)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	in.Apply(&s.books[idx])

	book := s.books[idx]
	return &book, nil
}

// Delete removes a book and returns the removed record.
func (s *MemoryStore) Delete(ctx context.Context, id int64) (*model.Book, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("delete book: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	removed := s.books[idx]
	s.books = append(s.books[:idx], s.books[idx+1:]...)

	return &removed, nil
}

// Count returns the number of stored books.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("count books: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.books), nil
}

// indexOf returns the slice position of the book with the given id, or -1.
// Callers must hold the lock.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}
