package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

func openTestSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLiteStore(context.Background(), path, model.SeedBooks()...)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		t.Helper()
		return openTestSQLite(t, filepath.Join(t.TempDir(), "books.db"))
	})
}

func TestSQLiteStore_Ping(t *testing.T) {
	// Arrange
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "books.db"))

	// Act
	err := s.Ping(context.Background())

	// Assert
	if err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestSQLiteStore_Ping_Closed(t *testing.T) {
	// Arrange
	s, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	_ = s.Close()

	// Act
	err = s.Ping(context.Background())

	// Assert
	if err == nil {
		t.Error("Ping() on closed store expected error")
	}
}

func TestSQLiteStore_ReopenKeepsStateAndCounter(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "books.db")
	ctx := context.Background()

	first, err := OpenSQLiteStore(ctx, path, model.SeedBooks()...)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	created, _ := first.Create(ctx, &model.BookInput{Title: "Dune", Author: "Frank Herbert"})
	if _, err := first.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := first.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_ = first.Close()

	// Act
	second := openTestSQLite(t, path)

	// Assert - seed is not re-inserted and ids keep climbing
	n, _ := second.Count(ctx)
	if n != 2 {
		t.Errorf("Count() after reopen = %d, want 2", n)
	}
	next, err := second.Create(ctx, &model.BookInput{Title: "Emma", Author: "Jane Austen"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if next.ID != created.ID+1 {
		t.Errorf("ID after reopen = %d, want %d", next.ID, created.ID+1)
	}
}

func TestSQLiteStore_EmptySeed(t *testing.T) {
	// Arrange
	s, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer s.Close()

	// Act
	books, err := s.List(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(books) != 0 {
		t.Errorf("len(List()) = %d, want 0", len(books))
	}
}
