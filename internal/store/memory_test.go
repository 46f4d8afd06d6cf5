package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

func TestNewMemoryStore(t *testing.T) {
	// Act
	store := NewMemoryStore()

	// Assert
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.books == nil {
		t.Error("books slice should be initialized")
	}
	if store.nextID != 1 {
		t.Errorf("nextID = %d, want 1", store.nextID)
	}
}

func TestNewMemoryStore_Seed(t *testing.T) {
	// Act
	store := NewMemoryStore(model.SeedBooks()...)

	// Assert
	if len(store.books) != 3 {
		t.Errorf("len(books) = %d, want 3", len(store.books))
	}
	if store.nextID != 4 {
		t.Errorf("nextID = %d, want 4", store.nextID)
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		t.Helper()
		return NewMemoryStore(model.SeedBooks()...)
	})
}

func TestMemoryStore_ContextCancellation(t *testing.T) {
	// Arrange
	store := NewMemoryStore(model.SeedBooks()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	input := &model.BookInput{Title: "Dune", Author: "Frank Herbert"}

	tests := []struct {
		name string
		call func() error
	}{
		{"list", func() error { _, err := store.List(ctx); return err }},
		{"get", func() error { _, err := store.Get(ctx, 1); return err }},
		{"create", func() error { _, err := store.Create(ctx, input); return err }},
		{"update", func() error { _, err := store.Update(ctx, 1, input); return err }},
		{"delete", func() error { _, err := store.Delete(ctx, 1); return err }},
		{"count", func() error { _, err := store.Count(ctx); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.call()

			// Assert
			if !errors.Is(err, context.Canceled) {
				t.Errorf("error = %v, want context.Canceled", err)
			}
		})
	}

	// Nothing was mutated.
	n, _ := store.Count(context.Background())
	if n != 3 {
		t.Errorf("Count() = %d, want 3 after cancelled calls", n)
	}
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	// Arrange
	store := NewMemoryStore(model.SeedBooks()...)
	ctx := context.Background()

	// Act
	books, _ := store.List(ctx)
	books[0].Title = "changed"

	// Assert
	got, _ := store.Get(ctx, 1)
	if got.Title != "To Kill a Mockingbird" {
		t.Errorf("stored title = %s, mutating List() result must not change the store", got.Title)
	}
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()
	const workers = 50

	var wg sync.WaitGroup
	ids := make(chan int64, workers)

	// Act
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book, err := store.Create(ctx, &model.BookInput{Title: "t", Author: "a"})
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			ids <- book.ID
		}()
	}
	wg.Wait()
	close(ids)

	// Assert
	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != workers {
		t.Errorf("unique ids = %d, want %d", len(seen), workers)
	}
}
