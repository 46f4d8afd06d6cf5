package store

import (
	"context"
	"errors"
	"testing"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

// runStoreContract exercises the behavior every Store must share.
// newStore must return a store holding model.SeedBooks().
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("list seed in order", func(t *testing.T) {
		store := newStore(t)

		books, err := store.List(context.Background())
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		want := model.SeedBooks()
		if len(books) != len(want) {
			t.Fatalf("len(List()) = %d, want %d", len(books), len(want))
		}
		for i := range want {
			if books[i] != want[i] {
				t.Errorf("List()[%d] = %+v, want %+v", i, books[i], want[i])
			}
		}
	})

	t.Run("get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		tests := []struct {
			name    string
			id      int64
			wantErr error
		}{
			{"existing book", 2, nil},
			{"unknown id", 99, ErrNotFound},
			{"zero id", 0, ErrNotFound},
			{"negative id", -1, ErrNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := store.Get(ctx, tt.id)

				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
					}
					return
				}
				if err != nil {
					t.Fatalf("Get() unexpected error: %v", err)
				}
				if got.ID != tt.id || got.Title != "1984" || got.Author != "George Orwell" {
					t.Errorf("Get() = %+v", got)
				}
			})
		}
	})

	t.Run("create assigns increasing ids and appends", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first, err := store.Create(ctx, &model.BookInput{Title: "Dune", Author: "Frank Herbert"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if first.ID != 4 {
			t.Errorf("first created ID = %d, want 4", first.ID)
		}

		second, err := store.Create(ctx, &model.BookInput{Title: "Emma", Author: "Jane Austen"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if second.ID <= first.ID {
			t.Errorf("second ID = %d, want > %d", second.ID, first.ID)
		}

		books, _ := store.List(ctx)
		if len(books) != 5 {
			t.Fatalf("len(List()) = %d, want 5", len(books))
		}
		if books[4] != *second {
			t.Errorf("last book = %+v, want %+v", books[4], *second)
		}

		got, err := store.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "Dune" || got.Author != "Frank Herbert" {
			t.Errorf("Get() = %+v", got)
		}
	})

	t.Run("create nil input", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Create(context.Background(), nil)

		if !errors.Is(err, ErrNilBook) {
			t.Errorf("Create(nil) error = %v, want %v", err, ErrNilBook)
		}
	})

	t.Run("update partial fields", func(t *testing.T) {
		tests := []struct {
			name  string
			input model.BookInput
			want  model.Book
		}{
			{
				name:  "title only",
				input: model.BookInput{Title: "Animal Farm"},
				want:  model.Book{ID: 2, Title: "Animal Farm", Author: "George Orwell"},
			},
			{
				name:  "author only",
				input: model.BookInput{Author: "Eric Blair"},
				want:  model.Book{ID: 2, Title: "1984", Author: "Eric Blair"},
			},
			{
				name:  "empty strings leave fields unchanged",
				input: model.BookInput{},
				want:  model.Book{ID: 2, Title: "1984", Author: "George Orwell"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()

				got, err := store.Update(ctx, 2, &tt.input)
				if err != nil {
					t.Fatalf("Update() error = %v", err)
				}
				if *got != tt.want {
					t.Errorf("Update() = %+v, want %+v", *got, tt.want)
				}

				stored, _ := store.Get(ctx, 2)
				if *stored != tt.want {
					t.Errorf("stored = %+v, want %+v", *stored, tt.want)
				}
			})
		}
	})

	t.Run("update unknown id", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Update(context.Background(), 42, &model.BookInput{Title: "x"})

		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("delete removes and never reuses id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		removed, err := store.Delete(ctx, 2)
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if removed.ID != 2 || removed.Title != "1984" {
			t.Errorf("Delete() = %+v", removed)
		}

		if _, err := store.Get(ctx, 2); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after Delete() error = %v, want %v", err, ErrNotFound)
		}

		books, _ := store.List(ctx)
		if len(books) != 2 || books[0].ID != 1 || books[1].ID != 3 {
			t.Errorf("List() after delete = %+v", books)
		}

		// Deleting the newest book must not hand its id out again.
		created, _ := store.Create(ctx, &model.BookInput{Title: "Dune", Author: "Frank Herbert"})
		if _, err := store.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		next, _ := store.Create(ctx, &model.BookInput{Title: "Emma", Author: "Jane Austen"})
		if next.ID <= created.ID {
			t.Errorf("id after delete = %d, want > %d", next.ID, created.ID)
		}

		if _, err := store.Delete(ctx, 2); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("count", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		n, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 3 {
			t.Errorf("Count() = %d, want 3", n)
		}

		_, _ = store.Create(ctx, &model.BookInput{Title: "Dune", Author: "Frank Herbert"})
		n, _ = store.Count(ctx)
		if n != 4 {
			t.Errorf("Count() after create = %d, want 4", n)
		}
	})
}
