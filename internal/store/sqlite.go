package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	author TEXT NOT NULL
);`

// SQLiteStore implements Store on a SQLite database file.
// AUTOINCREMENT keeps ids monotonic across deletes and restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path, applies the schema,
// and inserts the seed books if the database has never held a book.
func OpenSQLiteStore(ctx context.Context, path string, seed ...model.Book) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// A single connection serializes writers and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.init(ctx, seed); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) init(ctx context.Context, seed []model.Book) error {
	pragmas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// sqlite_sequence only has a row for books once an id has been assigned.
	var used int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_sequence WHERE name = 'books'`,
	).Scan(&used); err != nil {
		return fmt.Errorf("sqlite seed: %w", err)
	}
	if used > 0 {
		return nil
	}

	for _, b := range seed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO books (id, title, author) VALUES (?, ?, ?)`,
			b.ID, b.Title, b.Author,
		); err != nil {
			return fmt.Errorf("sqlite seed book %d: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite seed: %w", err)
	}

	return nil
}

// List returns all books ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, author FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author); err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// Get retrieves a book by its ID.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := getBook(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// Create inserts a new book and returns it with its assigned ID.
func (s *SQLiteStore) Create(ctx context.Context, in *model.BookInput) (*model.Book, error) {
	if in == nil {
		return nil, fmt.Errorf("create book: %w", ErrNilBook)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, author) VALUES (?, ?)`,
		in.Title, in.Author,
	)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	return &model.Book{ID: id, Title: in.Title, Author: in.Author}, nil
}

// Update applies the supplied fields to an existing book.
func (s *SQLiteStore) Update(ctx context.Context, id int64, in *model.BookInput) (*model.Book, error) {
	if in == nil {
		return nil, fmt.Errorf("update book: %w", ErrNilBook)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	book, err := getBook(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	in.Apply(book)

	if _, err := tx.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ? WHERE id = ?`,
		book.Title, book.Author, id,
	); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// Delete removes a book and returns the removed record.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (*model.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	book, err := getBook(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}

	return book, nil
}

// Count returns the number of stored books.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBook(ctx context.Context, q queryRower, id int64) (*model.Book, error) {
	var b model.Book
	err := q.QueryRowContext(ctx,
		`SELECT id, title, author FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
