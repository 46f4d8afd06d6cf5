// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"time"
)

// Validation errors for Book input.
var (
	ErrTitleAuthorRequired = errors.New("Title and author are required") //nolint:staticcheck // API message is capitalized
)

// Book represents a book record in the collection.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookInput carries the client-supplied fields of a create or update request.
// An empty string means the field was not supplied.
type BookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Validate checks that both fields are present, as required on create.
func (in *BookInput) Validate() error {
	if in.Title == "" || in.Author == "" {
		return ErrTitleAuthorRequired
	}
	return nil
}

// Apply overwrites the fields of b that are supplied in the input.
func (in *BookInput) Apply(b *Book) {
	if in.Title != "" {
		b.Title = in.Title
	}
	if in.Author != "" {
		b.Author = in.Author
	}
}

// SeedBooks returns the records present when a fresh store starts.
func SeedBooks() []Book {
	return []Book{
		{ID: 1, Title: "To Kill a Mockingbird", Author: "Harper Lee"},
		{ID: 2, Title: "1984", Author: "George Orwell"},
		{ID: 3, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald"},
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse is the body of a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
	Book    Book   `json:"book"`
}

// BookEvent describes a change to the collection, as sent over the WebSocket feed.
type BookEvent struct {
	Type      string    `json:"type"`
	Book      *Book     `json:"book,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Book event types.
const (
	EventTypeCreated = "created"
	EventTypeUpdated = "updated"
	EventTypeDeleted = "deleted"
)

// NewBookEvent creates a change event for the given book.
func NewBookEvent(eventType string, book Book) BookEvent {
	return BookEvent{
		Type:      eventType,
		Book:      &book,
		Timestamp: time.Now().UTC(),
	}
}
