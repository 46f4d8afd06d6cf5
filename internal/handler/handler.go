// Package handler provides HTTP request handlers for the bookstore API.
package handler

import (
	"context"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
)

// Version is the application version.
const Version = "1.0.0"

// BookService is the set of book operations the HTTP layer depends on.
type BookService interface {
	List(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)
	Update(ctx context.Context, id int64, in model.BookInput) (*model.Book, error)
	Delete(ctx context.Context, id int64) (*model.Book, error)
	Ready(ctx context.Context) error
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
}
