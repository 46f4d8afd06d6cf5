// Package service implements the book collection operations on top of a store.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
	"github.com/vyrodovalexey/bookstore-api/internal/store"
)

// Service errors.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("book not found")
)

// Operation result labels.
const (
	resultOK       = "ok"
	resultInvalid  = "invalid"
	resultNotFound = "not_found"
	resultError    = "error"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_operations_total",
			Help: "Total number of book operations by outcome",
		},
		[]string{"operation", "result"},
	)

	booksGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookstore_books",
			Help: "Number of books in the collection",
		},
	)
)

// EventPublisher receives change events after successful mutations.
type EventPublisher interface {
	Publish(event model.BookEvent)
}

// BookService exposes the book collection operations.
type BookService struct {
	store     store.Store
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookService creates a BookService. publisher may be nil.
func NewBookService(s store.Store, publisher EventPublisher, logger *zap.Logger) *BookService {
	return &BookService{
		store:     s,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns every book in insertion order.
func (svc *BookService) List(ctx context.Context) ([]model.Book, error) {
	books, err := svc.store.List(ctx)
	if err != nil {
		svc.observe("list", err)
		return nil, fmt.Errorf("list books: %w", err)
	}

	svc.observe("list", nil)
	return books, nil
}

// Get returns the book with the given id.
func (svc *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := svc.store.Get(ctx, id)
	svc.observe("get", err)
	if err != nil {
		return nil, svc.translate(err, id)
	}
	return book, nil
}

// Create validates the input and appends a new book.
func (svc *BookService) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	if err := in.Validate(); err != nil {
		operationsTotal.WithLabelValues("create", resultInvalid).Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	book, err := svc.store.Create(ctx, &in)
	svc.observe("create", err)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	svc.logger.Info("book created",
		zap.Int64("id", book.ID),
		zap.String("title", book.Title),
	)
	svc.publish(model.EventTypeCreated, *book)
	svc.refreshGauge(ctx)

	return book, nil
}

// Update overwrites the non-empty fields of the input on an existing book.
func (svc *BookService) Update(ctx context.Context, id int64, in model.BookInput) (*model.Book, error) {
	book, err := svc.store.Update(ctx, id, &in)
	svc.observe("update", err)
	if err != nil {
		return nil, svc.translate(err, id)
	}

	svc.logger.Info("book updated", zap.Int64("id", book.ID))
	svc.publish(model.EventTypeUpdated, *book)

	return book, nil
}

// Delete removes a book and returns the removed record.
func (svc *BookService) Delete(ctx context.Context, id int64) (*model.Book, error) {
	book, err := svc.store.Delete(ctx, id)
	svc.observe("delete", err)
	if err != nil {
		return nil, svc.translate(err, id)
	}

	svc.logger.Info("book deleted", zap.Int64("id", book.ID))
	svc.publish(model.EventTypeDeleted, *book)
	svc.refreshGauge(ctx)

	return book, nil
}

// Ready reports whether the underlying store is reachable.
func (svc *BookService) Ready(ctx context.Context) error {
	if p, ok := svc.store.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// SyncMetrics sets the collection size gauge from the store.
func (svc *BookService) SyncMetrics(ctx context.Context) {
	svc.refreshGauge(ctx)
}

// translate maps store errors onto service errors.
func (svc *BookService) translate(err error, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("book %d: %w", id, err)
}

func (svc *BookService) observe(operation string, err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		result = resultNotFound
	default:
		result = resultError
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}

func (svc *BookService) publish(eventType string, book model.Book) {
	if svc.publisher == nil {
		return
	}
	svc.publisher.Publish(model.NewBookEvent(eventType, book))
}

func (svc *BookService) refreshGauge(ctx context.Context) {
	n, err := svc.store.Count(ctx)
	if err != nil {
		svc.logger.Warn("failed to count books", zap.Error(err))
		return
	}
	booksGauge.Set(float64(n))
}
