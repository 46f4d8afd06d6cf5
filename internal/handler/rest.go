package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/bookstore-api/internal/model"
	"github.com/vyrodovalexey/bookstore-api/internal/service"
)

// Response messages that are part of the public API.
const (
	MsgBookNotFound   = "Book not found"
	MsgInvalidBody    = "invalid request body"
	MsgInternalError  = "internal server error"
	MsgBookDeleted    = "Book deleted successfully"
	MsgServiceUnready = "not ready"
)

// RESTHandler handles REST API requests for books.
type RESTHandler struct {
	books  BookService
	logger *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(books BookService, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		books:  books,
		logger: logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	h.RegisterProbeRoutes(router)
	router.HandleFunc("/books", h.ListBooks).Methods(http.MethodGet)
	router.HandleFunc("/books", h.CreateBook).Methods(http.MethodPost)
	router.HandleFunc("/books/{id}", h.GetBook).Methods(http.MethodGet)
	router.HandleFunc("/books/{id}", h.UpdateBook).Methods(http.MethodPut)
	router.HandleFunc("/books/{id}", h.DeleteBook).Methods(http.MethodDelete)
}

// RegisterProbeRoutes registers the health and readiness routes.
func (h *RESTHandler) RegisterProbeRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ReadyCheck handles GET /ready requests.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Ready(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: MsgServiceUnready})
		return
	}
	h.writeJSON(w, http.StatusOK, ReadyResponse{Status: "ready"})
}

// ListBooks handles GET /books requests.
func (h *RESTHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list books")
		return
	}

	h.writeJSON(w, http.StatusOK, books)
}

// GetBook handles GET /books/{id} requests.
func (h *RESTHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get book")
		return
	}

	h.writeJSON(w, http.StatusOK, book)
}

// CreateBook handles POST /books requests.
func (h *RESTHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	book, err := h.books.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err, "create book")
		return
	}

	h.writeJSON(w, http.StatusCreated, book)
}

// UpdateBook handles PUT /books/{id} requests.
func (h *RESTHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	book, err := h.books.Update(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err, "update book")
		return
	}

	h.writeJSON(w, http.StatusOK, book)
}

// DeleteBook handles DELETE /books/{id} requests.
func (h *RESTHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	book, err := h.books.Delete(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "delete book")
		return
	}

	h.writeJSON(w, http.StatusOK, model.DeleteResponse{
		Message: MsgBookDeleted,
		Book:    *book,
	})
}

// bookID parses the {id} path variable. A non-numeric id cannot name a book,
// so it is answered with 404 like any other unknown id.
func (h *RESTHandler) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Debug("non-numeric book id", zap.String("id", raw))
		h.writeError(w, http.StatusNotFound, MsgBookNotFound)
		return 0, false
	}

	return id, true
}

// decodeInput reads a BookInput from the request body. An empty body decodes
// to an empty input.
func (h *RESTHandler) decodeInput(w http.ResponseWriter, r *http.Request) (model.BookInput, bool) {
	var input model.BookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return model.BookInput{}, false
	}
	return input, true
}

// handleServiceError maps service errors onto HTTP responses.
func (h *RESTHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, http.StatusNotFound, MsgBookNotFound)
	case errors.Is(err, service.ErrInvalidInput):
		h.logger.Warn("validation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, model.ErrTitleAuthorRequired.Error())
	default:
		h.logger.Error("book operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, MsgInternalError)
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{Error: message})
}
