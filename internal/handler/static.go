package handler

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StaticHandler serves the browser front-end from a directory.
type StaticHandler struct {
	dir    string
	logger *zap.Logger
}

// NewStaticHandler returns a StaticHandler for dir, or nil when dir is empty
// or is not a directory.
func NewStaticHandler(dir string, logger *zap.Logger) *StaticHandler {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Info("static front-end disabled", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	return &StaticHandler{dir: dir, logger: logger}
}

// RegisterRoutes mounts the file server as a catch-all. It must be
// registered after every other route.
func (h *StaticHandler) RegisterRoutes(router *mux.Router) {
	router.PathPrefix("/").
		Handler(http.FileServer(http.Dir(h.dir))).
		Methods(http.MethodGet, http.MethodHead)
}
