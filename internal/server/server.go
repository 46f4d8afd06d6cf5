// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vyrodovalexey/bookstore-api/internal/config"
	"github.com/vyrodovalexey/bookstore-api/internal/handler"
	"github.com/vyrodovalexey/bookstore-api/internal/middleware"
	"github.com/vyrodovalexey/bookstore-api/internal/service"
	"github.com/vyrodovalexey/bookstore-api/internal/store"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	probeServer *http.Server
	router      *mux.Router
	handler     http.Handler
	config      *config.Config
	logger      *zap.Logger
	books       *service.BookService
	wsHandler   *handler.WebSocketHandler
}

// New creates a new Server serving the books held in bookStore.
func New(cfg *config.Config, logger *zap.Logger, bookStore store.Store) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		config:    cfg,
		logger:    logger,
		wsHandler: handler.NewWebSocketHandler(logger),
	}

	s.books = service.NewBookService(bookStore, s.wsHandler, logger)
	s.books.SyncMetrics(context.Background())

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServers()

	return s
}

// setupMiddleware configures the middleware chain.
func (s *Server) setupMiddleware() {
	// Applied in order, first is outermost.
	s.router.Use(mux.MiddlewareFunc(middleware.Recovery(s.logger)))
	s.router.Use(mux.MiddlewareFunc(middleware.RequestID()))

	if s.config.MetricsEnabled {
		s.router.Use(mux.MiddlewareFunc(middleware.Metrics()))
	}

	s.router.Use(mux.MiddlewareFunc(middleware.Logging(s.logger)))

	// CORS wraps the router itself so preflight requests are answered
	// before method matching rejects them.
	cors := middleware.CORS(
		s.config.CORSOrigins,
		[]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		[]string{"Content-Type", middleware.RequestIDHeader},
	)
	s.handler = cors(s.router)
}

// setupRoutes configures the API routes. The static front-end is a
// catch-all and goes last.
func (s *Server) setupRoutes() {
	restHandler := handler.NewRESTHandler(s.books, s.logger)
	restHandler.RegisterRoutes(s.router)

	s.wsHandler.RegisterRoutes(s.router)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	if static := handler.NewStaticHandler(s.config.PublicDir, s.logger); static != nil {
		static.RegisterRoutes(s.router)
	}
}

// setupHTTPServers configures the API server and, if enabled, the probe server.
func (s *Server) setupHTTPServers() {
	s.httpServer = newHTTPServer(s.config.Address(), s.handler)

	if s.config.ProbePort == 0 {
		return
	}

	probeRouter := mux.NewRouter()
	handler.NewRESTHandler(s.books, s.logger).RegisterProbeRoutes(probeRouter)
	s.probeServer = newHTTPServer(s.config.ProbeAddress(), probeRouter)
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Start runs the API server and the probe server until one of them fails
// or both are shut down.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
		zap.String("store_driver", s.config.StoreDriver),
	)

	var g errgroup.Group

	g.Go(func() error {
		return s.listen(s.httpServer, s.probeServer, "api")
	})

	if s.probeServer != nil {
		s.logger.Info("starting probe server", zap.String("address", s.config.ProbeAddress()))
		g.Go(func() error {
			return s.listen(s.probeServer, s.httpServer, "probe")
		})
	}

	return g.Wait()
}

// listen serves srv. If it fails, peer is closed so Start returns.
func (s *Server) listen(srv, peer *http.Server, name string) error {
	err := srv.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	if peer != nil {
		_ = peer.Close()
	}
	return fmt.Errorf("%s server listen and serve: %w", name, err)
}

// Shutdown closes WebSocket clients and then gracefully stops the servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	s.wsHandler.CloseAllConnections()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if s.probeServer != nil {
		if err := s.probeServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("probe server shutdown: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Router returns the server's router for testing purposes.
func (s *Server) Router() *mux.Router {
	return s.router
}
