// Package server provides the HTTP retrieval API over the processed corpus.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/seiri/internal/config"
	"github.com/hyperjump/seiri/internal/keyword"
	"github.com/hyperjump/seiri/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the seiri API. The corpus it serves is
// whatever the last batch run persisted.
type Server struct {
	storage storage.Storage
	index   keyword.Index
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	store storage.Storage,
	index keyword.Index,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		storage: store,
		index:   index,
		config:  cfg,
		logger:  logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/documents/{filename}", s.handleGetDocument)
	r.Get("/api/v1/documents/{filename}/related", s.handleGetRelated)
	r.Get("/api/v1/facts", s.handleFacts)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
