// Package api exposes the development backend over HTTP: the entity
// collections, file uploads, authentication and a health probe, all under
// the /api prefix the client expects.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/logging"
	"github.com/dmitrijs2005/wmsclient/internal/server/config"
	"github.com/dmitrijs2005/wmsclient/internal/server/entities"
	"github.com/dmitrijs2005/wmsclient/internal/server/files"
	"github.com/dmitrijs2005/wmsclient/internal/server/users"
	"github.com/go-playground/validator/v10"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	users    *users.Service
	entities *entities.Store
	files    *files.Store
	logger   logging.Logger
	validate *validator.Validate
}

func NewServer(cfg *config.Config, l logging.Logger, us *users.Service, es *entities.Store, fs *files.Store) *Server {
	return &Server{
		cfg:      cfg,
		users:    us,
		entities: es,
		files:    fs,
		logger:   l.With("module", "http_server"),
		validate: validator.New(),
	}
}

// Run serves on cfg.Address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
