// Package server wires the development backend: it seeds the initial
// account, starts the HTTP API and stops it on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
	"github.com/dmitrijs2005/wmsclient/internal/server/api"
	"github.com/dmitrijs2005/wmsclient/internal/server/config"
	"github.com/dmitrijs2005/wmsclient/internal/server/entities"
	"github.com/dmitrijs2005/wmsclient/internal/server/files"
	"github.com/dmitrijs2005/wmsclient/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	entities    *entities.Store
	files       *files.Store
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	us := users.NewService(users.NewMemoryRepository(), c)

	if c.SeedEmail != "" {
		_, err := us.Register(context.Background(), c.SeedEmail, c.SeedPassword, "Administrator", "admin")
		if err != nil && !errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("seed user: %w", err)
		}
	}

	return &App{
		config:      c,
		logger:      logger,
		userService: us,
		entities:    entities.NewStore(),
		files:       files.NewStore(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := api.NewServer(app.config, app.logger, app.userService, app.entities, app.files)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the server stops.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.Address, "require_auth", app.config.RequireAuth)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
}
