// Package session wires the client components for one process.
//
// A Session owns the persistence backend, the token manager, the transport
// and the services built on top of them. Everything that shares state
// (mirror document, uploads map, token) is created exactly once here and
// handed to the services, so two sessions never share hidden globals.
package session

import (
	"context"
	"io"

	"github.com/dmitrijs2005/wmsclient/internal/client/auth"
	"github.com/dmitrijs2005/wmsclient/internal/client/client"
	"github.com/dmitrijs2005/wmsclient/internal/client/config"
	"github.com/dmitrijs2005/wmsclient/internal/client/mirror"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wmsclient/internal/client/services"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

type Session struct {
	Config *config.Config
	Log    logging.Logger

	Store    *kv.Adapter
	Tokens   *auth.TokenManager
	Client   *client.HTTPClient
	Mirror   *mirror.Mirror
	Uploads  *mirror.Uploads
	Entities *services.Entities
	Files    *services.UploadService
	Auth     *services.AuthService

	closer io.Closer
}

// New opens the configured store and builds the services. A store that
// cannot be opened is logged and replaced by "no persistence", so the
// client still works online.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Session, error) {
	if log == nil {
		log = logging.NewNop()
	}

	store, closer, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.Warn(ctx, "local store unavailable, continuing without persistence", "type", cfg.StoreType, "error", err)
		store, closer = nil, nil
	}

	return NewWithStore(ctx, cfg, store, closer, log), nil
}

// NewWithStore builds a session over an already opened store.
func NewWithStore(ctx context.Context, cfg *config.Config, store kv.Store, closer io.Closer, log logging.Logger) *Session {
	if log == nil {
		log = logging.NewNop()
	}

	adapter := kv.NewAdapter(store, log)
	tokens := auth.NewTokenManager(ctx, adapter)
	httpClient := client.NewHTTPClient(cfg.APIURL, tokens,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log),
	)

	m := mirror.New(adapter, mirror.WithLogger(log), mirror.WithLimit(cfg.MirrorMaxRecords))
	uploads := mirror.NewUploads(adapter, mirror.WithLogger(log), mirror.WithLimit(cfg.UploadsMaxEntries))

	return &Session{
		Config:   cfg,
		Log:      log,
		Store:    adapter,
		Tokens:   tokens,
		Client:   httpClient,
		Mirror:   m,
		Uploads:  uploads,
		Entities: services.NewEntities(httpClient, m, log),
		Files:    services.NewUploadService(httpClient, uploads, log),
		Auth:     services.NewAuthService(httpClient, tokens, adapter, log),
		closer:   closer,
	}
}

// Entity is a shortcut for s.Entities.Entity(name).
func (s *Session) Entity(name string) services.EntityRepository {
	return s.Entities.Entity(name)
}

// Close releases the persistence backend.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
