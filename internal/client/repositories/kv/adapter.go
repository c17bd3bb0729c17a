package kv

import (
	"context"

	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

// Adapter is the failure-tolerant facade over a Store.
type Adapter struct {
	store Store
	log   logging.Logger
}

// NewAdapter wraps store. A nil store yields an adapter whose operations
// are no-ops.
func NewAdapter(store Store, log logging.Logger) *Adapter {
	if log == nil {
		log = logging.NewNop()
	}
	return &Adapter{store: store, log: log.With("component", "kv")}
}

// Available reports whether a persistence backend is attached.
func (a *Adapter) Available() bool {
	return a != nil && a.store != nil
}

// Get returns the stored value; backend errors are logged and reported as absence.
func (a *Adapter) Get(ctx context.Context, key string) (string, bool) {
	if !a.Available() {
		return "", false
	}
	v, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.log.Warn(ctx, "persisted read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// Set writes a value, swallowing backend failures.
func (a *Adapter) Set(ctx context.Context, key, value string) {
	if !a.Available() {
		return
	}
	if err := a.store.Set(ctx, key, value); err != nil {
		a.log.Warn(ctx, "persisted write failed", "key", key, "bytes", len(value), "error", err)
	}
}

// Remove deletes a key, swallowing backend failures.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if !a.Available() {
		return
	}
	if err := a.store.Delete(ctx, key); err != nil {
		a.log.Warn(ctx, "persisted delete failed", "key", key, "error", err)
	}
}

// Store exposes the wrapped backend (nil when none).
func (a *Adapter) Store() Store {
	if a == nil {
		return nil
	}
	return a.store
}
