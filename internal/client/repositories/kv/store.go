package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Store describes a string-keyed persistence backend.
type Store interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set inserts or overwrites a key.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// BatchSetter is implemented by stores able to write several keys atomically.
type BatchSetter interface {
	SetAll(ctx context.Context, values map[string]string) error
}

const (
	TypeSQLite = "sqlite"
	TypeRedis  = "redis"
	TypeMemory = "memory"
	TypeNone   = "none"
)

var ErrUnknownStoreType = errors.New("unknown store type")

// Options selects and configures a backend for Open.
type Options struct {
	Type string
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the backend described by opts. For TypeNone the returned Store
// is nil, which an Adapter treats as "no persistence surface".
func Open(ctx context.Context, opts Options) (Store, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Type)) {
	case TypeSQLite, "":
		s, db, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, db, nil
	case TypeRedis:
		s, err := OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case TypeMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case TypeNone:
		return nil, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStoreType, opts.Type)
	}
}
