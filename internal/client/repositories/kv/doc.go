// Package kv provides the persisted key/value surface the client keeps its
// fallback data in.
//
// # Overview
//
// Store is the backend contract (Get/Set/Delete over string keys and
// values). Implementations:
//
//   - SQLiteStore: local file database, schema applied by embedded goose
//     migrations (default);
//   - RedisStore: shared store for several client processes;
//   - MemoryStore: process-local map, used in tests and ephemeral runs.
//
// Adapter wraps a Store with the tolerance the rest of the client relies on:
// write failures (disk full, read-only file, lost Redis connection) are
// logged and swallowed, read failures look like absent keys, and a nil
// Store turns every call into a no-op. Callers never special-case "no
// persistence available".
//
// Typical Usage
//
//	store, closer, err := kv.Open(ctx, kv.Options{Type: kv.TypeSQLite, Path: "wms.db"})
//	defer closer.Close()
//	a := kv.NewAdapter(store, logger)
//	a.Set(ctx, "wms_auth_token", token)
//	v, ok := a.Get(ctx, "wms_auth_token")
package kv
