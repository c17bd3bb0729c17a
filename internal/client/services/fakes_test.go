package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/client/client"
	"github.com/dmitrijs2005/wmsclient/internal/client/mirror"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

var errOffline = fmt.Errorf("%w: dial tcp: connection refused", client.ErrUnavailable)

type call struct {
	method string
	path   string
	body   any
}

/*************
 * Fake transport
 *************/

type fakeTransport struct {
	mu    sync.Mutex
	calls []call

	do     func(method, path string, body any) (any, error)
	upload func(path, field, fileName, mimeType string, data []byte) (any, error)
}

func (f *fakeTransport) Do(_ context.Context, method, path string, body any, _ map[string]string) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, body: body})
	f.mu.Unlock()
	if f.do == nil {
		return nil, errOffline
	}
	return f.do(method, path, body)
}

func (f *fakeTransport) Upload(_ context.Context, path, field, fileName, mimeType string, data []byte) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: "UPLOAD", path: path})
	f.mu.Unlock()
	if f.upload == nil {
		return nil, errOffline
	}
	return f.upload(path, field, fileName, mimeType, data)
}

func (f *fakeTransport) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

func offline() *fakeTransport { return &fakeTransport{} }

func respond(payload any) *fakeTransport {
	return &fakeTransport{do: func(string, string, any) (any, error) { return payload, nil }}
}

/*************
 * Fake token store
 *************/

type fakeTokens struct {
	mu    sync.Mutex
	token string
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) SetToken(_ context.Context, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

type fixture struct {
	store   *kv.MemoryStore
	adapter *kv.Adapter
	mirror  *mirror.Mirror
	uploads *mirror.Uploads
}

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	adapter := kv.NewAdapter(store, logging.NewNop())
	clock := mirror.WithClock(func() time.Time { return fixedNow })
	return &fixture{
		store:   store,
		adapter: adapter,
		mirror:  mirror.New(adapter, clock),
		uploads: mirror.NewUploads(adapter, clock),
	}
}

func (fx *fixture) entities(tr client.Transport) *Entities {
	return NewEntities(tr, fx.mirror, logging.NewNop())
}
