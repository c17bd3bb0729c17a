package mirror

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
)

// Uploads is the persisted map of files stored locally after failed uploads.
type Uploads struct {
	store *kv.Adapter
	mu    sync.Mutex
	cfg   settings
}

func NewUploads(store *kv.Adapter, opts ...Option) *Uploads {
	cfg := newSettings(opts)
	cfg.log = cfg.log.With("component", "uploads")
	return &Uploads{store: store, cfg: cfg}
}

// Exclusive runs fn while holding the uploads lock. fn must not call back
// into u.
func (u *Uploads) Exclusive(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn()
}

// Put stores u under u.ID, filling CreatedAt when empty, and returns the stored value.
func (u *Uploads) Put(ctx context.Context, up models.Upload) models.Upload {
	u.mu.Lock()
	defer u.mu.Unlock()

	if up.CreatedAt == "" {
		up.CreatedAt = models.Timestamp(u.cfg.now())
	}

	all := u.read(ctx)
	all[up.ID] = up
	u.evict(all)
	u.write(ctx, all)
	return up
}

// Get returns the upload with the given id.
func (u *Uploads) Get(ctx context.Context, id string) (models.Upload, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	up, ok := u.read(ctx)[id]
	return up, ok
}

// All returns every stored upload.
func (u *Uploads) All(ctx context.Context) map[string]models.Upload {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.read(ctx)
}

func (u *Uploads) read(ctx context.Context) map[string]models.Upload {
	raw, ok := u.store.Get(ctx, UploadsKey)
	if !ok || raw == "" {
		return map[string]models.Upload{}
	}
	var all map[string]models.Upload
	if err := json.Unmarshal([]byte(raw), &all); err != nil || all == nil {
		u.cfg.log.Warn(ctx, "uploads map is corrupt, treating as empty", "error", err)
		return map[string]models.Upload{}
	}
	return all
}

func (u *Uploads) write(ctx context.Context, all map[string]models.Upload) {
	out, err := json.Marshal(all)
	if err != nil {
		u.cfg.log.Warn(ctx, "uploads map not serializable", "error", err)
		return
	}
	u.store.Set(ctx, UploadsKey, string(out))
}

func (u *Uploads) evict(all map[string]models.Upload) {
	if u.cfg.limit <= 0 || len(all) <= u.cfg.limit {
		return
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := all[ids[i]], all[ids[j]]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids[:len(all)-u.cfg.limit] {
		delete(all, id)
	}
}
