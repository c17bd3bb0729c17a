package mirror

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
)

// Mirror is the persisted fallback copy of entity collections.
type Mirror struct {
	store *kv.Adapter
	mu    sync.Mutex
	cfg   settings
}

func New(store *kv.Adapter, opts ...Option) *Mirror {
	cfg := newSettings(opts)
	cfg.log = cfg.log.With("component", "mirror")
	return &Mirror{store: store, cfg: cfg}
}

// NormalizeEntity returns the key an entity is stored under.
func NormalizeEntity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Exclusive runs fn while holding the mirror lock. fn must not call back
// into m; it may touch the backing store directly.
func (m *Mirror) Exclusive(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// ReadList returns copies of the records mirrored for entity.
func (m *Mirror) ReadList(ctx context.Context, entity string) []models.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.readList(ctx, NormalizeEntity(entity)))
}

// WriteList replaces the mirrored list for entity.
func (m *Mirror) WriteList(ctx context.Context, entity string, records []models.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeList(ctx, NormalizeEntity(entity), m.capped(cloneAll(records)))
}

// Upsert merges rec into the mirror and returns a copy of the stored record.
//
// Incoming fields win, except that an existing record keeps its id and
// created_date; updated_date is always refreshed. A record without id gets
// a temporary one.
func (m *Mirror) Upsert(ctx context.Context, entity string, rec models.Record) models.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := NormalizeEntity(entity)
	now := models.Timestamp(m.cfg.now())

	incoming := rec.Clone()
	if incoming == nil {
		incoming = models.Record{}
	}
	if !incoming.HasID() {
		incoming[models.FieldID] = models.NewTempID(m.cfg.now())
	}
	id := incoming.ID()

	list := m.readList(ctx, name)

	var merged models.Record
	found := false
	for i, existing := range list {
		if existing.ID() != id {
			continue
		}
		merged = existing.Merge(incoming)
		merged[models.FieldID] = existing[models.FieldID]
		merged[models.FieldCreatedDate] = firstNonNil(existing[models.FieldCreatedDate], incoming[models.FieldCreatedDate], now)
		merged[models.FieldUpdatedDate] = now
		list[i] = merged
		found = true
		break
	}

	if !found {
		merged = incoming
		if merged[models.FieldCreatedDate] == nil {
			merged[models.FieldCreatedDate] = now
		}
		merged[models.FieldUpdatedDate] = now
		list = append(list, merged)
	}

	m.writeList(ctx, name, m.capped(list))
	return merged.Clone()
}

// Remove drops every record of entity whose id equals id.
func (m *Mirror) Remove(ctx context.Context, entity, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := NormalizeEntity(entity)
	list := m.readList(ctx, name)
	kept := list[:0]
	for _, r := range list {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	m.writeList(ctx, name, kept)
}

// Lookup returns a copy of the record with the given id.
func (m *Mirror) Lookup(ctx context.Context, entity, id string) (models.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.readList(ctx, NormalizeEntity(entity)) {
		if r.ID() == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

// Entities lists the entity names that currently have a mirrored list.
func (m *Mirror) Entities(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.readDocument(ctx)
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	return names
}

func (m *Mirror) readDocument(ctx context.Context) map[string]json.RawMessage {
	raw, ok := m.store.Get(ctx, EntitiesKey)
	if !ok || raw == "" {
		return map[string]json.RawMessage{}
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc == nil {
		m.cfg.log.Warn(ctx, "mirror document is corrupt, treating as empty", "error", err)
		return map[string]json.RawMessage{}
	}
	return doc
}

func (m *Mirror) readList(ctx context.Context, name string) []models.Record {
	doc := m.readDocument(ctx)
	raw, ok := doc[name]
	if !ok {
		return []models.Record{}
	}
	var list []models.Record
	if err := json.Unmarshal(raw, &list); err != nil {
		m.cfg.log.Warn(ctx, "mirrored list is corrupt, treating as empty", "entity", name, "error", err)
		return []models.Record{}
	}
	out := make([]models.Record, 0, len(list))
	for _, r := range list {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m *Mirror) writeList(ctx context.Context, name string, list []models.Record) {
	if list == nil {
		list = []models.Record{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		m.cfg.log.Warn(ctx, "mirrored list not serializable", "entity", name, "error", err)
		return
	}

	doc := m.readDocument(ctx)
	doc[name] = encoded

	out, err := json.Marshal(doc)
	if err != nil {
		m.cfg.log.Warn(ctx, "mirror document not serializable", "error", err)
		return
	}
	m.store.Set(ctx, EntitiesKey, string(out))
}

func (m *Mirror) capped(list []models.Record) []models.Record {
	if m.cfg.limit > 0 && len(list) > m.cfg.limit {
		return list[len(list)-m.cfg.limit:]
	}
	return list
}

func cloneAll(list []models.Record) []models.Record {
	out := make([]models.Record, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}

func firstNonNil(vs ...any) any {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}
