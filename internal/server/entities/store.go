// Package entities is the in-memory entity store of the development backend.
// Each entity name holds an ordered collection of JSON objects keyed by id.
package entities

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/google/uuid"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

type collection struct {
	order []string
	items map[string]map[string]any
}

type Store struct {
	mu   sync.RWMutex
	data map[string]*collection
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: map[string]*collection{}, now: time.Now}
}

func key(entity string) string {
	return strings.ToLower(strings.TrimSpace(entity))
}

func (s *Store) coll(entity string, create bool) *collection {
	k := key(entity)
	c, ok := s.data[k]
	if !ok && create {
		c = &collection{items: map[string]map[string]any{}}
		s.data[k] = c
	}
	return c
}

func (s *Store) List(entity string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.coll(entity, false)
	if c == nil {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyMap(c.items[id]))
	}
	return out
}

func (s *Store) Get(entity, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.coll(entity, false)
	if c == nil {
		return nil, common.ErrNotFound
	}
	rec, ok := c.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return copyMap(rec), nil
}

// Create stores data under its own id, or a new uuid when it has none.
func (s *Store) Create(entity string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(entity, true)
	rec := copyMap(data)

	id := idOf(rec)
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := c.items[id]; exists {
		return nil, fmt.Errorf("%w: %s", common.ErrAlreadyExists, id)
	}

	now := s.now().UTC().Format(timestampLayout)
	rec["id"] = id
	rec["created_date"] = now
	rec["updated_date"] = now

	c.items[id] = rec
	c.order = append(c.order, id)
	return copyMap(rec), nil
}

// Update merges data into the stored record; id and created_date are kept.
func (s *Store) Update(entity, id string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(entity, false)
	if c == nil {
		return nil, common.ErrNotFound
	}
	rec, ok := c.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}

	for k, v := range data {
		if k == "id" || k == "created_date" {
			continue
		}
		rec[k] = v
	}
	rec["updated_date"] = s.now().UTC().Format(timestampLayout)
	return copyMap(rec), nil
}

func (s *Store) Delete(entity, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(entity, false)
	if c == nil {
		return common.ErrNotFound
	}
	if _, ok := c.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func idOf(rec map[string]any) string {
	switch v := rec["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
