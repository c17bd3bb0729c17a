package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/wmsclient/internal/client/client"
	"github.com/dmitrijs2005/wmsclient/internal/client/match"
	"github.com/dmitrijs2005/wmsclient/internal/client/mirror"
	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

var ErrUnexpectedPayload = errors.New("unexpected payload")

// EntityRepository is the data access surface for one entity collection.
//
// Contract:
//   - List: remote collection, sorted and truncated; replaces the mirror on
//     success, reads the mirror on failure.
//   - Filter: List followed by client-side filtering.
//   - Get: remote record merged into the mirror; the mirror copy on failure,
//     or the original error when the id was never mirrored.
//   - Create, Update: never fail; offline results are written to the mirror.
//   - Delete: always removes the id from the mirror; returns the remote
//     payload or the bare id.
type EntityRepository interface {
	Name() string
	List(ctx context.Context, orderBy string, limit int) []models.Record
	Filter(ctx context.Context, predicate match.Predicate, orderBy string) []models.Record
	Get(ctx context.Context, id string) (models.Record, error)
	Create(ctx context.Context, data models.Record) models.Record
	Update(ctx context.Context, id string, data models.Record) models.Record
	Delete(ctx context.Context, id string) any
}

// Entities builds and caches one repository per entity name.
type Entities struct {
	transport client.Transport
	mirror    *mirror.Mirror
	log       logging.Logger

	mu    sync.Mutex
	repos map[string]EntityRepository
}

func NewEntities(transport client.Transport, m *mirror.Mirror, log logging.Logger) *Entities {
	if log == nil {
		log = logging.NewNop()
	}
	return &Entities{
		transport: transport,
		mirror:    m,
		log:       log.With("component", "entities"),
		repos:     make(map[string]EntityRepository),
	}
}

// Entity returns the repository for name. Names differing only in case or
// surrounding spaces share one repository.
func (e *Entities) Entity(name string) EntityRepository {
	key := mirror.NormalizeEntity(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.repos[key]; ok {
		return r
	}
	r := &entityRepository{
		name:      key,
		path:      "/entities/" + url.PathEscape(strings.TrimSpace(name)),
		transport: e.transport,
		mirror:    e.mirror,
		log:       e.log.With("entity", key),
	}
	e.repos[key] = r
	return r
}

type entityRepository struct {
	name      string
	path      string
	transport client.Transport
	mirror    *mirror.Mirror
	log       logging.Logger
}

func (r *entityRepository) Name() string { return r.name }

func (r *entityRepository) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *entityRepository) List(ctx context.Context, orderBy string, limit int) []models.Record {
	payload, err := r.transport.Do(ctx, http.MethodGet, r.path, nil, nil)
	if err == nil {
		if records, ok := asRecordList(payload); ok {
			match.Sort(records, orderBy)
			r.mirror.WriteList(ctx, r.name, records)
			return match.Limit(records, limit)
		}
		err = ErrUnexpectedPayload
	}

	r.log.Warn(ctx, "list failed, using local data", "op", "list", "error", err)
	records := r.mirror.ReadList(ctx, r.name)
	match.Sort(records, orderBy)
	return match.Limit(records, limit)
}

func (r *entityRepository) Filter(ctx context.Context, predicate match.Predicate, orderBy string) []models.Record {
	return match.Filter(r.List(ctx, orderBy, 0), predicate)
}

func (r *entityRepository) Get(ctx context.Context, id string) (models.Record, error) {
	payload, err := r.transport.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil)
	if err == nil {
		if rec, ok := models.AsRecord(payload); ok {
			r.mirror.Upsert(ctx, r.name, rec)
			return rec, nil
		}
		err = ErrUnexpectedPayload
	}

	if rec, ok := r.mirror.Lookup(ctx, r.name, id); ok {
		r.log.Warn(ctx, "get failed, using local data", "op", "get", "id", id, "error", err)
		return rec, nil
	}
	return nil, err
}

func (r *entityRepository) Create(ctx context.Context, data models.Record) models.Record {
	payload, err := r.transport.Do(ctx, http.MethodPost, r.path, data, nil)
	if err != nil {
		r.log.Warn(ctx, "create failed, storing locally", "op", "create", "error", err)
		return r.mirror.Upsert(ctx, r.name, data)
	}

	if rec, ok := nonEmptyRecord(payload); ok {
		return r.mirror.Upsert(ctx, r.name, rec)
	}
	return r.mirror.Upsert(ctx, r.name, data)
}

func (r *entityRepository) Update(ctx context.Context, id string, data models.Record) models.Record {
	synthesized := data.Merge(models.Record{models.FieldID: id})

	payload, err := r.transport.Do(ctx, http.MethodPut, r.itemPath(id), data, nil)
	if err != nil {
		r.log.Warn(ctx, "update failed, storing locally", "op", "update", "id", id, "error", err)
		return r.mirror.Upsert(ctx, r.name, synthesized)
	}

	result := synthesized
	if rec, ok := nonEmptyRecord(payload); ok {
		result = rec
	}
	return r.mirror.Upsert(ctx, r.name, result)
}

func (r *entityRepository) Delete(ctx context.Context, id string) any {
	payload, err := r.transport.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	r.mirror.Remove(ctx, r.name, id)
	if err != nil {
		r.log.Warn(ctx, "delete failed, removed locally", "op", "delete", "id", id, "error", err)
		return id
	}
	return payload
}

func asRecordList(payload any) ([]models.Record, bool) {
	items, ok := payload.([]any)
	if !ok {
		return nil, false
	}
	out := make([]models.Record, 0, len(items))
	for _, it := range items {
		if rec, ok := models.AsRecord(it); ok {
			out = append(out, rec)
		}
	}
	return out, true
}

// nonEmptyRecord treats an empty object, which the transport returns for
// bodiless 2xx responses, the same as a non-object payload: the caller's
// data is mirrored instead of an empty record with a fresh temp id.
func nonEmptyRecord(payload any) (models.Record, bool) {
	rec, ok := models.AsRecord(payload)
	if !ok || len(rec) == 0 {
		return nil, false
	}
	return rec, true
}
