package mirror

import (
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

const (
	// EntitiesKey holds the serialized entity map.
	EntitiesKey = "wms_fallback_entities"
	// UploadsKey holds the serialized uploads map.
	UploadsKey = "wms_fallback_uploads"
)

type settings struct {
	now   func() time.Time
	log   logging.Logger
	limit int
}

// Option customizes a Mirror or Uploads value.
type Option func(*settings)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLogger attaches a logger for decode warnings.
func WithLogger(l logging.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithLimit caps the number of kept entries (records per entity for a
// Mirror, files for Uploads). Oldest entries go first. 0 means unbounded.
func WithLimit(n int) Option {
	return func(s *settings) { s.limit = n }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.limit < 0 {
		s.limit = 0
	}
	return s
}
