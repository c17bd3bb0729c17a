// Package files keeps uploaded files of the development backend in memory.
package files

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/google/uuid"
)

type File struct {
	ID        string
	Name      string
	MimeType  string
	Data      []byte
	CreatedAt time.Time
}

type Store struct {
	mu    sync.RWMutex
	files map[string]*File
}

func NewStore() *Store {
	return &Store{files: map[string]*File{}}
}

func (s *Store) Save(name, mimeType string, data []byte) *File {
	f := &File{
		ID:        uuid.NewString(),
		Name:      name,
		MimeType:  mimeType,
		Data:      append([]byte(nil), data...),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.files[f.ID] = f
	s.mu.Unlock()
	return f
}

func (s *Store) Get(id string) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return f, nil
}
