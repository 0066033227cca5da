package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/docsync/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	settings *domain.Settings
}

func New() *Store {
	return &Store{}
}

func (m *Store) Load(ctx context.Context) (*domain.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, nil
	}
	out := m.settings.Clone()
	return &out, nil
}

func (m *Store) Save(ctx context.Context, s *domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s.Clone()
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	m.settings = &cp
	return nil
}
