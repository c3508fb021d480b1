package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/models"
)

var ErrNotFound = errors.New("session: not found")

// Store persists session records until their ExpiresAt.
type Store interface {
	Load(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, rec *models.Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process; used for single-instance deployments and tests.
// Records are copied in and out, so a loaded session never aliases the stored one.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]models.Session{}, now: time.Now}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	rec, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !rec.ExpiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

func (m *MemoryStore) Save(ctx context.Context, rec *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[rec.ID] = rec.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
