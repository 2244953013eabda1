package session

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ Store = (*MemoryStore)(nil)

// Store holds write-once planning sessions.
type Store interface {
	Put(ctx context.Context, s types.Session) error
	Get(ctx context.Context, id string) (types.Session, error)
}

// MemoryStore keeps sessions for the lifetime of the process.
type MemoryStore struct {
	items *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

// Put stores a copy of s. An existing id is overwritten (last write wins).
func (m *MemoryStore) Put(_ context.Context, s types.Session) error {
	m.items.Set(s.ID, s.Clone(), cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (types.Session, error) {
	v, ok := m.items.Get(id)
	if !ok {
		return types.Session{}, api.Errorf(api.ErrNotFound, "session %s", id)
	}
	return v.(types.Session).Clone(), nil
}

// Reset drops every session.
func (m *MemoryStore) Reset() {
	m.items.Flush()
}

// Len reports how many sessions are stored.
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}
