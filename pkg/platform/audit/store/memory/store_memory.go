// Package memory provides the in-memory audit store used by tests and
// development.
package memory

import (
	"context"
	"sync"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
)

// InMemoryStore keeps events per user, append-only.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.UserID][]audit.Event
}

// NewInMemoryStore builds an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.UserID][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.UserID] = append(s.events[event.UserID], event)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event(nil), s.events[userID]...), nil
}
