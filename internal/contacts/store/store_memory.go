package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and development. Records
// are copied on the way in and out so callers never share slices with the
// store.
type InMemory struct {
	mu       sync.RWMutex
	contacts map[id.ContactID]models.Contact
}

// NewInMemory builds an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{contacts: make(map[id.ContactID]models.Contact)}
}

func (s *InMemory) ListByOwner(_ context.Context, userID id.UserID) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Contact
	for _, c := range s.contacts {
		if c.UserID == userID {
			out = append(out, copyContact(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Get(_ context.Context, userID id.UserID, contactID id.ContactID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[contactID]
	if !ok || c.UserID != userID {
		return nil, sentinel.ErrNotFound
	}
	cp := copyContact(c)
	return &cp, nil
}

func (s *InMemory) Create(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[contact.ID]; exists {
		return sentinel.ErrConflict
	}
	now := time.Now()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now
	s.contacts[contact.ID] = copyContact(*contact)
	return nil
}

func (s *InMemory) UpdateName(_ context.Context, userID id.UserID, contactID id.ContactID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[contactID]
	if !ok || c.UserID != userID {
		return sentinel.ErrNotFound
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	s.contacts[contactID] = c
	return nil
}

func (s *InMemory) AddPhone(_ context.Context, userID id.UserID, contactID id.ContactID, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[contactID]
	if !ok || c.UserID != userID {
		return sentinel.ErrNotFound
	}
	for _, p := range c.Phones {
		if p == phone {
			return nil
		}
	}
	c.Phones = append(append([]string(nil), c.Phones...), phone)
	c.UpdatedAt = time.Now()
	s.contacts[contactID] = c
	return nil
}

func (s *InMemory) AddEmail(_ context.Context, userID id.UserID, contactID id.ContactID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[contactID]
	if !ok || c.UserID != userID {
		return sentinel.ErrNotFound
	}
	for _, e := range c.Emails {
		if e == email {
			return nil
		}
	}
	c.Emails = append(append([]string(nil), c.Emails...), email)
	c.UpdatedAt = time.Now()
	s.contacts[contactID] = c
	return nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID, contactID id.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[contactID]
	if !ok || c.UserID != userID {
		return sentinel.ErrNotFound
	}
	delete(s.contacts, contactID)
	return nil
}

func copyContact(c models.Contact) models.Contact {
	c.Phones = append([]string(nil), c.Phones...)
	c.Emails = append([]string(nil), c.Emails...)
	return c
}
