// Package store provides persistence for Person aggregates. The in-memory
// implementation backs tests and local development; PostgresStore is the
// production path. Both enforce CPF uniqueness themselves so services can rely
// on the store as the authoritative guard under concurrent creates.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"registra/internal/person/models"
	"registra/pkg/platform/sentinel"
)

// InMemoryPersonStore keeps people in a map guarded by a RWMutex. It
// intentionally favors clarity over performance.
type InMemoryPersonStore struct {
	mu     sync.RWMutex
	people map[uuid.UUID]*models.Person
	byCPF  map[string]uuid.UUID
}

func NewInMemory() *InMemoryPersonStore {
	return &InMemoryPersonStore{
		people: make(map[uuid.UUID]*models.Person),
		byCPF:  make(map[string]uuid.UUID),
	}
}

func (s *InMemoryPersonStore) Add(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCPF[p.CPF()]; taken {
		return sentinel.ErrConflict
	}
	cp := *p
	s.people[p.ID()] = &cp
	s.byCPF[p.CPF()] = p.ID()
	return nil
}

func (s *InMemoryPersonStore) FindByID(_ context.Context, id uuid.UUID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.people[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryPersonStore) FindByCPF(_ context.Context, cpfDigits string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byCPF[cpfDigits]; ok {
		cp := *s.people[id]
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// ListAll returns every person ordered by creation time, most recent first.
// Ordering is part of the store contract: list responses must be stable
// across pages.
func (s *InMemoryPersonStore) ListAll(_ context.Context) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0, len(s.people))
	for _, p := range s.people {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

func (s *InMemoryPersonStore) Update(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[p.ID()]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *p
	s.people[p.ID()] = &cp
	return nil
}

func (s *InMemoryPersonStore) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byCPF, p.CPF())
	delete(s.people, id)
	return nil
}
