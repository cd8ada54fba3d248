// Package store provides account persistence. Password hashing lives here so
// plaintext never crosses the store boundary.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"registra/internal/auth/models"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/sentinel"
)

// InMemoryAccountStore keeps accounts in process memory. Suitable for tests
// and single-instance development runs.
type InMemoryAccountStore struct {
	mu         sync.RWMutex
	accounts   map[uuid.UUID]*models.Account
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
}

func NewInMemory() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts:   make(map[uuid.UUID]*models.Account),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
	}
}

// CreateAccount hashes the password and stores the account. Duplicate usernames
// and emails fail with field-level conflicts.
func (s *InMemoryAccountStore) CreateAccount(ctx context.Context, account *models.Account, password string) error {
	if err := checkPasswordPolicy(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	emailKey := normalizeKey(account.Email)
	usernameKey := normalizeKey(account.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[usernameKey]; exists {
		return dErrors.NewField(dErrors.CodeConflict, "username", "username is already taken")
	}
	if _, exists := s.byEmail[emailKey]; exists {
		return dErrors.NewField(dErrors.CodeConflict, "email", "email is already registered")
	}

	cp := *account
	cp.PasswordHash = hash
	s.accounts[cp.ID] = &cp
	s.byEmail[emailKey] = cp.ID
	s.byUsername[usernameKey] = cp.ID
	return nil
}

func (s *InMemoryAccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeKey(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

func (s *InMemoryAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

// VerifyPassword reports whether the password matches the stored hash. No
// lockout policy applies.
func (s *InMemoryAccountStore) VerifyPassword(ctx context.Context, account *models.Account, password string) bool {
	return verifyPassword(account.PasswordHash, password)
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
