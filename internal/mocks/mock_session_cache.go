package mocks

import (
	"context"
	"sync"

	"github.com/you/authsvc/domain"
)

// MockSessionCache implements domain.SessionCache for testing. When no
// func fields are set it behaves as an in-memory cache without TTL.
type MockSessionCache struct {
	SaveFunc   func(ctx context.Context, entry *domain.SessionEntry) error
	GetFunc    func(ctx context.Context, loginID string) (*domain.SessionEntry, error)
	DeleteFunc func(ctx context.Context, loginID string) error

	mu      sync.Mutex
	entries map[string]*domain.SessionEntry
}

// NewMockSessionCache creates a new MockSessionCache
func NewMockSessionCache() *MockSessionCache {
	return &MockSessionCache{entries: make(map[string]*domain.SessionEntry)}
}

// Save stores a session entry
func (m *MockSessionCache) Save(ctx context.Context, entry *domain.SessionEntry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.LoginID] = entry
	return nil
}

// Get retrieves a session entry by login id
func (m *MockSessionCache) Get(ctx context.Context, loginID string) (*domain.SessionEntry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, loginID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[loginID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return entry, nil
}

// Delete removes a session entry by login id
func (m *MockSessionCache) Delete(ctx context.Context, loginID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, loginID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, loginID)
	return nil
}
