package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/rinkbook/internal/dependencies/ids"
)

// MockIDs is a mock implementation of Generator for testing.
// Queued ids are returned first, then sequential "id-N" values.
type MockIDs struct {
	mu     sync.Mutex
	queued []string
	issued int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewID returns the next queued id, or a sequential fallback
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.issued++
	if len(m.queued) > 0 {
		id := m.queued[0]
		m.queued = m.queued[1:]
		return id
	}
	return fmt.Sprintf("id-%d", m.issued)
}

// Queue adds ids to be returned by NewID
func (m *MockIDs) Queue(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, values...)
}

// Issued returns how many ids have been handed out
func (m *MockIDs) Issued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issued
}
