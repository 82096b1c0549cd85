package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// MockProcessStore is a mock implementation of ProcessStore for testing
type MockProcessStore struct {
	mu        sync.RWMutex
	processes map[string]*domain.Process

	// SaveErr, when set, is returned by Save to simulate store failures
	SaveErr error
}

// NewMockProcessStore creates a new MockProcessStore
func NewMockProcessStore() *MockProcessStore {
	return &MockProcessStore{
		processes: make(map[string]*domain.Process),
	}
}

func (m *MockProcessStore) Save(ctx context.Context, process *domain.Process) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processes[process.ID] = process
	return nil
}

func (m *MockProcessStore) Get(ctx context.Context, id string) (*domain.Process, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	process, ok := m.processes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return process, nil
}

func (m *MockProcessStore) List(ctx context.Context, limit, offset int) ([]*domain.Process, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Process, 0, len(m.processes))
	for _, p := range m.processes {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockProcessStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.processes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.processes, id)
	return nil
}

func (m *MockProcessStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.processes), nil
}

// Helper methods for testing

func (m *MockProcessStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processes = make(map[string]*domain.Process)
}
