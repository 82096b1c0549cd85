package mocks

import (
	"context"
	"sync"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// MockStepStore is a mock implementation of StepStore for testing
type MockStepStore struct {
	mu    sync.RWMutex
	steps map[string][]*domain.ProcessStep // keyed by process ID, ordinal order

	// SaveErr, when set, is returned by SaveBatch to simulate store failures
	SaveErr error
}

// NewMockStepStore creates a new MockStepStore
func NewMockStepStore() *MockStepStore {
	return &MockStepStore{
		steps: make(map[string][]*domain.ProcessStep),
	}
}

func (m *MockStepStore) SaveBatch(ctx context.Context, processID string, steps []*domain.ProcessStep) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]*domain.ProcessStep, len(steps))
	copy(stored, steps)
	m.steps[processID] = stored
	return nil
}

func (m *MockStepStore) ListByProcess(ctx context.Context, processID string) ([]*domain.ProcessStep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	steps, ok := m.steps[processID]
	if !ok {
		return nil, nil
	}
	result := make([]*domain.ProcessStep, len(steps))
	copy(result, steps)
	return result, nil
}

func (m *MockStepStore) Get(ctx context.Context, id string) (*domain.ProcessStep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, steps := range m.steps {
		for _, s := range steps {
			if s.ID == id {
				return s, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockStepStore) DeleteByProcess(ctx context.Context, processID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.steps, processID)
	return nil
}

// Helper methods for testing

func (m *MockStepStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = make(map[string][]*domain.ProcessStep)
}
