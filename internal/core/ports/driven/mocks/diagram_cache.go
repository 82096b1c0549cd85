package mocks

import (
	"context"
	"sync"
)

type cacheEntry struct {
	fingerprint string
	xml         string
}

// MockDiagramCache is an in-memory mock implementation of DiagramCache
type MockDiagramCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	// Hits and Misses count Get outcomes for test assertions
	Hits   int
	Misses int
}

// NewMockDiagramCache creates a new MockDiagramCache
func NewMockDiagramCache() *MockDiagramCache {
	return &MockDiagramCache{
		entries: make(map[string]cacheEntry),
	}
}

func (m *MockDiagramCache) Get(ctx context.Context, processID, fingerprint string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[processID]
	if !ok || entry.fingerprint != fingerprint {
		m.Misses++
		return "", false, nil
	}
	m.Hits++
	return entry.xml, true, nil
}

func (m *MockDiagramCache) Set(ctx context.Context, processID, fingerprint, xml string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[processID] = cacheEntry{fingerprint: fingerprint, xml: xml}
	return nil
}

func (m *MockDiagramCache) Invalidate(ctx context.Context, processID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, processID)
	return nil
}
