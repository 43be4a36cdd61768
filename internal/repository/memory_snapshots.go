package repository

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"sync"
)

type memorySlots struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemorySnapshots keeps snapshots for the lifetime of the process.
func NewMemorySnapshots(logger *zap.Logger) port.SnapshotStore {
	return newSnapshotStore(newMemorySlots(), logger)
}

func newMemorySlots() *memorySlots {
	return &memorySlots{values: make(map[string]map[string]string)}
}

func (s *memorySlots) get(_ context.Context, sessionID, slot string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[sessionID][slot]
	return value, ok, nil
}

func (s *memorySlots) put(_ context.Context, sessionID, slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values[sessionID] == nil {
		s.values[sessionID] = make(map[string]string)
	}
	s.values[sessionID][slot] = value

	return nil
}

func (s *memorySlots) remove(_ context.Context, sessionID string, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range names {
		delete(s.values[sessionID], slot)
	}
	if len(s.values[sessionID]) == 0 {
		delete(s.values, sessionID)
	}

	return nil
}
