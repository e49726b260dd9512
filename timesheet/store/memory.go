// Package store provides BlobStore implementations.
package store

import (
	"context"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory blob slot (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	blob []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored blob, or (nil, nil) when the slot is empty.
func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.blob == nil {
		return nil, nil
	}
	out := make([]byte, len(m.blob))
	copy(out, m.blob)
	return out, nil
}

// Save overwrites the slot.
func (m *Memory) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blob = make([]byte, len(blob))
	copy(m.blob, blob)
	return nil
}
