package store

import (
	"context"
	"sync"

	"auroracast/internal/types"
)

// Compile-time assertion that Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory is the in-memory Store backend. Values are copied on read and
// write so callers can never alias the stored state.
type Memory struct {
	mu       sync.RWMutex
	snapshot *types.CachedSnapshot
	alerts   *types.AlertState
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadSnapshot returns the committed snapshot, or nil when none exists.
func (m *Memory) ReadSnapshot(_ context.Context) (*types.CachedSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return nil, nil
	}
	snap := *m.snapshot
	return &snap, nil
}

// WriteSnapshot commits a snapshot, overwriting any prior one.
func (m *Memory) WriteSnapshot(_ context.Context, snap *types.CachedSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *snap
	m.snapshot = &copied
	return nil
}

// ReadAlertState returns the persisted alert state, or nil when none has
// been written yet (the caller applies configured defaults).
func (m *Memory) ReadAlertState(_ context.Context) (*types.AlertState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.alerts == nil {
		return nil, nil
	}
	st := *m.alerts
	return &st, nil
}

// WriteAlertState persists the alert state, last-write-wins.
func (m *Memory) WriteAlertState(_ context.Context, st types.AlertState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts = &st
	return nil
}
