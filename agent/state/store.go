package state

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrStateNotFound = errors.New("call state not found")
	ErrStateExists   = errors.New("call state already exists")
)

// MemoryStore keeps live calls in process. Load hands out the shared pointer;
// callers lock the CallState while mutating it.
type MemoryStore struct {
	mu    sync.RWMutex
	calls map[string]*CallState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{calls: make(map[string]*CallState, 8)}
}

func (m *MemoryStore) Load(_ context.Context, callID string) (*CallState, error) {
	id := strings.TrimSpace(callID)
	if id == "" {
		return nil, ErrInvalidCall
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.calls[id]
	if !ok {
		return nil, ErrStateNotFound
	}
	return st, nil
}

func (m *MemoryStore) Save(_ context.Context, st *CallState) error {
	if err := st.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[st.CallID] = st
	return nil
}

// Create is Save that refuses to replace a live call.
func (m *MemoryStore) Create(_ context.Context, st *CallState) error {
	if err := st.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.calls[st.CallID]; ok {
		return ErrStateExists
	}
	m.calls[st.CallID] = st
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.calls, strings.TrimSpace(callID))
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}
