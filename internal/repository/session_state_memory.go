package repository

import (
	"sync"

	"taqyim_backend/internal/model"
)

// MemorySessionStateStore keeps delivery session state in process. Used in
// tests and single-node deployments without Redis.
type MemorySessionStateStore struct {
	mu     sync.RWMutex
	states map[string]*model.DeliverySessionState
}

func NewMemorySessionStateStore() *MemorySessionStateStore {
	return &MemorySessionStateStore{
		states: make(map[string]*model.DeliverySessionState),
	}
}

func (s *MemorySessionStateStore) Get(participantID string) (*model.DeliverySessionState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[participantID]
	if !ok {
		return nil, false, nil
	}
	return state.Clone(), true, nil
}

func (s *MemorySessionStateStore) Save(state *model.DeliverySessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ParticipantID] = state.Clone()
	return nil
}

func (s *MemorySessionStateStore) Delete(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, participantID)
	return nil
}
