package round

import (
	"sync"

	merrors "github.com/r3d91ll/meetup/pkg/errors"
)

// Registry keeps recorded rounds in insertion order with thread-safe access.
type Registry struct {
	rounds []*Round
	byID   map[string]*Round
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Round),
	}
}

// Add records a round. Adding the same ID twice is ignored.
func (r *Registry) Add(round *Round) {
	if round == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[round.ID]; exists {
		return
	}
	r.rounds = append(r.rounds, round)
	r.byID[round.ID] = round
}

// Get retrieves a round by ID.
func (r *Registry) Get(id string) (*Round, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	round, ok := r.byID[id]
	return round, ok
}

// At returns the round at the 1-based position n.
func (r *Registry) At(n int) (*Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n < 1 || n > len(r.rounds) {
		return nil, merrors.AttachSuggestions(merrors.Agentf(merrors.ErrRoundNotFound,
			"round %d not found (%d recorded)", n, len(r.rounds)))
	}
	return r.rounds[n-1], nil
}

// List returns all rounds in insertion order.
func (r *Registry) List() []*Round {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Round, len(r.rounds))
	copy(result, r.rounds)
	return result
}

// Latest returns the most recently added round.
func (r *Registry) Latest() (*Round, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.rounds) == 0 {
		return nil, false
	}
	return r.rounds[len(r.rounds)-1], true
}

// Len returns the number of recorded rounds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rounds)
}

// Clear removes all rounds and returns how many were removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.rounds)
	r.rounds = nil
	r.byID = make(map[string]*Round)
	return n
}
