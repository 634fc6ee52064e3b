package server

import (
	"sync"
	"time"

	"github.com/travellabs/tripbot/internal/dialogue"
)

type liveSession struct {
	sess     *dialogue.Session
	lastSeen time.Time
}

// Registry holds live dialogue sessions by ID. Sessions serialize their
// own turns, so the lock only guards the map and the idle clocks.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*liveSession),
		now:      time.Now,
	}
}

func (r *Registry) Put(s *dialogue.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = &liveSession{sess: s, lastSeen: r.now()}
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*dialogue.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	ls.lastSeen = r.now()
	return ls.sess, true
}

// Remove deletes the session and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Sweep drops sessions that have not been used for longer than ttl and
// returns how many were dropped.
func (r *Registry) Sweep(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-ttl)
	n := 0
	for id, ls := range r.sessions {
		if ls.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
