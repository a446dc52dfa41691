package gate

import (
	"sync"
	"time"
)

type sessionKey struct {
	userID    string
	sessionID string
}

type entry struct {
	gate     *Gate
	lastUsed time.Time
}

// Registry holds one Gate per device and tab session.
// Chapter state is scoped to a tab, so a reload with a new session id starts fresh.
type Registry struct {
	mu      sync.Mutex
	codes   []string
	entries map[sessionKey]*entry
	now     func() time.Time
}

// NewRegistry creates a registry whose gates track codes.
func NewRegistry(codes []string) *Registry {
	c := make([]string, len(codes))
	copy(c, codes)
	return &Registry{
		codes:   c,
		entries: make(map[sessionKey]*entry),
		now:     time.Now,
	}
}

// Get returns the gate for a session, creating it on first use.
func (r *Registry) Get(userID, sessionID string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{userID: userID, sessionID: sessionID}
	e, ok := r.entries[key]
	if !ok {
		e = &entry{gate: New(r.codes)}
		r.entries[key] = e
	}
	e.lastUsed = r.now()
	return e.gate
}

// Drop discards a session's gate.
func (r *Registry) Drop(userID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionKey{userID: userID, sessionID: sessionID})
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict removes gates idle for longer than ttl and returns how many were removed.
func (r *Registry) Evict(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	threshold := r.now().Add(-ttl)
	evicted := 0
	for key, e := range r.entries {
		if e.lastUsed.Before(threshold) {
			delete(r.entries, key)
			evicted++
		}
	}
	return evicted
}
