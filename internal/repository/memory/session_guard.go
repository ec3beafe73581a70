package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionGuard serializes operations on a single session id. Distinct
// sessions proceed concurrently; duplicate rapid submissions on the same
// session queue behind each other, and the loser observes the updated state.
type SessionGuard struct {
	mu    sync.Mutex
	cache *cache.Cache
}

type sessionSlot struct {
	mu sync.Mutex
}

func NewSessionGuard() *SessionGuard {
	// Slots outlive the session idle window; terminated sessions are
	// forgotten explicitly, expiry only reaps abandoned ones.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionGuard{
		cache: c,
	}
}

// Lock acquires the per-session mutex and returns the release function.
func (g *SessionGuard) Lock(sessionID string) func() {
	g.mu.Lock()
	var slot *sessionSlot
	if x, found := g.cache.Get(sessionID); found {
		slot = x.(*sessionSlot)
	} else {
		slot = &sessionSlot{}
	}
	// Refresh expiry on every acquisition so an active session's slot
	// cannot be reaped from under a waiter.
	g.cache.Set(sessionID, slot, cache.DefaultExpiration)
	g.mu.Unlock()

	slot.mu.Lock()
	return func() { slot.mu.Unlock() }
}

// Forget drops the slot for a terminated session.
func (g *SessionGuard) Forget(sessionID string) {
	g.cache.Delete(sessionID)
}
