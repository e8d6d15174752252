// README: In-memory session registry with idle expiry.
package trip

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fable/internal/metrics"
)

var ErrNotFound = errors.New("trip session not found")

// Registry owns the live sessions. Sessions have no server-side persistence:
// they exist from creation until deleted or idle-expired.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create starts a new session. Selection mode starts at the start slot;
// the default transport mode is driving. share, when non-empty, hydrates
// waypoints and mode from an encoded share link.
func (r *Registry) Create(share string) *Session {
	s := &Session{
		ID:         newID(),
		mode:       ModeDriving,
		role:       RoleStart,
		route:      RouteOverlay{State: RouteIdle},
		lastActive: time.Now(),
	}
	if share != "" {
		applyShare(s, share)
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	metrics.SessionsActive.Inc()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	if _, ok := r.sessions[id]; ok {
		delete(r.sessions, id)
		metrics.SessionsActive.Dec()
	}
	r.mu.Unlock()
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunSweeper expires idle sessions until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context) {
	interval := r.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			metrics.SessionsActive.Dec()
			slog.Debug("expired idle session", "session", id)
		}
	}
}

func newID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
