// README: Registry lifecycle and idle expiry tests.
package trip

import (
	"errors"
	"testing"
	"time"
)

func TestRegistryCreateDefaults(t *testing.T) {
	r := NewRegistry(time.Hour)
	s := r.Create("")

	if s.ID == "" {
		t.Fatal("expected generated session id")
	}
	snap := s.Snapshot()
	if snap.Mode != ModeDriving {
		t.Fatalf("expected driving default, got %s", snap.Mode)
	}
	if snap.Role != RoleStart {
		t.Fatalf("expected start selection, got %s", snap.Role)
	}
	if snap.Route.State != RouteIdle {
		t.Fatalf("expected idle overlay, got %s", snap.Route.State)
	}

	got, err := r.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("expected to retrieve the created session, got %v / %v", got, err)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(time.Hour)
	if _, err := r.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(time.Hour)
	s := r.Create("")
	r.Delete(s.ID)
	if _, err := r.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected session gone after delete, got %v", err)
	}
	// Deleting twice is harmless.
	r.Delete(s.ID)
	if r.Count() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Count())
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	r := NewRegistry(10 * time.Minute)
	idle := r.Create("")
	active := r.Create("")

	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-time.Hour)
	idle.mu.Unlock()

	r.sweep()

	if _, err := r.Get(idle.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session expired, got %v", err)
	}
	if _, err := r.Get(active.ID); err != nil {
		t.Fatalf("active session expired: %v", err)
	}
}
