// README: Share link round-trip and hydration tests.
package trip

import (
	"math"
	"net/url"
	"testing"

	"fable/internal/types"
)

func TestShareRoundTrip(t *testing.T) {
	src := &Session{
		mode: ModeCycling,
		role: RoleEnd,
	}
	src.start = &types.Coordinate{Lat: 48.8566, Lng: 2.3522, Label: "Paris, France"}
	src.end = &types.Coordinate{Lat: 48.9362, Lng: 2.3574, Label: "Saint-Denis"}

	dst := &Session{mode: ModeDriving, role: RoleStart}
	applyShare(dst, src.EncodeShare())

	if dst.start == nil || dst.end == nil {
		t.Fatalf("expected both waypoints hydrated, got start=%v end=%v", dst.start, dst.end)
	}
	const tol = 1e-5
	if math.Abs(dst.start.Lat-48.8566) > tol || math.Abs(dst.start.Lng-2.3522) > tol {
		t.Fatalf("start coordinate drifted: %+v", dst.start)
	}
	if dst.start.Label != "Paris, France" {
		t.Fatalf("start label lost: %q", dst.start.Label)
	}
	if dst.end.Label != "Saint-Denis" {
		t.Fatalf("end label lost: %q", dst.end.Label)
	}
	if dst.mode != ModeCycling {
		t.Fatalf("mode lost: %s", dst.mode)
	}
	if dst.role != RoleEnd {
		t.Fatalf("expected selection to advance past a hydrated start, got %s", dst.role)
	}
}

func TestApplyShareIgnoresMalformedFields(t *testing.T) {
	tests := []struct {
		name  string
		share string
	}{
		{"garbage", "%%%"},
		{"non numeric start", url.Values{"start": {"abc,def,Somewhere"}}.Encode()},
		{"out of range", url.Values{"start": {"95.0,2.35,Nowhere"}}.Encode()},
		{"missing longitude", url.Values{"start": {"48.85"}}.Encode()},
		{"unknown mode", url.Values{"mode": {"teleport"}}.Encode()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{mode: ModeDriving, role: RoleStart}
			applyShare(s, tt.share)
			if s.start != nil || s.end != nil {
				t.Fatalf("malformed field hydrated a waypoint: start=%v end=%v", s.start, s.end)
			}
			if s.mode != ModeDriving {
				t.Fatalf("malformed mode applied: %s", s.mode)
			}
			if s.role != RoleStart {
				t.Fatalf("role changed without a hydrated start: %s", s.role)
			}
		})
	}
}

func TestApplyShareWaypointWithCommaLabel(t *testing.T) {
	share := url.Values{"end": {"48.860600,2.337600,Louvre, Paris"}}.Encode()
	s := &Session{mode: ModeDriving, role: RoleStart}
	applyShare(s, share)

	if s.end == nil {
		t.Fatal("expected end waypoint")
	}
	if s.end.Label != "Louvre, Paris" {
		t.Fatalf("label with comma truncated: %q", s.end.Label)
	}
}
