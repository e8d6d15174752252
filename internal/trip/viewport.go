// README: Viewport fitting policy for the map surface.
package trip

import "fable/internal/types"

const (
	// zoomCity frames a single start point at city level.
	zoomCity = 13
	// zoomLocate frames the device position after a geolocate request.
	zoomLocate = 15
	// zoomFocus frames a focused POI close up.
	zoomFocus = 16
	// fitPadding is the margin fraction added around fitted bounds.
	fitPadding = 0.15
)

// fitViewportLocked recomputes the viewport from the current waypoints and
// POI set. Policy: with any POIs, or both endpoints, fit the union of all
// known points; with only a start, center on it at city zoom; with nothing,
// leave the viewport unchanged. Degenerate inputs are a no-op, never a fault.
// Callers must hold s.mu.
func fitViewportLocked(s *Session) {
	var b types.Bounds
	if s.start != nil {
		b.Extend(s.start.Lat, s.start.Lng)
	}
	if s.end != nil {
		b.Extend(s.end.Lat, s.end.Lng)
	}
	for _, p := range s.pois {
		b.Extend(p.Position.Lat, p.Position.Lng)
	}

	switch {
	case len(s.pois) > 0 || (s.start != nil && s.end != nil):
		if !b.Valid() {
			return
		}
		padded := b.Pad(fitPadding)
		s.viewport = Viewport{Center: padded.Center(), Bounds: &padded}
	case s.start != nil:
		s.viewport = Viewport{Center: *s.start, Zoom: zoomCity}
	default:
		// Nothing set: keep whatever the viewport already shows.
	}
}
