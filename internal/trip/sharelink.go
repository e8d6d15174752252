// README: Share link encoding of trip state (waypoints and mode).
package trip

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fable/internal/types"
)

// EncodeShare renders the session's start, end, and mode as query-encoded
// delimited fields, suitable for embedding in a shareable link.
func (s *Session) EncodeShare() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := url.Values{}
	if s.start != nil {
		v.Set("start", encodeWaypoint(*s.start))
	}
	if s.end != nil {
		v.Set("end", encodeWaypoint(*s.end))
	}
	v.Set("mode", string(s.mode))
	return v.Encode()
}

// applyShare hydrates a fresh session from an encoded share string.
// Malformed fields are ignored rather than failing session creation.
// Called before the session is published, so no locking is needed.
func applyShare(s *Session, share string) {
	v, err := url.ParseQuery(share)
	if err != nil {
		return
	}
	if c, ok := decodeWaypoint(v.Get("start")); ok {
		s.start = &c
		// A hydrated start means the next click targets the end slot.
		s.role = RoleEnd
	}
	if c, ok := decodeWaypoint(v.Get("end")); ok {
		s.end = &c
	}
	if m, ok := ParseMode(v.Get("mode")); ok {
		s.mode = m
	}
}

func encodeWaypoint(c types.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f,%s", c.Lat, c.Lng, c.Label)
}

func decodeWaypoint(field string) (types.Coordinate, bool) {
	if field == "" {
		return types.Coordinate{}, false
	}
	parts := strings.SplitN(field, ",", 3)
	if len(parts) < 2 {
		return types.Coordinate{}, false
	}
	lat, errLat := strconv.ParseFloat(parts[0], 64)
	lng, errLng := strconv.ParseFloat(parts[1], 64)
	if errLat != nil || errLng != nil {
		return types.Coordinate{}, false
	}
	c := types.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return types.Coordinate{}, false
	}
	if len(parts) == 3 {
		c.Label = parts[2]
	}
	return c, true
}
