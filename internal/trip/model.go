// README: Trip session aggregate, transport modes, and route overlay states.
package trip

import (
	"sync"
	"time"

	"fable/internal/poi"
	"fable/internal/routing"
	"fable/internal/types"
)

// Role indicates which waypoint slot the next map click will set.
type Role string

const (
	RoleStart Role = "start"
	RoleEnd   Role = "end"
)

// TransportMode selects both the routing profile and the route line styling.
type TransportMode string

const (
	ModeDriving TransportMode = "driving"
	ModeCycling TransportMode = "cycling"
	ModeWalking TransportMode = "walking"
)

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (TransportMode, bool) {
	m := TransportMode(s)
	switch m {
	case ModeDriving, ModeCycling, ModeWalking:
		return m, true
	}
	return "", false
}

// Profile maps the mode to the routing engine's profile parameter.
func (m TransportMode) Profile() routing.Profile {
	switch m {
	case ModeCycling:
		return routing.ProfileCycling
	case ModeWalking:
		return routing.ProfileWalking
	default:
		return routing.ProfileDriving
	}
}

// LineColor is the route line color drawn for the mode.
func (m TransportMode) LineColor() string {
	switch m {
	case ModeCycling:
		return "#2e8b57"
	case ModeWalking:
		return "#e67e22"
	default:
		return "#2864dc"
	}
}

// RouteState is the overlay lifecycle state.
type RouteState string

const (
	RouteIdle       RouteState = "idle"
	RouteRequesting RouteState = "requesting"
	RouteDisplayed  RouteState = "displayed"
	RouteError      RouteState = "error"
)

// RouteSummary holds the authoritative metrics of the primary route.
// It exists only while a successful response for the current inputs is
// displayed; it is cleared before any new request is issued.
type RouteSummary struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RouteOverlay is the rendered route view owned by the orchestrator for the
// lifetime of one valid (start, end, mode) triple.
type RouteOverlay struct {
	State        RouteState           `json:"state"`
	Summary      *RouteSummary        `json:"summary,omitempty"`
	Color        string               `json:"color,omitempty"`
	Primary      []types.Coordinate   `json:"primary,omitempty"`
	Alternatives [][]types.Coordinate `json:"alternatives,omitempty"`
}

// Viewport describes what the map surface should show. A nil Bounds means
// "center at Zoom"; a valid Bounds means "fit this region".
type Viewport struct {
	Center types.Coordinate `json:"center"`
	Zoom   int              `json:"zoom,omitempty"`
	Bounds *types.Bounds    `json:"bounds,omitempty"`
}

// Session is the trip aggregate. All fields are guarded by mu; the
// orchestrator is the only writer. The seq counters implement logical
// cancellation: a response whose token no longer matches the counter was
// issued for superseded inputs and must be discarded.
type Session struct {
	ID string

	mu         sync.Mutex
	start      *types.Coordinate
	end        *types.Coordinate
	mode       TransportMode
	role       Role
	pois       []poi.PointOfInterest
	focusedPOI string
	viewport   Viewport
	route      RouteOverlay
	story      string
	generating bool
	lastActive time.Time

	routeSeq uint64
	poiSeq   uint64
}

// Snapshot is the read view handed to transports.
type Snapshot struct {
	ID         string                `json:"id"`
	Start      *types.Coordinate     `json:"start,omitempty"`
	End        *types.Coordinate     `json:"end,omitempty"`
	Mode       TransportMode         `json:"mode"`
	Role       Role                  `json:"role"`
	POIs       []poi.PointOfInterest `json:"pois"`
	FocusedPOI string                `json:"focused_poi,omitempty"`
	Viewport   Viewport              `json:"viewport"`
	Route      RouteOverlay          `json:"route"`
	Story      string                `json:"story,omitempty"`
	Generating bool                  `json:"generating"`
}

// snapshotLocked builds the read view. Callers must hold s.mu.
func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:         s.ID,
		Mode:       s.mode,
		Role:       s.role,
		FocusedPOI: s.focusedPOI,
		Viewport:   s.viewport,
		Route:      s.route,
		Story:      s.story,
		Generating: s.generating,
	}
	if s.start != nil {
		c := *s.start
		snap.Start = &c
	}
	if s.end != nil {
		c := *s.end
		snap.End = &c
	}
	snap.POIs = append([]poi.PointOfInterest(nil), s.pois...)
	return snap
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
