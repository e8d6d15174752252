// README: Routing profiles and route result types.
package routing

import "fable/internal/types"

// Profile is the transport-mode parameter sent to the routing engine.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileCycling Profile = "cycling"
	ProfileWalking Profile = "walking"
)

// Route is one candidate route returned by the engine.
type Route struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	// Points is the decoded route geometry; empty when the engine returned
	// no geometry or it could not be decoded.
	Points []types.Coordinate `json:"points,omitempty"`
}

// Result holds the primary route plus any alternatives the engine offered.
// Only the primary route's metrics are authoritative.
type Result struct {
	Primary      Route   `json:"primary"`
	Alternatives []Route `json:"alternatives,omitempty"`
}
