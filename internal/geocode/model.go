// README: Geocoding result types.
package geocode

// UnknownPlace is the placeholder label used when a reverse lookup fails.
const UnknownPlace = "Unknown place"

// Place is one forward-search candidate, in service ranking order.
type Place struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category,omitempty"`
	// BoundingBox is south, north, west, east. All zeros when the service
	// did not provide one.
	BoundingBox [4]float64 `json:"bounding_box"`
}
