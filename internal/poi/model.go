// README: Point-of-interest record and category definitions.
package poi

import "fable/internal/types"

// unnamedPlaceholder is the fallback display name for records with neither a
// name nor a description tag. Records that end up with this name are dropped.
const unnamedPlaceholder = "Unnamed place"

// tourismCategories and historicCategories are the fixed interest filters
// sent to the tagged-data service.
var (
	tourismCategories  = []string{"museum", "attraction", "artwork", "viewpoint"}
	historicCategories = []string{"castle", "ruins", "memorial", "monument"}
)

// PointOfInterest is a normalized snapshot of one tagged geographic feature.
type PointOfInterest struct {
	ID          string           `json:"id"`
	Position    types.Coordinate `json:"position"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Website     string           `json:"website,omitempty"`
	Description string           `json:"description,omitempty"`
	Address     string           `json:"address,omitempty"`
}
