// README: Zone definitions: downtown boundary and fixed-fare override spots.
package zone

import "fairride/internal/types"

// Polygon is an implicitly closed ring; the last vertex connects to the first.
type Polygon []types.Coordinate

// FixedFareSpot is a flat-rate landmark (terminal, mall, capitol...).
type FixedFareSpot struct {
	Name     string           `json:"name"`
	Center   types.Coordinate `json:"center"`
	RadiusKm float64          `json:"radius_km"`
	Fare     float64          `json:"fare"`
}
