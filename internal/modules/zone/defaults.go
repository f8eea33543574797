// README: Built-in Koronadal City downtown boundary and fixed-fare destinations.
package zone

import "fairride/internal/types"

// DefaultBoundary approximates the Koronadal poblacion core.
func DefaultBoundary() Polygon {
	return Polygon{
		{Latitude: 6.4895, Longitude: 124.8370},
		{Latitude: 6.4890, Longitude: 124.8580},
		{Latitude: 6.5040, Longitude: 124.8625},
		{Latitude: 6.5160, Longitude: 124.8540},
		{Latitude: 6.5150, Longitude: 124.8375},
		{Latitude: 6.5020, Longitude: 124.8320},
	}
}

// DefaultSpots lists flat-rate destinations in match order.
func DefaultSpots() []FixedFareSpot {
	return []FixedFareSpot{
		{Name: "Integrated Bus Terminal", Center: types.Coordinate{Latitude: 6.4810, Longitude: 124.8545}, RadiusKm: 0.3, Fare: 25},
		{Name: "Provincial Capitol", Center: types.Coordinate{Latitude: 6.5270, Longitude: 124.8430}, RadiusKm: 0.4, Fare: 30},
		{Name: "Regional Hospital", Center: types.Coordinate{Latitude: 6.4960, Longitude: 124.8715}, RadiusKm: 0.25, Fare: 25},
	}
}
