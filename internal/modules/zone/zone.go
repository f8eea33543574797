// README: Zone model answering downtown membership and fixed-fare lookups.
package zone

import "fairride/internal/types"

// Model is read-only after New and safe to share between goroutines.
type Model struct {
	boundary Polygon
	spots    []FixedFareSpot
}

func New(boundary Polygon, spots []FixedFareSpot) *Model {
	b := make(Polygon, len(boundary))
	copy(b, boundary)
	s := make([]FixedFareSpot, len(spots))
	copy(s, spots)
	return &Model{boundary: b, spots: s}
}

// IsDowntown reports whether p lies inside the downtown boundary.
func (m *Model) IsDowntown(p types.Coordinate) bool {
	return PointInPolygon(p, m.boundary)
}

// MatchFixedFare returns the fare of the first spot, in list order, whose
// circle contains p. Overlapping spots are not ranked by proximity.
func (m *Model) MatchFixedFare(p types.Coordinate) (float64, bool) {
	if spot, ok := m.MatchSpot(p); ok {
		return spot.Fare, true
	}
	return 0, false
}

// MatchSpot is MatchFixedFare returning the whole spot.
func (m *Model) MatchSpot(p types.Coordinate) (FixedFareSpot, bool) {
	for _, s := range m.spots {
		if PointInCircle(p, s.Center, s.RadiusKm) {
			return s, true
		}
	}
	return FixedFareSpot{}, false
}

// Boundary returns a copy of the downtown ring.
func (m *Model) Boundary() Polygon {
	b := make(Polygon, len(m.boundary))
	copy(b, m.boundary)
	return b
}

// Spots returns a copy of the fixed-fare spots in match order.
func (m *Model) Spots() []FixedFareSpot {
	s := make([]FixedFareSpot, len(m.spots))
	copy(s, m.spots)
	return s
}
