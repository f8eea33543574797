// README: Pure geographic helpers: great-circle distance and containment tests.
package zone

import (
	"math"

	"fairride/internal/types"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle (haversine) distance in kilometres
// between two coordinates.
func DistanceKm(a, b types.Coordinate) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	rLat1 := degreesToRadians(a.Latitude)
	rLat2 := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// PathDistanceKm sums DistanceKm over consecutive points of path.
func PathDistanceKm(path []types.Coordinate) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += DistanceKm(path[i-1], path[i])
	}
	return total
}

// PointInPolygon runs the even-odd ray cast with longitude as x and latitude
// as y. An edge is crossed only when exactly one of its endpoints lies
// strictly above the ray, so points on the lower or left edge of a polygon
// count as inside and points on the upper or right edge as outside.
// Polygons with fewer than three vertices contain nothing.
func PointInPolygon(p types.Coordinate, poly Polygon) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	x, y := p.Longitude, p.Latitude
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := poly[i].Longitude, poly[i].Latitude
		xj, yj := poly[j].Longitude, poly[j].Latitude
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInCircle reports whether p is within radiusKm of center.
func PointInCircle(p, center types.Coordinate, radiusKm float64) bool {
	return DistanceKm(p, center) <= radiusKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
