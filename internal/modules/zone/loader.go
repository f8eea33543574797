// README: Loads the downtown boundary (GeoJSON) and fixed-fare spots (JSON) from disk.
package zone

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fairride/internal/types"
)

var ErrNoPolygon = errors.New("no polygon feature in boundary file")

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type     string         `json:"type"`
	Geometry featureGeometry `json:"geometry"`
}

type featureGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// spotEntry is the on-disk shape of a fixed-fare destination; radius is in km.
type spotEntry struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	Fare      float64 `json:"fare"`
}

// LoadFile builds a Model from a GeoJSON boundary file and a spots file.
// Empty paths fall back to the built-in Koronadal defaults.
func LoadFile(boundaryPath, spotsPath string) (*Model, error) {
	boundary := DefaultBoundary()
	spots := DefaultSpots()

	if boundaryPath != "" {
		data, err := os.ReadFile(boundaryPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", boundaryPath, err)
		}
		boundary, err = ParseBoundary(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", boundaryPath, err)
		}
	}
	if spotsPath != "" {
		data, err := os.ReadFile(spotsPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", spotsPath, err)
		}
		spots, err = ParseSpots(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", spotsPath, err)
		}
	}
	return New(boundary, spots), nil
}

// ParseBoundary extracts the outer ring of the first Polygon feature.
// GeoJSON positions are [lng, lat].
func ParseBoundary(data []byte) (Polygon, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	for _, f := range fc.Features {
		if f.Geometry.Type != "Polygon" {
			continue
		}
		var rings [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return nil, ErrNoPolygon
		}
		ring := rings[0]
		poly := make(Polygon, 0, len(ring))
		for i, pos := range ring {
			if len(pos) < 2 {
				return nil, fmt.Errorf("position %d: expected [lng, lat]", i)
			}
			poly = append(poly, types.Coordinate{Latitude: pos[1], Longitude: pos[0]})
		}
		// GeoJSON rings repeat the first vertex; the model closes implicitly.
		if len(poly) > 1 && poly[0] == poly[len(poly)-1] {
			poly = poly[:len(poly)-1]
		}
		return poly, nil
	}
	return nil, ErrNoPolygon
}

// ParseSpots decodes a JSON array of fixed-fare destinations, keeping file order.
func ParseSpots(data []byte) ([]FixedFareSpot, error) {
	var entries []spotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	spots := make([]FixedFareSpot, 0, len(entries))
	for _, e := range entries {
		spots = append(spots, FixedFareSpot{
			Name:     e.Name,
			Center:   types.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude},
			RadiusKm: e.Radius,
			Fare:     e.Fare,
		})
	}
	return spots, nil
}
