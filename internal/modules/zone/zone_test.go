package zone

import (
	"errors"
	"testing"

	"fairride/internal/types"
)

func TestModel_IsDowntown(t *testing.T) {
	m := New(square(), nil)
	if !m.IsDowntown(types.Coordinate{Latitude: 0.5, Longitude: 0.5}) {
		t.Error("expected center to be downtown")
	}
	if m.IsDowntown(types.Coordinate{Latitude: 2, Longitude: 2}) {
		t.Error("expected far point to be outside downtown")
	}
}

func TestModel_MatchFixedFare_FirstMatchWins(t *testing.T) {
	p := types.Coordinate{Latitude: 6.48, Longitude: 124.85}
	spots := []FixedFareSpot{
		{Name: "wide", Center: types.Coordinate{Latitude: 6.481, Longitude: 124.85}, RadiusKm: 1.0, Fare: 40},
		{Name: "exact", Center: p, RadiusKm: 0.5, Fare: 25},
	}
	m := New(square(), spots)

	fare, ok := m.MatchFixedFare(p)
	if !ok {
		t.Fatal("expected a match")
	}
	if fare != 40 {
		t.Errorf("fare = %v, want 40 (first listed spot)", fare)
	}

	reversed := New(square(), []FixedFareSpot{spots[1], spots[0]})
	fare, _ = reversed.MatchFixedFare(p)
	if fare != 25 {
		t.Errorf("reversed fare = %v, want 25", fare)
	}
}

func TestModel_MatchFixedFare_NoMatch(t *testing.T) {
	m := New(square(), DefaultSpots())
	if _, ok := m.MatchFixedFare(types.Coordinate{Latitude: 0.5, Longitude: 0.5}); ok {
		t.Error("expected no fixed-fare match")
	}
}

func TestModel_CopiesInput(t *testing.T) {
	boundary := square()
	spots := DefaultSpots()
	m := New(boundary, spots)

	boundary[0] = types.Coordinate{Latitude: 50, Longitude: 50}
	spots[0].Fare = 999

	if m.Boundary()[0] == boundary[0] {
		t.Error("model boundary changed with caller slice")
	}
	if m.Spots()[0].Fare == 999 {
		t.Error("model spots changed with caller slice")
	}
}

func TestDefaults_SpotsOutsideDowntown(t *testing.T) {
	m := New(DefaultBoundary(), DefaultSpots())
	for _, s := range m.Spots() {
		if m.IsDowntown(s.Center) {
			t.Errorf("spot %q should be outside downtown", s.Name)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [124.85, 6.5]}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[
				[124.83, 6.49], [124.86, 6.49], [124.86, 6.52], [124.83, 6.52], [124.83, 6.49]
			]]}}
		]
	}`)

	poly, err := ParseBoundary(data)
	if err != nil {
		t.Fatalf("ParseBoundary: %v", err)
	}
	if len(poly) != 4 {
		t.Fatalf("expected 4 vertices after dropping closing point, got %d", len(poly))
	}
	if poly[1].Latitude != 6.49 || poly[1].Longitude != 124.86 {
		t.Errorf("vertex order/axes wrong: %v", poly[1])
	}
	if !PointInPolygon(types.Coordinate{Latitude: 6.5, Longitude: 124.845}, poly) {
		t.Error("expected point inside parsed polygon")
	}
}

func TestParseBoundary_NoPolygon(t *testing.T) {
	data := []byte(`{"type": "FeatureCollection", "features": []}`)
	if _, err := ParseBoundary(data); !errors.Is(err, ErrNoPolygon) {
		t.Errorf("expected ErrNoPolygon, got %v", err)
	}
}

func TestParseSpots_KeepsOrder(t *testing.T) {
	data := []byte(`[
		{"name": "Mall", "latitude": 6.50, "longitude": 124.84, "radius": 0.2, "fare": 20},
		{"name": "Terminal", "latitude": 6.48, "longitude": 124.85, "radius": 0.3, "fare": 25}
	]`)
	spots, err := ParseSpots(data)
	if err != nil {
		t.Fatalf("ParseSpots: %v", err)
	}
	if len(spots) != 2 || spots[0].Name != "Mall" || spots[1].Name != "Terminal" {
		t.Fatalf("unexpected spots: %+v", spots)
	}
	if spots[1].RadiusKm != 0.3 || spots[1].Fare != 25 {
		t.Errorf("unexpected terminal spot: %+v", spots[1])
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	m, err := LoadFile("", "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(m.Spots()) != len(DefaultSpots()) {
		t.Errorf("expected default spots")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile("does-not-exist.geojson", ""); err == nil {
		t.Error("expected error for missing boundary file")
	}
}
