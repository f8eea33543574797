// README: Road projection (Roads API snap-to-roads) and driving distance (Distance Matrix).
package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"fairride/internal/types"
)

// MaxSnapPoints is the Roads API limit on points per snap-to-roads request.
const MaxSnapPoints = 100

var (
	ErrProjection = errors.New("road projection failed")
	ErrNoRoute    = errors.New("no route found")
)

type routeAPI interface {
	SnapToRoad(ctx context.Context, r *maps.SnapToRoadRequest) (*maps.SnapToRoadResponse, error)
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// RouteService handles interactions with the Google Roads and Distance Matrix APIs.
type RouteService struct {
	client routeAPI
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Project snaps a GPS path onto roads with interpolation. Paths shorter than
// two points are returned unchanged. Long paths are sent in chunks that share
// their boundary point so the snapped route stays continuous.
func (s *RouteService) Project(ctx context.Context, path []types.Coordinate) ([]types.Coordinate, error) {
	if len(path) < 2 {
		return path, nil
	}

	var out []types.Coordinate
	for start := 0; start < len(path)-1; start += MaxSnapPoints - 1 {
		end := min(start+MaxSnapPoints, len(path))
		resp, err := s.client.SnapToRoad(ctx, &maps.SnapToRoadRequest{
			Path:        toLatLngs(path[start:end]),
			Interpolate: true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProjection, err)
		}
		for _, sp := range resp.SnappedPoints {
			c := fromLatLng(sp.Location)
			if n := len(out); n > 0 && out[n-1] == c {
				continue
			}
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no snapped points", ErrProjection)
	}
	return out, nil
}

// RoadDistanceKm returns the driving distance between two points.
func (s *RouteService) RoadDistanceKm(ctx context.Context, origin, destination types.Coordinate) (float64, error) {
	resp, err := s.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{latLngString(origin)},
		Destinations: []string{latLngString(destination)},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	})
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, ErrNoRoute
	}
	el := resp.Rows[0].Elements[0]
	if el == nil || el.Status != "OK" {
		return 0, ErrNoRoute
	}
	return float64(el.Distance.Meters) / 1000, nil
}

func toLatLngs(path []types.Coordinate) []maps.LatLng {
	out := make([]maps.LatLng, len(path))
	for i, c := range path {
		out[i] = maps.LatLng{Lat: c.Latitude, Lng: c.Longitude}
	}
	return out
}

func fromLatLng(ll maps.LatLng) types.Coordinate {
	return types.Coordinate{Latitude: ll.Lat, Longitude: ll.Lng}
}

func latLngString(c types.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}
