// README: Destination search backed by Places Autocomplete and Place Details.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"fairride/internal/types"
)

// DefaultCountry restricts autocomplete results to the Philippines.
const DefaultCountry = "ph"

var ErrPlaceNotFound = errors.New("place not found")

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	PlaceID       string `json:"placeId"`
	Description   string `json:"description"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
}

// Place represents a resolved destination.
type Place struct {
	PlaceID  string           `json:"placeId"`
	Name     string           `json:"name"`
	Address  string           `json:"address"`
	Location types.Coordinate `json:"location"`
}

type placesAPI interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client  placesAPI
	country string
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey, country string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	if country == "" {
		country = DefaultCountry
	}
	return &PlacesService{client: client, country: country}, nil
}

// Autocomplete returns predictions for the typed input. near, when set, biases
// results toward the rider's position.
func (s *PlacesService) Autocomplete(ctx context.Context, input string, near *types.Coordinate) ([]Suggestion, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	r := &maps.PlaceAutocompleteRequest{
		Input:      input,
		Components: map[maps.Component][]string{maps.ComponentCountry: {s.country}},
	}
	if near != nil {
		r.Location = &maps.LatLng{Lat: near.Latitude, Lng: near.Longitude}
		r.Radius = 20000
	}

	resp, err := s.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return out, nil
}

// Details resolves a place id to its coordinates.
func (s *PlacesService) Details(ctx context.Context, placeID string) (Place, error) {
	if strings.TrimSpace(placeID) == "" {
		return Place{}, ErrPlaceNotFound
	}
	res, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") || strings.Contains(err.Error(), "INVALID_REQUEST") {
			return Place{}, ErrPlaceNotFound
		}
		return Place{}, fmt.Errorf("places api error: %w", err)
	}
	return Place{
		PlaceID:  placeID,
		Name:     res.Name,
		Address:  res.FormattedAddress,
		Location: fromLatLng(res.Geometry.Location),
	}, nil
}
