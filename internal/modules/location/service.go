// README: Location service mirrors active trips for the operator's live view.
package location

import (
	"context"
	"errors"
	"time"

	"fairride/internal/types"
)

const (
	DefaultRadiusKm = 2.0
	MaxRadiusKm     = 50.0
	maxResults      = 100
)

var ErrInvalidQuery = errors.New("invalid live position query")

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) SetLive(ctx context.Context, ownerID string, p types.Coordinate) error {
	if ownerID == "" || !p.Valid() {
		return ErrInvalidQuery
	}
	return s.store.SetGeo(ctx, ownerID, p, s.now())
}

func (s *Service) RemoveLive(ctx context.Context, ownerID string) error {
	return s.store.Remove(ctx, ownerID)
}

// Nearby lists active riders within radiusKm of center, closest first.
// A zero radius means DefaultRadiusKm.
func (s *Service) Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]LivePosition, error) {
	if !center.Valid() || radiusKm < 0 || radiusKm > MaxRadiusKm {
		return nil, ErrInvalidQuery
	}
	if radiusKm == 0 {
		radiusKm = DefaultRadiusKm
	}
	return s.store.Search(ctx, center, radiusKm, maxResults)
}
