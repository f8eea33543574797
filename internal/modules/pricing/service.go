// README: Pricing service: the fare precedence table, discount tiers, pre-trip estimates and the fare matrix.
package pricing

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"fairride/internal/modules/zone"
	"fairride/internal/types"
)

// DistanceEstimator returns the road distance between two points.
type DistanceEstimator interface {
	RoadDistanceKm(ctx context.Context, origin, destination types.Coordinate) (float64, error)
}

type Service struct {
	store    *Store
	zones    *zone.Model
	distance DistanceEstimator
	log      logrus.FieldLogger
}

func NewService(store *Store, zones *zone.Model, distance DistanceEstimator, log logrus.FieldLogger) *Service {
	return &Service{store: store, zones: zones, distance: distance, log: log}
}

// Compute applies the fare precedence table. The first matching rule wins,
// so the order of the branches below is part of the pricing policy.
func Compute(in FareInput) FareResult {
	var raw float64
	var rule Rule

	switch {
	case in.StartInside && in.EndFixedFare != nil:
		raw, rule = *in.EndFixedFare, RuleDowntownToFixed
	case !in.StartInside && in.EndInside && in.StartFixedFare != nil:
		raw, rule = *in.StartFixedFare, RuleFixedToDowntown
	case !in.StartInside && in.EndInside:
		raw, rule = in.DistanceKm*RatePerKm+BaseFare, RuleIntoDowntown
	case in.StartInside && !in.EndInside:
		raw, rule = BaseFare+in.DistanceKm*RatePerKm, RuleOutOfDowntown
	case in.StartInside && in.EndInside:
		raw, rule = FlatInside, RuleWithinDowntown
	case !in.StartInside && !in.EndInside && in.EverEnteredDowntown:
		// Same formula as the next branch today; kept apart so the two can be tuned independently.
		raw, rule = in.DistanceKm*RatePerKm+BaseFare, RuleThroughDowntown
	default:
		raw, rule = in.DistanceKm*RatePerKm+BaseFare, RuleOutsideDowntown
	}

	fare := roundHalfUp(raw)
	return FareResult{Fare: fare, Tiers: Tiers(fare), Rule: rule}
}

// Tiers derives each discount level from the previous one, floored at zero.
func Tiers(fare int) FareTiers {
	a := max(fare-3, 0)
	b := max(a-2, 0)
	c := max(b-2, 0)
	return FareTiers{TierA: a, TierB: b, TierC: c}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Estimate quotes a fare before the ride starts. Road distance comes from the
// distance estimator; when it is unavailable the great-circle distance is used.
func (s *Service) Estimate(ctx context.Context, origin, destination types.Coordinate) (Estimate, error) {
	if !origin.Valid() || !destination.Valid() {
		return Estimate{}, ErrInvalidCoordinate
	}

	km := zone.DistanceKm(origin, destination)
	road := false
	if s.distance != nil {
		d, err := s.distance.RoadDistanceKm(ctx, origin, destination)
		if err == nil {
			km, road = d, true
		} else {
			s.log.WithError(err).Warn("road distance unavailable, using great-circle distance")
		}
	}

	startInside := s.zones.IsDowntown(origin)
	in := FareInput{
		StartInside:         startInside,
		EndInside:           s.zones.IsDowntown(destination),
		EverEnteredDowntown: startInside,
		DistanceKm:          km,
		StartFixedFare:      fixedFare(s.zones, origin),
		EndFixedFare:        fixedFare(s.zones, destination),
	}
	res := Compute(in)

	return Estimate{
		Origin:       origin,
		Destination:  destination,
		DistanceKm:   km,
		RoadDistance: road,
		Fare:         res.Fare,
		Tiers:        res.Tiers,
		Rule:         res.Rule,
	}, nil
}

// Matrix returns the published fare table with tiers filled in.
func (s *Service) Matrix(ctx context.Context) ([]MatrixEntry, error) {
	entries, err := s.store.ListMatrix(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Tiers = Tiers(entries[i].Fare)
	}
	return entries, nil
}

// FixedFare wraps zone.Model.MatchFixedFare into the pointer form FareInput uses.
func FixedFare(zones *zone.Model, p types.Coordinate) *float64 {
	return fixedFare(zones, p)
}

func fixedFare(zones *zone.Model, p types.Coordinate) *float64 {
	if f, ok := zones.MatchFixedFare(p); ok {
		return &f
	}
	return nil
}
