// README: Tracker runs one rider's ride lifecycle: Idle -> Tracking -> Idle.
package trip

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"fairride/internal/modules/pricing"
	"fairride/internal/modules/zone"
	"fairride/internal/types"
)

// DefaultProjectionTimeout bounds the road projection call made by Stop.
const DefaultProjectionTimeout = 10 * time.Second

// RoadProjector snaps a raw GPS path onto the road network.
type RoadProjector interface {
	Project(ctx context.Context, path []types.Coordinate) ([]types.Coordinate, error)
}

// Tracker is safe for concurrent use. Start, Sample and Stop are serialized;
// Stop keeps the lock through projection so no sample lands mid-stop.
type Tracker struct {
	mu      sync.Mutex
	sess    *session
	timeout time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewTracker(log logrus.FieldLogger, projectionTimeout time.Duration) *Tracker {
	if projectionTimeout <= 0 {
		projectionTimeout = DefaultProjectionTimeout
	}
	return &Tracker{timeout: projectionTimeout, log: log, now: time.Now}
}

func (t *Tracker) Start(origin types.Coordinate, destination *types.Coordinate, destinationLabel, mtopID string, zones *zone.Model) error {
	if destination == nil || strings.TrimSpace(destinationLabel) == "" || strings.TrimSpace(mtopID) == "" {
		return ErrInvalidInput
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess != nil {
		return ErrAlreadyTracking
	}

	inside := zones.IsDowntown(origin)
	t.sess = &session{
		route:                 []types.Coordinate{origin},
		startedInsideDowntown: inside,
		everEnteredDowntown:   inside,
		mtopID:                strings.TrimSpace(mtopID),
		destinationLabel:      strings.TrimSpace(destinationLabel),
		destination:           *destination,
	}
	return nil
}

// Sample records a position and returns the resulting snapshot. It is
// ignored while Idle.
func (t *Tracker) Sample(p types.Coordinate, zones *zone.Model) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.sess
	if s == nil {
		return Snapshot{State: StateIdle}
	}

	if n := len(s.route); n > 0 {
		s.accumulatedKm += zone.DistanceKm(s.route[n-1], p)
	}
	s.route = append(s.route, p)
	if zones.IsDowntown(p) {
		s.everEnteredDowntown = true
	}
	return t.snapshotLocked()
}

// Stop ends the ride and prices it. A failed projection falls back to the raw route.
func (t *Tracker) Stop(ctx context.Context, zones *zone.Model, projector RoadProjector) (TripRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.sess
	if s == nil {
		return TripRecord{}, ErrNotTracking
	}
	// The session stays open so sampling can resume.
	if len(s.route) == 0 {
		return TripRecord{}, ErrEmptyRoute
	}

	route := t.project(ctx, projector, s.route)
	start, end := route[0], route[len(route)-1]
	km := zone.PathDistanceKm(route)

	res := pricing.Compute(pricing.FareInput{
		StartInside:         s.startedInsideDowntown,
		EndInside:           zones.IsDowntown(end),
		EverEnteredDowntown: s.everEnteredDowntown,
		DistanceKm:          km,
		StartFixedFare:      pricing.FixedFare(zones, start),
		EndFixedFare:        pricing.FixedFare(zones, end),
	})

	t.log.WithFields(logrus.Fields{
		"mtop_id":     s.mtopID,
		"rule":        res.Rule.String(),
		"distance_km": roundKm(km),
		"fare":        res.Fare,
	}).Info("trip priced")

	rec := TripRecord{
		Start:            start,
		End:              end,
		DestinationLabel: s.destinationLabel,
		MTOPID:           s.mtopID,
		DistanceKm:       roundKm(km),
		Fare:             res.Fare,
		FareTiers:        res.Tiers,
		TimestampUTC:     t.now().UTC().Format(TimestampLayout),
		Route:            route,
	}
	t.sess = nil
	return rec, nil
}

func (t *Tracker) project(ctx context.Context, projector RoadProjector, raw []types.Coordinate) []types.Coordinate {
	fallback := append([]types.Coordinate(nil), raw...)
	if projector == nil {
		return fallback
	}

	pctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	refined, err := projector.Project(pctx, fallback)
	if err != nil {
		t.log.WithError(err).WithField("points", len(raw)).Warn("road projection failed, using raw route")
		return fallback
	}
	if len(refined) == 0 {
		t.log.WithField("points", len(raw)).Warn("road projection returned no points, using raw route")
		return fallback
	}
	return refined
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return StateIdle
	}
	return StateTracking
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := t.sess
	if s == nil {
		return Snapshot{State: StateIdle}
	}

	dest := s.destination
	snap := Snapshot{
		State:               StateTracking,
		RoutePoints:         len(s.route),
		LiveDistanceKm:      roundKm(s.accumulatedKm),
		EverEnteredDowntown: s.everEnteredDowntown,
		StartedInside:       s.startedInsideDowntown,
		MTOPID:              s.mtopID,
		DestinationLabel:    s.destinationLabel,
		Destination:         &dest,
	}
	if n := len(s.route); n > 0 {
		last := s.route[n-1]
		snap.LastPosition = &last
	}
	return snap
}
