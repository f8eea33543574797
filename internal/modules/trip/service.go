// README: Trip service keeps one Tracker per rider and persists finished trips.
package trip

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"fairride/internal/modules/registration"
	"fairride/internal/modules/zone"
	"fairride/internal/types"
)

const defaultHistoryLimit = 50

type Repository interface {
	Save(ctx context.Context, rec TripRecord, ownerID string) (types.ID, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]StoredTrip, error)
	Get(ctx context.Context, id types.ID, ownerID string) (*StoredTrip, error)
}

type EventPublisher interface {
	PublishCompleted(ctx context.Context, id types.ID, ownerID string, rec TripRecord) error
}

// LivePositions mirrors active riders' last known position.
type LivePositions interface {
	SetLive(ctx context.Context, ownerID string, p types.Coordinate) error
	RemoveLive(ctx context.Context, ownerID string) error
}

type RegistrationChecker interface {
	Check(ctx context.Context, mtopID string) registration.Status
}

// Deps wires the service. Projector, Events, Live and Registry are optional.
type Deps struct {
	Repo              Repository
	Zones             *zone.Model
	Projector         RoadProjector
	Events            EventPublisher
	Live              LivePositions
	Registry          RegistrationChecker
	ProjectionTimeout time.Duration
	Log               logrus.FieldLogger
}

type Service struct {
	deps Deps

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps, trackers: make(map[string]*Tracker)}
}

type StartCommand struct {
	OwnerID          string
	Origin           types.Coordinate
	Destination      *types.Coordinate
	DestinationLabel string
	MTOPID           string
}

type StartResult struct {
	Registration registration.Status `json:"registration"`
	Snapshot     Snapshot            `json:"snapshot"`
}

type StopResult struct {
	ID     types.ID   `json:"id,omitempty"`
	Record TripRecord `json:"record"`
	Saved  bool       `json:"saved"`
}

// lookup never creates a tracker; only Start does, so ids that never started
// a ride leave no trace in the map.
func (s *Service) lookup(ownerID string) (*Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[ownerID]
	return t, ok
}

func (s *Service) tracker(ownerID string) *Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[ownerID]
	if !ok {
		t = NewTracker(s.deps.Log.WithField("owner_id", ownerID), s.deps.ProjectionTimeout)
		s.trackers[ownerID] = t
	}
	return t
}

func (s *Service) Start(ctx context.Context, cmd StartCommand) (StartResult, error) {
	if strings.TrimSpace(cmd.OwnerID) == "" || !cmd.Origin.Valid() {
		return StartResult{}, ErrInvalidInput
	}
	if cmd.Destination == nil || !cmd.Destination.Valid() {
		return StartResult{}, ErrInvalidInput
	}
	if strings.TrimSpace(cmd.DestinationLabel) == "" || strings.TrimSpace(cmd.MTOPID) == "" {
		return StartResult{}, ErrInvalidInput
	}

	t := s.tracker(cmd.OwnerID)
	if err := t.Start(cmd.Origin, cmd.Destination, cmd.DestinationLabel, cmd.MTOPID, s.deps.Zones); err != nil {
		return StartResult{}, err
	}
	s.mirror(ctx, cmd.OwnerID, cmd.Origin)

	status := registration.StatusUnknown
	if s.deps.Registry != nil {
		status = s.deps.Registry.Check(ctx, strings.TrimSpace(cmd.MTOPID))
	}
	s.deps.Log.WithFields(logrus.Fields{
		"owner_id":     cmd.OwnerID,
		"mtop_id":      cmd.MTOPID,
		"registration": status,
	}).Info("trip started")

	return StartResult{Registration: status, Snapshot: t.Snapshot()}, nil
}

// Sample feeds a position to the rider's tracker. Positions for riders with
// no active trip are dropped.
func (s *Service) Sample(ctx context.Context, ownerID string, p types.Coordinate) (Snapshot, error) {
	if strings.TrimSpace(ownerID) == "" || !p.Valid() {
		return Snapshot{}, ErrInvalidInput
	}
	t, ok := s.lookup(ownerID)
	if !ok {
		return Snapshot{State: StateIdle}, nil
	}
	snap := t.Sample(p, s.deps.Zones)
	if snap.State == StateTracking {
		s.mirror(ctx, ownerID, p)
	}
	return snap, nil
}

// Stop prices the ride and saves it. On a storage failure the computed record
// is still returned alongside an error wrapping ErrStorage.
func (s *Service) Stop(ctx context.Context, ownerID string) (StopResult, error) {
	if strings.TrimSpace(ownerID) == "" {
		return StopResult{}, ErrInvalidInput
	}
	t, ok := s.lookup(ownerID)
	if !ok {
		return StopResult{}, ErrNotTracking
	}
	rec, err := t.Stop(ctx, s.deps.Zones, s.deps.Projector)
	if err != nil {
		return StopResult{}, err
	}

	if s.deps.Live != nil {
		if err := s.deps.Live.RemoveLive(ctx, ownerID); err != nil {
			s.deps.Log.WithError(err).WithField("owner_id", ownerID).Warn("remove live position")
		}
	}

	res := StopResult{Record: rec}
	id, err := s.deps.Repo.Save(ctx, rec, ownerID)
	if err != nil {
		s.deps.Log.WithError(err).WithField("owner_id", ownerID).Error("save trip")
		return res, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	res.ID, res.Saved = id, true

	if s.deps.Events != nil {
		if err := s.deps.Events.PublishCompleted(ctx, id, ownerID, rec); err != nil {
			s.deps.Log.WithError(err).WithField("trip_id", id).Warn("publish trip completed")
		}
	}
	return res, nil
}

func (s *Service) Current(ownerID string) Snapshot {
	t, ok := s.lookup(ownerID)
	if !ok {
		return Snapshot{State: StateIdle}
	}
	return t.Snapshot()
}

func (s *Service) History(ctx context.Context, ownerID string, limit int) ([]StoredTrip, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.deps.Repo.ListByOwner(ctx, ownerID, limit)
}

func (s *Service) Get(ctx context.Context, id types.ID, ownerID string) (*StoredTrip, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return s.deps.Repo.Get(ctx, id, ownerID)
}

func (s *Service) mirror(ctx context.Context, ownerID string, p types.Coordinate) {
	if s.deps.Live == nil {
		return
	}
	if err := s.deps.Live.SetLive(ctx, ownerID, p); err != nil {
		s.deps.Log.WithError(err).WithField("owner_id", ownerID).Warn("mirror live position")
	}
}
