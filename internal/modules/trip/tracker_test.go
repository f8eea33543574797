package trip

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"fairride/internal/modules/zone"
	"fairride/internal/types"
)

var (
	downtown   = types.Coordinate{Latitude: 6.5030, Longitude: 124.8480}
	northOfCBD = types.Coordinate{Latitude: 6.54077, Longitude: 124.8480}
	terminal   = types.Coordinate{Latitude: 6.4810, Longitude: 124.8545}
	southRoad  = types.Coordinate{Latitude: 6.4700, Longitude: 124.8545}
	dest       = types.Coordinate{Latitude: 6.5400, Longitude: 124.8480}
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testZones() *zone.Model {
	return zone.New(zone.DefaultBoundary(), zone.DefaultSpots())
}

type fixedProjector struct {
	path []types.Coordinate
	err  error
}

func (p fixedProjector) Project(context.Context, []types.Coordinate) ([]types.Coordinate, error) {
	return p.path, p.err
}

type blockingProjector struct{}

func (blockingProjector) Project(ctx context.Context, _ []types.Coordinate) ([]types.Coordinate, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func startedTracker(t *testing.T, origin types.Coordinate) *Tracker {
	t.Helper()
	tr := NewTracker(testLogger(), time.Second)
	if err := tr.Start(origin, &dest, "Capitol", "MTOP-0042", testZones()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return tr
}

func TestTracker_StartValidation(t *testing.T) {
	cases := []struct {
		name  string
		dest  *types.Coordinate
		label string
		mtop  string
	}{
		{name: "missing destination", dest: nil, label: "Capitol", mtop: "MTOP-1"},
		{name: "blank label", dest: &dest, label: "   ", mtop: "MTOP-1"},
		{name: "blank mtop", dest: &dest, label: "Capitol", mtop: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracker(testLogger(), 0)
			err := tr.Start(downtown, tc.dest, tc.label, tc.mtop, testZones())
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Start() error = %v, want ErrInvalidInput", err)
			}
			if tr.State() != StateIdle {
				t.Errorf("State() = %s, want idle", tr.State())
			}
		})
	}
}

func TestTracker_StartTwice(t *testing.T) {
	tr := startedTracker(t, downtown)
	err := tr.Start(southRoad, &dest, "Elsewhere", "MTOP-9", testZones())
	if !errors.Is(err, ErrAlreadyTracking) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyTracking", err)
	}
	snap := tr.Snapshot()
	if snap.MTOPID != "MTOP-0042" || snap.RoutePoints != 1 {
		t.Errorf("session changed by rejected Start: %+v", snap)
	}
}

func TestTracker_SampleWhileIdleIsIgnored(t *testing.T) {
	tr := NewTracker(testLogger(), 0)
	if snap := tr.Sample(downtown, testZones()); snap.State != StateIdle {
		t.Errorf("Sample() snapshot state = %s, want idle", snap.State)
	}
	if tr.State() != StateIdle {
		t.Fatalf("State() = %s, want idle", tr.State())
	}
	if snap := tr.Snapshot(); snap.RoutePoints != 0 {
		t.Errorf("Snapshot().RoutePoints = %d, want 0", snap.RoutePoints)
	}
}

func TestTracker_SampleAccumulates(t *testing.T) {
	zones := testZones()
	tr := startedTracker(t, southRoad)
	if tr.Snapshot().EverEnteredDowntown {
		t.Fatal("ride starting outside should not have entered downtown yet")
	}

	tr.Sample(terminal, zones)
	tr.Sample(downtown, zones)
	returned := tr.Sample(northOfCBD, zones)

	snap := tr.Snapshot()
	if returned.RoutePoints != snap.RoutePoints || returned.LiveDistanceKm != snap.LiveDistanceKm {
		t.Errorf("Sample() snapshot = %+v, Snapshot() = %+v", returned, snap)
	}
	want := roundKm(zone.PathDistanceKm([]types.Coordinate{southRoad, terminal, downtown, northOfCBD}))
	if snap.RoutePoints != 4 {
		t.Errorf("RoutePoints = %d, want 4", snap.RoutePoints)
	}
	if snap.LiveDistanceKm != want {
		t.Errorf("LiveDistanceKm = %v, want %v", snap.LiveDistanceKm, want)
	}
	if !snap.EverEnteredDowntown {
		t.Error("EverEnteredDowntown should latch after a downtown sample")
	}
	if snap.LastPosition == nil || *snap.LastPosition != northOfCBD {
		t.Errorf("LastPosition = %v, want %v", snap.LastPosition, northOfCBD)
	}
}

func TestTracker_StopDowntownToOutside(t *testing.T) {
	zones := testZones()
	tr := startedTracker(t, downtown)
	tr.now = func() time.Time { return time.Date(2026, 3, 1, 16, 30, 0, 0, time.FixedZone("PHT", 8*3600)) }
	tr.Sample(types.Coordinate{Latitude: 6.5200, Longitude: 124.8481}, zones)
	tr.Sample(northOfCBD, zones)

	rec, err := tr.Stop(context.Background(), zones, fixedProjector{path: []types.Coordinate{downtown, northOfCBD}})
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if math.Abs(rec.DistanceKm-4.2) > 0.01 {
		t.Errorf("DistanceKm = %v, want ~4.2", rec.DistanceKm)
	}
	if rec.Fare != 23 {
		t.Errorf("Fare = %d, want 23", rec.Fare)
	}
	if rec.FareTiers.TierA != 20 || rec.FareTiers.TierB != 18 || rec.FareTiers.TierC != 16 {
		t.Errorf("FareTiers = %+v, want 20/18/16", rec.FareTiers)
	}
	if rec.Start != downtown || rec.End != northOfCBD || len(rec.Route) != 2 {
		t.Errorf("record should use the projected route, got start=%v end=%v points=%d", rec.Start, rec.End, len(rec.Route))
	}
	if rec.TimestampUTC != "2026-03-01T08:30:00.000Z" {
		t.Errorf("TimestampUTC = %q", rec.TimestampUTC)
	}
	if rec.DestinationLabel != "Capitol" || rec.MTOPID != "MTOP-0042" {
		t.Errorf("labels = %q/%q", rec.DestinationLabel, rec.MTOPID)
	}
	if tr.State() != StateIdle {
		t.Errorf("State() after Stop = %s, want idle", tr.State())
	}
}

func TestTracker_StopOutsideToFixedSpotIsMetered(t *testing.T) {
	zones := testZones()
	tr := startedTracker(t, southRoad)
	tr.Sample(terminal, zones)

	rec, err := tr.Stop(context.Background(), zones, nil)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if rec.Fare != 17 {
		t.Errorf("Fare = %d, want 17 (metered, spot fare applies only from downtown)", rec.Fare)
	}
}

func TestTracker_StopEmptyRouteKeepsSession(t *testing.T) {
	zones := testZones()
	tr := NewTracker(testLogger(), 0)
	tr.sess = &session{mtopID: "MTOP-1", destinationLabel: "Capitol", destination: dest}

	if _, err := tr.Stop(context.Background(), zones, nil); !errors.Is(err, ErrEmptyRoute) {
		t.Fatalf("Stop() error = %v, want ErrEmptyRoute", err)
	}
	if tr.State() != StateTracking {
		t.Fatalf("State() = %s, want tracking after empty-route stop", tr.State())
	}
	if snap := tr.Snapshot(); snap.RoutePoints != 0 || snap.LastPosition != nil {
		t.Errorf("Snapshot() = %+v, want no points", snap)
	}

	tr.Sample(downtown, zones)
	rec, err := tr.Stop(context.Background(), zones, nil)
	if err != nil {
		t.Fatalf("Stop() after resampling error = %v", err)
	}
	if rec.Fare != 15 || len(rec.Route) != 1 {
		t.Errorf("record = %+v, want single-point downtown fare 15", rec)
	}
}

func TestTracker_DoubleStop(t *testing.T) {
	tr := startedTracker(t, downtown)
	if _, err := tr.Stop(context.Background(), testZones(), nil); err != nil {
		t.Fatalf("first Stop() error = %v", err)
	}
	if _, err := tr.Stop(context.Background(), testZones(), nil); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("second Stop() error = %v, want ErrNotTracking", err)
	}
}

func TestTracker_ProjectionFallback(t *testing.T) {
	cases := []struct {
		name      string
		projector RoadProjector
	}{
		{name: "projector error", projector: fixedProjector{err: errors.New("roads api: 503")}},
		{name: "empty projection", projector: fixedProjector{path: []types.Coordinate{}}},
		{name: "projection timeout", projector: blockingProjector{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			zones := testZones()
			tr := NewTracker(testLogger(), 20*time.Millisecond)
			if err := tr.Start(downtown, &dest, "Capitol", "MTOP-1", zones); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			tr.Sample(northOfCBD, zones)

			rec, err := tr.Stop(context.Background(), zones, tc.projector)
			if err != nil {
				t.Fatalf("Stop() error = %v", err)
			}
			if len(rec.Route) != 2 || rec.Start != downtown || rec.End != northOfCBD {
				t.Errorf("expected raw route, got %v", rec.Route)
			}
			if rec.Fare != 23 {
				t.Errorf("Fare = %d, want 23", rec.Fare)
			}
		})
	}
}

func TestTracker_ConcurrentSamples(t *testing.T) {
	zones := testZones()
	tr := startedTracker(t, downtown)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Sample(types.Coordinate{Latitude: 6.5030 + float64(i)*0.0001, Longitude: 124.8480}, zones)
		}(i)
	}
	wg.Wait()

	rec, err := tr.Stop(context.Background(), zones, nil)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(rec.Route) != n+1 {
		t.Errorf("route length = %d, want %d", len(rec.Route), n+1)
	}
}

func TestTripRecord_JSONFields(t *testing.T) {
	tr := startedTracker(t, downtown)
	rec, err := tr.Stop(context.Background(), testZones(), nil)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"start", "end", "destinationLabel", "mtopId", "distanceKm", "fare", "fareTiers", "timestampUtc", "route"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing JSON field %q in %s", key, raw)
		}
	}
	tiers, _ := m["fareTiers"].(map[string]any)
	for _, key := range []string{"tierA", "tierB", "tierC"} {
		if _, ok := tiers[key]; !ok {
			t.Errorf("missing fareTiers field %q", key)
		}
	}
}
