// README: Trace loading and replay; one tracker per trace, results compared against the expected fare.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"fairride/internal/modules/trip"
	"fairride/internal/modules/zone"
	"fairride/internal/types"
)

// Trace is a recorded ride. ExpectFare is optional; zero skips the check.
type Trace struct {
	Name             string             `json:"name"`
	MTOPID           string             `json:"mtopId"`
	DestinationLabel string             `json:"destinationLabel"`
	ExpectFare       int                `json:"expectFare"`
	Points           []types.Coordinate `json:"points"`
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Record  trip.TripRecord
	Note    string
}

type Runner struct {
	zones     *zone.Model
	projector trip.RoadProjector
	timeout   time.Duration
	log       logrus.FieldLogger
}

func NewRunner(zones *zone.Model, projector trip.RoadProjector, timeout time.Duration, log logrus.FieldLogger) *Runner {
	return &Runner{zones: zones, projector: projector, timeout: timeout, log: log}
}

func (r *Runner) RunAll(ctx context.Context, traces []Trace) []Result {
	results := make([]Result, 0, len(traces))
	for _, tr := range traces {
		res := r.Replay(ctx, tr)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, res.Name)
		if res.Status == "PASS" || res.Record.Fare > 0 {
			fmt.Printf(" fare=%d km=%.2f tiers=%d/%d/%d points=%d (%s)",
				res.Record.Fare, res.Record.DistanceKm,
				res.Record.FareTiers.TierA, res.Record.FareTiers.TierB, res.Record.FareTiers.TierC,
				len(res.Record.Route), res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) Replay(ctx context.Context, tr Trace) Result {
	res := Result{Name: tr.Name}
	if len(tr.Points) == 0 {
		res.Status, res.Note = "FAIL", "trace has no points"
		return res
	}

	tracker := trip.NewTracker(r.log.WithField("trace", tr.Name), r.timeout)
	dest := tr.Points[len(tr.Points)-1]
	if err := tracker.Start(tr.Points[0], &dest, tr.DestinationLabel, tr.MTOPID, r.zones); err != nil {
		res.Status, res.Note = "FAIL", err.Error()
		return res
	}
	for _, p := range tr.Points[1:] {
		tracker.Sample(p, r.zones)
	}

	started := time.Now()
	rec, err := tracker.Stop(ctx, r.zones, r.projector)
	res.Latency = time.Since(started)
	res.Record = rec
	if err != nil {
		res.Status, res.Note = "FAIL", err.Error()
		return res
	}
	if tr.ExpectFare > 0 && rec.Fare != tr.ExpectFare {
		res.Status, res.Note = "FAIL", fmt.Sprintf("expected fare %d", tr.ExpectFare)
		return res
	}
	res.Status = "PASS"
	return res
}

func loadTrace(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, err
	}
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return Trace{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if tr.Name == "" {
		tr.Name = path
	}
	for i, p := range tr.Points {
		if !p.Valid() {
			return Trace{}, fmt.Errorf("point %d: %w", i, errInvalidPoint)
		}
	}
	return tr, nil
}

var errInvalidPoint = errors.New("coordinate out of range")

// builtinTraces are short Koronadal rides covering the main fare branches.
func builtinTraces() []Trace {
	return []Trace{
		{
			Name:             "within downtown",
			MTOPID:           "KOR-DEMO-1",
			DestinationLabel: "Public Market",
			ExpectFare:       15,
			Points: []types.Coordinate{
				{Latitude: 6.5030, Longitude: 124.8480},
				{Latitude: 6.5060, Longitude: 124.8470},
				{Latitude: 6.5100, Longitude: 124.8450},
			},
		},
		{
			Name:             "downtown to bus terminal",
			MTOPID:           "KOR-DEMO-2",
			DestinationLabel: "Integrated Bus Terminal",
			ExpectFare:       25,
			Points: []types.Coordinate{
				{Latitude: 6.5030, Longitude: 124.8480},
				{Latitude: 6.4950, Longitude: 124.8510},
				{Latitude: 6.4810, Longitude: 124.8545},
			},
		},
		{
			Name:             "south road outside downtown",
			MTOPID:           "KOR-DEMO-3",
			DestinationLabel: "Barangay Morales",
			Points: []types.Coordinate{
				{Latitude: 6.4700, Longitude: 124.8545},
				{Latitude: 6.4600, Longitude: 124.8550},
				{Latitude: 6.4500, Longitude: 124.8560},
			},
		},
	}
}
