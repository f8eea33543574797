// README: Trip session state, completed trip records and their stored form.
package trip

import (
	"math"
	"time"

	"fairride/internal/modules/pricing"
	"fairride/internal/types"
)

type State string

const (
	StateIdle     State = "idle"
	StateTracking State = "tracking"
)

// TimestampLayout is the UTC millisecond ISO-8601 layout used for TripRecord.TimestampUTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// session is the mutable state of one ride. It lives only between Start and Stop.
type session struct {
	route                 []types.Coordinate
	startedInsideDowntown bool
	everEnteredDowntown   bool
	accumulatedKm         float64
	mtopID                string
	destinationLabel      string
	destination           types.Coordinate
}

// TripRecord is the immutable summary produced when a ride stops.
type TripRecord struct {
	Start            types.Coordinate   `json:"start"`
	End              types.Coordinate   `json:"end"`
	DestinationLabel string             `json:"destinationLabel"`
	MTOPID           string             `json:"mtopId"`
	DistanceKm       float64            `json:"distanceKm"`
	Fare             int                `json:"fare"`
	FareTiers        pricing.FareTiers  `json:"fareTiers"`
	TimestampUTC     string             `json:"timestampUtc"`
	Route            []types.Coordinate `json:"route"`
}

// StoredTrip is a TripRecord as persisted, with repository-assigned identity.
type StoredTrip struct {
	ID        types.ID   `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Record    TripRecord `json:"record"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Snapshot is a read-only view of the active session for live display.
type Snapshot struct {
	State               State             `json:"state"`
	RoutePoints         int               `json:"routePoints"`
	LiveDistanceKm      float64           `json:"liveDistanceKm"`
	EverEnteredDowntown bool              `json:"everEnteredDowntown"`
	StartedInside       bool              `json:"startedInsideDowntown"`
	MTOPID              string            `json:"mtopId,omitempty"`
	DestinationLabel    string            `json:"destinationLabel,omitempty"`
	Destination         *types.Coordinate `json:"destination,omitempty"`
	LastPosition        *types.Coordinate `json:"lastPosition,omitempty"`
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
