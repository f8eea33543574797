// README: Live rider position as mirrored into Redis GEO.
package location

import (
	"time"

	"fairride/internal/types"
)

type LivePosition struct {
	OwnerID    string           `json:"ownerId"`
	Position   types.Coordinate `json:"position"`
	DistanceKm float64          `json:"distanceKm"`
	SeenAt     *time.Time       `json:"seenAt,omitempty"`
}
