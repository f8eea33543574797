// README: Rider complaint reports against a tricycle operator.
package report

import (
	"errors"
	"io"
	"time"

	"fairride/internal/types"
)

type Type string

const (
	TypeOvercharging  Type = "overcharging"
	TypeUnsafeDriving Type = "unsafe_driving"
	TypeOthers        Type = "others"
)

var (
	ErrValidation = errors.New("report validation failed")
	ErrPhoto      = errors.New("photo upload failed")
)

// Photo is an uploaded evidence file that has not been stored yet.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Submission struct {
	OwnerID     string
	Type        Type
	CustomType  string
	MTOPID      string
	Description string
	PhotoURL    string
	Photo       *Photo
	Location    *types.Coordinate
	TripID      types.ID
}

type Report struct {
	ID          types.ID          `json:"id"`
	OwnerID     string            `json:"ownerId"`
	Type        string            `json:"type"`
	MTOPID      string            `json:"mtopId"`
	Description string            `json:"description"`
	PhotoURL    string            `json:"photoUrl,omitempty"`
	Location    *types.Coordinate `json:"location,omitempty"`
	TripID      types.ID          `json:"tripId,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
