// README: Trip handlers: start/sample/stop, live snapshot and history.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fairride/internal/http/middleware"
	"fairride/internal/modules/trip"
	"fairride/internal/types"
)

type TripService interface {
	Start(ctx context.Context, cmd trip.StartCommand) (trip.StartResult, error)
	Sample(ctx context.Context, ownerID string, p types.Coordinate) (trip.Snapshot, error)
	Stop(ctx context.Context, ownerID string) (trip.StopResult, error)
	Current(ownerID string) trip.Snapshot
	History(ctx context.Context, ownerID string, limit int) ([]trip.StoredTrip, error)
	Get(ctx context.Context, id types.ID, ownerID string) (*trip.StoredTrip, error)
}

type TripHandler struct {
	trips TripService
}

func NewTripHandler(svc TripService) *TripHandler {
	return &TripHandler{trips: svc}
}

type startTripReq struct {
	Origin           *coordinateReq `json:"origin"`
	Destination      *coordinateReq `json:"destination"`
	DestinationLabel string         `json:"destinationLabel"`
	MTOPID           string         `json:"mtopId"`
}

func (h *TripHandler) Start(c *gin.Context) {
	var req startTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	origin, ok := req.Origin.toCoordinate()
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid origin")
		return
	}
	var dest *types.Coordinate
	if req.Destination != nil {
		d, ok := req.Destination.toCoordinate()
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid destination")
			return
		}
		dest = &d
	}

	res, err := h.trips.Start(c.Request.Context(), trip.StartCommand{
		OwnerID:          middleware.CallerUID(c),
		Origin:           origin,
		Destination:      dest,
		DestinationLabel: req.DestinationLabel,
		MTOPID:           req.MTOPID,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

func (h *TripHandler) Sample(c *gin.Context) {
	var req coordinateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, ok := req.toCoordinate()
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid position")
		return
	}
	snap, err := h.trips.Sample(c.Request.Context(), middleware.CallerUID(c), p)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

// Stop answers 202 with saved=false when the record was computed but could not
// be stored, so the rider still sees the fare.
func (h *TripHandler) Stop(c *gin.Context) {
	res, err := h.trips.Stop(c.Request.Context(), middleware.CallerUID(c))
	if errors.Is(err, trip.ErrStorage) {
		_ = c.Error(err)
		writeJSON(c, http.StatusAccepted, res)
		return
	}
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *TripHandler) Current(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.trips.Current(middleware.CallerUID(c)))
}

func (h *TripHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	trips, err := h.trips.History(c.Request.Context(), middleware.CallerUID(c), limit)
	if err != nil {
		writeTripError(c, err)
		return
	}
	if trips == nil {
		trips = []trip.StoredTrip{}
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": trips})
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	t, err := h.trips.Get(c.Request.Context(), types.ID(id), middleware.CallerUID(c))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}
