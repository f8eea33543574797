// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairride/internal/maps"
	"fairride/internal/modules/location"
	"fairride/internal/modules/pricing"
	"fairride/internal/modules/report"
	"fairride/internal/modules/trip"
	"fairride/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// coordinateReq is the wire form of a position in request bodies.
type coordinateReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (c *coordinateReq) toCoordinate() (types.Coordinate, bool) {
	if c == nil || c.Latitude == nil || c.Longitude == nil {
		return types.Coordinate{}, false
	}
	p := types.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
	return p, p.Valid()
}

// isValidID accepts the uuid-style ids the stores generate.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrAlreadyTracking), errors.Is(err, trip.ErrNotTracking), errors.Is(err, trip.ErrEmptyRoute):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidCoordinate):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writePlaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, maps.ErrPlaceNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "place search unavailable")
	}
}

func writeReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, report.ErrPhoto):
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "photo upload failed")
	default:
		writeInternal(c, err)
	}
}

func writeLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, location.ErrInvalidQuery):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeInternal(c, err)
	}
}
