// README: Operator view of riders currently on a trip.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fairride/internal/modules/location"
	"fairride/internal/types"
)

type LiveService interface {
	Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]location.LivePosition, error)
}

type LiveHandler struct {
	live          LiveService
	defaultRadius float64
}

func NewLiveHandler(svc LiveService, defaultRadiusKm float64) *LiveHandler {
	return &LiveHandler{live: svc, defaultRadius: defaultRadiusKm}
}

func (h *LiveHandler) Nearby(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius := h.defaultRadius
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid radius_km")
			return
		}
		radius = r
	}

	riders, err := h.live.Nearby(c.Request.Context(), types.Coordinate{Latitude: lat, Longitude: lng}, radius)
	if err != nil {
		writeLocationError(c, err)
		return
	}
	if riders == nil {
		riders = []location.LivePosition{}
	}
	writeJSON(c, http.StatusOK, gin.H{"riders": riders})
}
