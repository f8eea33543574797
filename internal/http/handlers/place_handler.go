// README: Destination search handlers.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fairride/internal/maps"
	"fairride/internal/types"
)

type PlaceService interface {
	Autocomplete(ctx context.Context, input string, near *types.Coordinate) ([]maps.Suggestion, error)
	Details(ctx context.Context, placeID string) (maps.Place, error)
}

type PlaceHandler struct {
	places PlaceService
}

func NewPlaceHandler(svc PlaceService) *PlaceHandler {
	return &PlaceHandler{places: svc}
}

func (h *PlaceHandler) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		writeError(c, http.StatusBadRequest, "missing input")
		return
	}

	var near *types.Coordinate
	if lat, lng := c.Query("lat"), c.Query("lng"); lat != "" && lng != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		ln, err2 := strconv.ParseFloat(lng, 64)
		p := types.Coordinate{Latitude: la, Longitude: ln}
		if err1 != nil || err2 != nil || !p.Valid() {
			writeError(c, http.StatusBadRequest, "invalid lat/lng")
			return
		}
		near = &p
	}

	suggestions, err := h.places.Autocomplete(c.Request.Context(), input, near)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []maps.Suggestion{}
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *PlaceHandler) Details(c *gin.Context) {
	p, err := h.places.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		writePlaceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}
