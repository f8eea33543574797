// README: Fare handlers: pre-trip estimate and the published fare matrix.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairride/internal/modules/pricing"
	"fairride/internal/types"
)

type PricingService interface {
	Estimate(ctx context.Context, origin, destination types.Coordinate) (pricing.Estimate, error)
	Matrix(ctx context.Context) ([]pricing.MatrixEntry, error)
}

type FareHandler struct {
	pricing PricingService
}

func NewFareHandler(svc PricingService) *FareHandler {
	return &FareHandler{pricing: svc}
}

type estimateReq struct {
	Origin      *coordinateReq `json:"origin"`
	Destination *coordinateReq `json:"destination"`
}

func (h *FareHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	origin, ok := req.Origin.toCoordinate()
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid origin")
		return
	}
	dest, ok := req.Destination.toCoordinate()
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid destination")
		return
	}
	est, err := h.pricing.Estimate(c.Request.Context(), origin, dest)
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, est)
}

func (h *FareHandler) Matrix(c *gin.Context) {
	entries, err := h.pricing.Matrix(c.Request.Context())
	if err != nil {
		writePricingError(c, err)
		return
	}
	if entries == nil {
		entries = []pricing.MatrixEntry{}
	}
	writeJSON(c, http.StatusOK, gin.H{"entries": entries})
}
