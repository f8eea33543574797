// README: MTOP registration lookup handler.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fairride/internal/modules/registration"
)

type RegistrationService interface {
	Check(ctx context.Context, mtopID string) registration.Status
}

type RegistrationHandler struct {
	registry RegistrationService
}

func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registry: svc}
}

func (h *RegistrationHandler) Check(c *gin.Context) {
	mtop := strings.TrimSpace(c.Param("mtop"))
	if mtop == "" {
		writeError(c, http.StatusBadRequest, "missing mtop id")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"mtopId": mtop,
		"status": h.registry.Check(c.Request.Context(), mtop),
	})
}
