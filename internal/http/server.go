// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"fairride/internal/http/handlers"
	"fairride/internal/http/middleware"
	"fairride/internal/infra"
)

// OperatorRole is the role claim required for operator-only endpoints.
const OperatorRole = "operator"

type ServerDeps struct {
	Trip         handlers.TripService
	Pricing      handlers.PricingService
	Places       handlers.PlaceService
	Registration handlers.RegistrationService
	Report       handlers.ReportService
	Live         handlers.LiveService
	LiveRadiusKm float64
	Verifier     infra.TokenVerifier
	NewRelic     *newrelic.Application
	Log          logrus.FieldLogger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.Recovery(s.deps.Log),
		middleware.NewRelic(s.deps.NewRelic),
		middleware.Logging(s.deps.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(s.deps.Verifier))

	trips := handlers.NewTripHandler(s.deps.Trip)
	api.POST("/trips/start", trips.Start)
	api.POST("/trips/sample", trips.Sample)
	api.POST("/trips/stop", trips.Stop)
	api.GET("/trips/current", trips.Current)
	api.GET("/trips", trips.List)
	api.GET("/trips/:id", trips.Get)

	if s.deps.Live != nil {
		live := handlers.NewLiveHandler(s.deps.Live, s.deps.LiveRadiusKm)
		api.GET("/trips/live", middleware.RequireRole(OperatorRole), live.Nearby)
	}

	fares := handlers.NewFareHandler(s.deps.Pricing)
	api.POST("/fares/estimate", fares.Estimate)
	api.GET("/fares/matrix", fares.Matrix)

	if s.deps.Places != nil {
		places := handlers.NewPlaceHandler(s.deps.Places)
		api.GET("/places/autocomplete", places.Autocomplete)
		api.GET("/places/:id", places.Details)
	}

	registrations := handlers.NewRegistrationHandler(s.deps.Registration)
	api.GET("/registrations/:mtop", registrations.Check)

	reports := handlers.NewReportHandler(s.deps.Report)
	api.POST("/reports", reports.Submit)
	api.GET("/reports", reports.List)

	return r
}
