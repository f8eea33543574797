// README: Entry point; loads config, wires services, starts the HTTP server and the MQTT position feed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"fairride/internal/config"
	httptransport "fairride/internal/http"
	"fairride/internal/infra"
	"fairride/internal/logger"
	"fairride/internal/maps"
	"fairride/internal/modules/location"
	"fairride/internal/modules/pricing"
	"fairride/internal/modules/registration"
	"fairride/internal/modules/report"
	"fairride/internal/modules/trip"
	"fairride/internal/modules/zone"
	"fairride/internal/subscriber"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		AppName: cfg.AppName,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nrApp, err := infra.NewNewRelic(cfg.NewRelic.AppName, cfg.NewRelic.LicenseKey)
	if err != nil {
		log.WithError(err).Fatal("newrelic init")
	}

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("FAIRRIDE_FIREBASE_PROJECT_ID is required")
	}
	fbApp, err := infra.NewFirebaseApp(ctx, infra.FirebaseConfig{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
		StorageBucket:   cfg.Firebase.StorageBucket,
	})
	if err != nil {
		log.WithError(err).Fatal("firebase init")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, fbApp)
	if err != nil {
		log.WithError(err).Fatal("firebase auth init")
	}
	fs, err := infra.NewFirestore(ctx, fbApp)
	if err != nil {
		log.WithError(err).Fatal("firestore init")
	}
	defer fs.Close()
	bucket, err := infra.NewStorageBucket(ctx, fbApp, cfg.Firebase.StorageBucket)
	if err != nil {
		log.WithError(err).Fatal("storage init")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.WithError(err).Fatal("redis init")
	}
	defer redisClient.Close()

	zones, err := zone.LoadFile(cfg.Zone.BoundaryFile, cfg.Zone.SpotsFile)
	if err != nil {
		log.WithError(err).Fatal("zone model")
	}

	var (
		projector trip.RoadProjector
		distance  pricing.DistanceEstimator
		places    *maps.PlacesService
	)
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.WithError(err).Fatal("maps route client")
		}
		projector, distance = routes, routes
		places, err = maps.NewPlacesService(cfg.Maps.APIKey, cfg.Maps.Country)
		if err != nil {
			log.WithError(err).Fatal("maps places client")
		}
	} else {
		log.Warn("FAIRRIDE_MAPS_API_KEY not set; road projection and place search disabled")
	}

	pricingSvc := pricing.NewService(pricing.NewStore(dbPool), zones, distance, log.WithField("module", "pricing"))

	directory := registration.NewCachedDirectory(
		registration.NewFirestoreDirectory(fs, cfg.Registration.Collection),
		redisClient, cfg.Registration.CacheTTL,
	)
	registrationSvc := registration.NewService(directory, log.WithField("module", "registration"))

	locationSvc := location.NewService(location.NewStore(redisClient))

	reportSvc := report.NewService(
		report.NewStore(dbPool),
		report.NewGCSPhotoStore(bucket, bucket.BucketName()),
		log.WithField("module", "report"),
	)

	deps := trip.Deps{
		Repo:              trip.NewStore(dbPool),
		Zones:             zones,
		Projector:         projector,
		Live:              locationSvc,
		Registry:          registrationSvc,
		ProjectionTimeout: cfg.Maps.ProjectionTimeout,
		Log:               log.WithField("module", "trip"),
	}
	if cfg.RabbitMQ.URL != "" {
		conn, err := infra.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			log.WithError(err).Fatal("rabbitmq init")
		}
		defer conn.Close()
		pub, err := trip.NewAMQPPublisher(conn)
		if err != nil {
			log.WithError(err).Fatal("rabbitmq publisher")
		}
		defer pub.Close()
		deps.Events = pub
	}
	tripSvc := trip.NewService(deps)

	if cfg.MQTT.Broker != "" {
		client, err := infra.NewMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			log.WithError(err).Fatal("mqtt init")
		}
		defer client.Disconnect(250)
		sub, err := subscriber.NewLocationSubscriber(client, cfg.MQTT.Topic, tripSvc, log.WithField("module", "subscriber"))
		if err != nil {
			log.WithError(err).Fatal("mqtt subscriber")
		}
		if err := sub.Start(); err != nil {
			log.WithError(err).Fatal("mqtt subscribe")
		}
		defer sub.Stop()
		log.WithField("topic", cfg.MQTT.Topic).Info("subscribed to rider positions")
	}

	serverDeps := httptransport.ServerDeps{
		Trip:         tripSvc,
		Pricing:      pricingSvc,
		Registration: registrationSvc,
		Report:       reportSvc,
		Live:         locationSvc,
		LiveRadiusKm: cfg.Live.RadiusKm,
		Verifier:     verifier,
		NewRelic:     nrApp,
		Log:          log,
	}
	if places != nil {
		serverDeps.Places = places
	}
	handler := httptransport.NewServer(serverDeps)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}
}
