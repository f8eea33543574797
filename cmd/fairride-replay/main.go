// README: Replay tool; feeds recorded GPS traces through the trip tracker and prints the priced records.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fairride/internal/logger"
	"fairride/internal/maps"
	"fairride/internal/modules/trip"
	"fairride/internal/modules/zone"
)

func main() {
	cfg := loadConfig()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "text", Output: "stderr"})
	if err != nil {
		logrus.Fatal(err)
	}

	zones, err := zone.LoadFile(cfg.BoundaryFile, cfg.SpotsFile)
	if err != nil {
		log.WithError(err).Fatal("zone model")
	}

	var projector trip.RoadProjector
	if cfg.MapsKey != "" {
		routes, err := maps.NewRouteService(cfg.MapsKey)
		if err != nil {
			log.WithError(err).Fatal("maps route client")
		}
		projector = routes
	}

	traces := builtinTraces()
	if len(cfg.Files) > 0 {
		traces = traces[:0]
		for _, path := range cfg.Files {
			tr, err := loadTrace(path)
			if err != nil {
				log.WithError(err).WithField("file", path).Fatal("load trace")
			}
			traces = append(traces, tr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(zones, projector, cfg.ProjectionTimeout, log)
	results := runner.RunAll(ctx, traces)

	fmt.Println("\n== Summary ==")
	pass, fail := 0, 0
	for _, r := range results {
		switch r.Status {
		case "PASS":
			pass++
		case "FAIL":
			fail++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d TOTAL=%d\n", pass, fail, len(results))
	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BoundaryFile      string
	SpotsFile         string
	MapsKey           string
	LogLevel          string
	ProjectionTimeout time.Duration
	Timeout           time.Duration
	Files             []string
}

func loadConfig() Config {
	_ = godotenv.Load()

	var cfg Config
	flag.StringVar(&cfg.BoundaryFile, "boundary", os.Getenv("FAIRRIDE_ZONE_BOUNDARY_FILE"), "GeoJSON downtown boundary (default: built-in)")
	flag.StringVar(&cfg.SpotsFile, "spots", os.Getenv("FAIRRIDE_ZONE_SPOTS_FILE"), "Fixed-fare spots JSON (default: built-in)")
	flag.StringVar(&cfg.MapsKey, "maps-key", os.Getenv("FAIRRIDE_MAPS_API_KEY"), "Google Maps key; enables road projection")
	flag.StringVar(&cfg.LogLevel, "log-level", envOrDefault("FAIRRIDE_LOG_LEVEL", "warn"), "Log level")
	flag.DurationVar(&cfg.ProjectionTimeout, "projection-timeout", envOrDefaultDuration("FAIRRIDE_PROJECTION_TIMEOUT", trip.DefaultProjectionTimeout), "Road projection timeout per trace")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("FAIRRIDE_REPLAY_TIMEOUT", 2*time.Minute), "Total timeout")
	flag.Parse()
	cfg.Files = flag.Args()
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
