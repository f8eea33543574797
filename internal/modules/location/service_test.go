package location

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"fairride/internal/types"
)

func TestNearbyValidation(t *testing.T) {
	svc := NewService(nil)
	ok := types.Coordinate{Latitude: 6.50, Longitude: 124.85}

	cases := []struct {
		name   string
		center types.Coordinate
		radius float64
	}{
		{"bad latitude", types.Coordinate{Latitude: 95, Longitude: 124.85}, 1},
		{"negative radius", ok, -1},
		{"radius too large", ok, MaxRadiusKm + 1},
	}
	for _, tc := range cases {
		if _, err := svc.Nearby(context.Background(), tc.center, tc.radius); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("%s: Nearby() error = %v, want ErrInvalidQuery", tc.name, err)
		}
	}
	if err := svc.SetLive(context.Background(), "", ok); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("SetLive() without owner error = %v, want ErrInvalidQuery", err)
	}
}

func TestLivePositions(t *testing.T) {
	redisAddr := os.Getenv("FAIRRIDE_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("FAIRRIDE_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	svc := NewService(NewStore(rdb))
	ctx := context.Background()

	near := fmt.Sprintf("rider_near_%d", time.Now().UnixNano())
	far := fmt.Sprintf("rider_far_%d", time.Now().UnixNano())
	defer svc.RemoveLive(ctx, near)
	defer svc.RemoveLive(ctx, far)

	center := types.Coordinate{Latitude: 6.5030, Longitude: 124.8480}
	if err := svc.SetLive(ctx, near, types.Coordinate{Latitude: 6.5040, Longitude: 124.8480}); err != nil {
		t.Fatalf("SetLive() error = %v", err)
	}
	if err := svc.SetLive(ctx, far, types.Coordinate{Latitude: 6.3000, Longitude: 124.9500}); err != nil {
		t.Fatalf("SetLive() error = %v", err)
	}

	got, err := svc.Nearby(ctx, center, 1)
	if err != nil {
		t.Fatalf("Nearby() error = %v", err)
	}
	found := false
	for _, p := range got {
		if p.OwnerID == far {
			t.Errorf("far rider returned within 1 km")
		}
		if p.OwnerID == near {
			found = true
			if p.SeenAt == nil {
				t.Error("SeenAt not populated")
			}
		}
	}
	if !found {
		t.Fatalf("near rider missing from %+v", got)
	}

	if err := svc.RemoveLive(ctx, near); err != nil {
		t.Fatalf("RemoveLive() error = %v", err)
	}
	got, _ = svc.Nearby(ctx, center, 1)
	for _, p := range got {
		if p.OwnerID == near {
			t.Error("removed rider still listed")
		}
	}
}
