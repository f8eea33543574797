// README: Location store backed by Redis GEO (active riders only).
package location

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fairride/internal/types"
)

const (
	liveKey = "trips:live"
	seenKey = "trips:live:seen"
)

type Store struct {
	redis *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{redis: rdb}
}

func (s *Store) SetGeo(ctx context.Context, ownerID string, p types.Coordinate, at time.Time) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.GeoAdd(ctx, liveKey, &redis.GeoLocation{
			Name:      ownerID,
			Longitude: p.Longitude,
			Latitude:  p.Latitude,
		})
		pipe.HSet(ctx, seenKey, ownerID, at.UnixMilli())
		return nil
	})
	return err
}

func (s *Store) Remove(ctx context.Context, ownerID string) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, liveKey, ownerID)
		pipe.HDel(ctx, seenKey, ownerID)
		return nil
	})
	return err
}

func (s *Store) Search(ctx context.Context, center types.Coordinate, radiusKm float64, limit int) ([]LivePosition, error) {
	locs, err := s.redis.GeoSearchLocation(ctx, liveKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Longitude,
			Latitude:   center.Latitude,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, nil
	}

	names := make([]string, len(locs))
	for i, l := range locs {
		names[i] = l.Name
	}
	seen, err := s.redis.HMGet(ctx, seenKey, names...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]LivePosition, len(locs))
	for i, l := range locs {
		out[i] = LivePosition{
			OwnerID:    l.Name,
			Position:   types.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude},
			DistanceKm: l.Dist,
		}
		if raw, ok := seen[i].(string); ok {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
				ts := time.UnixMilli(ms).UTC()
				out[i].SeenAt = &ts
			}
		}
	}
	return out, nil
}
