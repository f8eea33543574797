// README: Trip store backed by PostgreSQL. Records are append-only.
package trip

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairride/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, rec TripRecord, ownerID string) (types.ID, error) {
	route, err := json.Marshal(rec.Route)
	if err != nil {
		return "", err
	}

	id := types.ID(uuid.NewString())
	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (
			id, owner_id, mtop_id, destination_label,
			start_lat, start_lng, end_lat, end_lng,
			distance_km, fare, tier_a, tier_b, tier_c,
			recorded_at, route, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16
		)`,
		string(id), ownerID, rec.MTOPID, rec.DestinationLabel,
		rec.Start.Latitude, rec.Start.Longitude, rec.End.Latitude, rec.End.Longitude,
		rec.DistanceKm, rec.Fare, rec.FareTiers.TierA, rec.FareTiers.TierB, rec.FareTiers.TierC,
		rec.TimestampUTC, route, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

const selectTrip = `
	SELECT id, owner_id, mtop_id, destination_label,
	       start_lat, start_lng, end_lat, end_lng,
	       distance_km, fare, tier_a, tier_b, tier_c,
	       recorded_at, route, created_at
	FROM trips`

func (s *Store) ListByOwner(ctx context.Context, ownerID string, limit int) ([]StoredTrip, error) {
	rows, err := s.db.Query(ctx, selectTrip+`
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredTrip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id types.ID, ownerID string) (*StoredTrip, error) {
	row := s.db.QueryRow(ctx, selectTrip+`
		WHERE id = $1 AND owner_id = $2`, string(id), ownerID)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func scanTrip(row pgx.Row) (*StoredTrip, error) {
	var t StoredTrip
	var route []byte
	r := &t.Record
	err := row.Scan(
		&t.ID, &t.OwnerID, &r.MTOPID, &r.DestinationLabel,
		&r.Start.Latitude, &r.Start.Longitude, &r.End.Latitude, &r.End.Longitude,
		&r.DistanceKm, &r.Fare, &r.FareTiers.TierA, &r.FareTiers.TierB, &r.FareTiers.TierC,
		&r.TimestampUTC, &route, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(route) > 0 {
		if err := json.Unmarshal(route, &r.Route); err != nil {
			return nil, err
		}
	}
	return &t, nil
}
