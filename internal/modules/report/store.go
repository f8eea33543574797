// README: Report store backed by PostgreSQL.
package report

import (
	"context"

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

func (s *Store) Create(ctx context.Context, r *Report) error {
	var lat, lng *float64
	if r.Location != nil {
		lat, lng = &r.Location.Latitude, &r.Location.Longitude
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO reports (
			id, owner_id, type, mtop_id, description,
			photo_url, lat, lng, trip_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(r.ID), r.OwnerID, r.Type, r.MTOPID, r.Description,
		nullable(r.PhotoURL), lat, lng, nullable(string(r.TripID)), r.CreatedAt,
	)
	return err
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Report, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, type, mtop_id, description,
		       photo_url, lat, lng, trip_id, created_at
		FROM reports
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row) (Report, error) {
	var r Report
	var photo, tripID *string
	var lat, lng *float64
	if err := row.Scan(
		&r.ID, &r.OwnerID, &r.Type, &r.MTOPID, &r.Description,
		&photo, &lat, &lng, &tripID, &r.CreatedAt,
	); err != nil {
		return Report{}, err
	}
	if photo != nil {
		r.PhotoURL = *photo
	}
	if tripID != nil {
		r.TripID = types.ID(*tripID)
	}
	if lat != nil && lng != nil {
		r.Location = &types.Coordinate{Latitude: *lat, Longitude: *lng}
	}
	return r, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
