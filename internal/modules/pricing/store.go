// README: Pricing store backed by PostgreSQL (published fare matrix).
package pricing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ListMatrix(ctx context.Context) ([]MatrixEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, destination, distance_km, fare
		FROM fare_matrix
		ORDER BY distance_km, destination`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []MatrixEntry
	for rows.Next() {
		var e MatrixEntry
		if err := rows.Scan(&e.ID, &e.Destination, &e.DistanceKm, &e.Fare); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
