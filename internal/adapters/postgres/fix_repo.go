package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/field15/internal/core/domain"
)

// FixRepo implements ports.FixRepository with pgx.
type FixRepo struct {
	db *DB
}

// NewFixRepo creates a new FixRepo.
func NewFixRepo(db *DB) *FixRepo {
	return &FixRepo{db: db}
}

// UpsertAirports inserts many airports using pgx.Batch. Rows are keyed by
// the stable AIXM identifier so re-ingesting a cycle is idempotent.
func (r *FixRepo) UpsertAirports(ctx context.Context, airports []domain.Airport) error {
	batch := &pgx.Batch{}
	for _, a := range airports {
		batch.Queue(`
			INSERT INTO airports (aixm_id, icao, iata, name, city, control_type, elevation_ft, location)
			VALUES ($1, $2, $3, $4, $5, $6, $7, ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography)
			ON CONFLICT (aixm_id) DO UPDATE
			SET icao = EXCLUDED.icao, iata = EXCLUDED.iata, name = EXCLUDED.name,
			    city = EXCLUDED.city, control_type = EXCLUDED.control_type,
			    elevation_ft = EXCLUDED.elevation_ft, location = EXCLUDED.location
		`, a.AIXMID, a.ICAO, a.IATA, a.Name, a.City, a.Type, a.ElevationFt,
			a.Longitude, a.Latitude)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range airports {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// UpsertNavaids inserts many navaids using pgx.Batch.
func (r *FixRepo) UpsertNavaids(ctx context.Context, navaids []domain.Navaid) error {
	batch := &pgx.Batch{}
	for _, n := range navaids {
		batch.Queue(`
			INSERT INTO navaids (aixm_id, designator, name, type, location)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
			ON CONFLICT (aixm_id) DO UPDATE
			SET designator = EXCLUDED.designator, name = EXCLUDED.name,
			    type = EXCLUDED.type, location = EXCLUDED.location
		`, n.AIXMID, n.Designator, n.Name, n.Type, n.Longitude, n.Latitude)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range navaids {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// UpsertDesignatedPoints inserts many designated points using pgx.Batch.
func (r *FixRepo) UpsertDesignatedPoints(ctx context.Context, points []domain.DesignatedPoint) error {
	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(`
			INSERT INTO designated_points (aixm_id, designator, name, type, location)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
			ON CONFLICT (aixm_id) DO UPDATE
			SET designator = EXCLUDED.designator, name = EXCLUDED.name,
			    type = EXCLUDED.type, location = EXCLUDED.location
		`, p.AIXMID, p.Designator, p.Name, p.Type, p.Longitude, p.Latitude)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range points {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// Search performs trigram search across airports, navaids and designated
// points. Results from the three feature tables are merged and ranked by
// similarity against the query.
func (r *FixRepo) Search(ctx context.Context, query string, limit int) ([]domain.Fix, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT kind, aixm_id, name, lat, lon FROM (
			SELECT 'airport' AS kind, aixm_id, icao AS name,
			       ST_Y(location::geometry) AS lat, ST_X(location::geometry) AS lon,
			       GREATEST(similarity(icao, $1), similarity(name, $1)) AS sim
			FROM airports
			WHERE icao %> $1 OR name %> $1
			UNION ALL
			SELECT 'navaid', aixm_id, name,
			       ST_Y(location::geometry), ST_X(location::geometry),
			       GREATEST(similarity(designator, $1), similarity(name, $1))
			FROM navaids
			WHERE designator %> $1 OR name %> $1
			UNION ALL
			SELECT 'designated_point', aixm_id, designator,
			       ST_Y(location::geometry), ST_X(location::geometry),
			       similarity(designator, $1)
			FROM designated_points
			WHERE designator %> $1
		) candidates
		ORDER BY sim DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFixes(rows)
}

// FindNearby returns fixes within radiusMeters using PostGIS ST_DWithin.
func (r *FixRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Fix, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT kind, aixm_id, name, lat, lon FROM (
			SELECT 'airport' AS kind, aixm_id, icao AS name,
			       ST_Y(location::geometry) AS lat, ST_X(location::geometry) AS lon,
			       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
			FROM airports
			WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
			UNION ALL
			SELECT 'navaid', aixm_id, name,
			       ST_Y(location::geometry), ST_X(location::geometry),
			       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)
			FROM navaids
			WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
			UNION ALL
			SELECT 'designated_point', aixm_id, designator,
			       ST_Y(location::geometry), ST_X(location::geometry),
			       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)
			FROM designated_points
			WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		) candidates
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFixes(rows)
}

// GetAirportByICAO returns a single airport by its location indicator.
func (r *FixRepo) GetAirportByICAO(ctx context.Context, icao string) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, aixm_id, icao, COALESCE(iata, ''), name, COALESCE(city, ''),
		       COALESCE(control_type, ''), elevation_ft,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lon,
		       created_at
		FROM airports WHERE icao = $1
	`, icao).Scan(
		&a.ID, &a.AIXMID, &a.ICAO, &a.IATA, &a.Name, &a.City,
		&a.Type, &a.ElevationFt, &a.Latitude, &a.Longitude, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Counts returns the per-table row counts.
func (r *FixRepo) Counts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT 'airports', COUNT(*) FROM airports
		UNION ALL
		SELECT 'navaids', COUNT(*) FROM navaids
		UNION ALL
		SELECT 'designated_points', COUNT(*) FROM designated_points
		UNION ALL
		SELECT 'airways', COUNT(*) FROM airways
		UNION ALL
		SELECT 'airway_segments', COUNT(*) FROM airway_segments
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var table string
		var n int64
		if err := rows.Scan(&table, &n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, rows.Err()
}

func scanFixes(rows pgx.Rows) ([]domain.Fix, error) {
	var fixes []domain.Fix
	for rows.Next() {
		var f domain.Fix
		var kind string
		if err := rows.Scan(&kind, &f.ID, &f.Name, &f.Latitude, &f.Longitude); err != nil {
			return nil, err
		}
		f.Kind = domain.FixKind(kind)
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}
