package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/field15/internal/core/domain"
)

// AirwayRepo implements ports.AirwayRepository with pgx.
type AirwayRepo struct {
	db *DB
}

// NewAirwayRepo creates a new AirwayRepo.
func NewAirwayRepo(db *DB) *AirwayRepo {
	return &AirwayRepo{db: db}
}

// UpsertAirways inserts many airways using pgx.Batch.
func (r *AirwayRepo) UpsertAirways(ctx context.Context, airways []domain.Airway) error {
	batch := &pgx.Batch{}
	for _, a := range airways {
		batch.Queue(`
			INSERT INTO airways (aixm_id, prefix, second_letter, number, multiple_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (aixm_id) DO UPDATE
			SET prefix = EXCLUDED.prefix, second_letter = EXCLUDED.second_letter,
			    number = EXCLUDED.number, multiple_id = EXCLUDED.multiple_id
		`, a.AIXMID, a.Prefix, a.SecondLetter, a.Number, a.MultipleID)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range airways {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// UpsertSegments inserts many airway segments using pgx.Batch.
func (r *AirwayRepo) UpsertSegments(ctx context.Context, segments []domain.AirwaySegment) error {
	batch := &pgx.Batch{}
	for _, s := range segments {
		batch.Queue(`
			INSERT INTO airway_segments (aixm_id, route_formed, start_kind, start_ref, end_kind, end_ref)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (aixm_id) DO UPDATE
			SET route_formed = EXCLUDED.route_formed,
			    start_kind = EXCLUDED.start_kind, start_ref = EXCLUDED.start_ref,
			    end_kind = EXCLUDED.end_kind, end_ref = EXCLUDED.end_ref
		`, s.AIXMID, s.RouteFormed,
			string(s.Start.Kind), s.Start.AIXMID,
			string(s.End.Kind), s.End.AIXMID)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range segments {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByDesignator returns the airway variants publishing the given
// designator. U-prefixed designators match prefix plus second letter,
// plain ones match a row without a prefix.
func (r *AirwayRepo) GetByDesignator(ctx context.Context, designator string) ([]domain.Airway, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, aixm_id, COALESCE(prefix, ''), second_letter, number, COALESCE(multiple_id, ''), created_at
		FROM airways
		WHERE COALESCE(prefix, '') || second_letter || number = $1
		ORDER BY multiple_id
	`, designator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airways []domain.Airway
	for rows.Next() {
		var a domain.Airway
		if err := rows.Scan(&a.ID, &a.AIXMID, &a.Prefix, &a.SecondLetter, &a.Number, &a.MultipleID, &a.CreatedAt); err != nil {
			return nil, err
		}
		airways = append(airways, a)
	}
	return airways, rows.Err()
}

// SegmentsByAirway returns the segments forming one airway variant.
func (r *AirwayRepo) SegmentsByAirway(ctx context.Context, airwayAIXMID string) ([]domain.AirwaySegment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, aixm_id, route_formed,
		       COALESCE(start_kind, 'none'), COALESCE(start_ref, ''),
		       COALESCE(end_kind, 'none'), COALESCE(end_ref, ''),
		       created_at
		FROM airway_segments
		WHERE route_formed = $1
		ORDER BY aixm_id
	`, airwayAIXMID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []domain.AirwaySegment
	for rows.Next() {
		var s domain.AirwaySegment
		var startKind, endKind string
		if err := rows.Scan(
			&s.ID, &s.AIXMID, &s.RouteFormed,
			&startKind, &s.Start.AIXMID,
			&endKind, &s.End.AIXMID,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Start.Kind = domain.PointRefKind(startKind)
		s.End.Kind = domain.PointRefKind(endKind)
		segments = append(segments, s)
	}
	return segments, rows.Err()
}
