package ports

import (
	"context"

	"github.com/samirrijal/field15/internal/core/domain"
)

// FixRepository persists the point features of an AIRAC cycle and serves
// search queries over them.
type FixRepository interface {
	UpsertAirports(ctx context.Context, airports []domain.Airport) error
	UpsertNavaids(ctx context.Context, navaids []domain.Navaid) error
	UpsertDesignatedPoints(ctx context.Context, points []domain.DesignatedPoint) error
	Search(ctx context.Context, query string, limit int) ([]domain.Fix, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Fix, error)
	GetAirportByICAO(ctx context.Context, icao string) (*domain.Airport, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// AirwayRepository persists airways and their en-route segments.
type AirwayRepository interface {
	UpsertAirways(ctx context.Context, airways []domain.Airway) error
	UpsertSegments(ctx context.Context, segments []domain.AirwaySegment) error
	GetByDesignator(ctx context.Context, designator string) ([]domain.Airway, error)
	SegmentsByAirway(ctx context.Context, airwayAIXMID string) ([]domain.AirwaySegment, error)
}
