package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/field15/internal/core/domain"
	"github.com/samirrijal/field15/internal/core/ports"
)

// NavdataService serves search and lookup queries over the persisted
// AIRAC data.
type NavdataService struct {
	fixes   ports.FixRepository
	airways ports.AirwayRepository
	cache   ports.CacheService
}

// NewNavdataService creates a new NavdataService.
func NewNavdataService(fixes ports.FixRepository, airways ports.AirwayRepository, cache ports.CacheService) *NavdataService {
	return &NavdataService{fixes: fixes, airways: airways, cache: cache}
}

// Search performs fuzzy search on fix designators and names.
func (s *NavdataService) Search(ctx context.Context, query string, limit int) ([]domain.Fix, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("fixes:search:%s:%d", query, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var fixes []domain.Fix
			if err := json.Unmarshal(data, &fixes); err == nil {
				return fixes, nil
			}
		}
	}

	fixes, err := s.fixes.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	// Navdata only changes at cycle boundaries, cache generously.
	if s.cache != nil {
		if data, err := json.Marshal(fixes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 1800)
		}
	}

	return fixes, nil
}

// FindNearby returns fixes within radiusMeters of the given point.
func (s *NavdataService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Fix, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("fixes:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var fixes []domain.Fix
			if err := json.Unmarshal(data, &fixes); err == nil {
				return fixes, nil
			}
		}
	}

	fixes, err := s.fixes.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(fixes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 1800)
		}
	}

	return fixes, nil
}

// GetAirportByICAO returns a single airport by its location indicator.
func (s *NavdataService) GetAirportByICAO(ctx context.Context, icao string) (*domain.Airport, error) {
	cacheKey := "airports:icao:" + icao
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var airport domain.Airport
			if err := json.Unmarshal(data, &airport); err == nil {
				return &airport, nil
			}
		}
	}

	airport, err := s.fixes.GetAirportByICAO(ctx, icao)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(airport); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return airport, nil
}

// GetAirways returns the persisted airway variants for a designator with
// their segments attached.
func (s *NavdataService) GetAirways(ctx context.Context, designator string) ([]domain.Airway, error) {
	if designator == "" {
		return nil, fmt.Errorf("designator must not be empty")
	}
	return s.airways.GetByDesignator(ctx, designator)
}

// GetAirwaySegments returns the en-route segments of one airway variant.
func (s *NavdataService) GetAirwaySegments(ctx context.Context, airwayAIXMID string) ([]domain.AirwaySegment, error) {
	return s.airways.SegmentsByAirway(ctx, airwayAIXMID)
}

// Counts returns per-feature row counts, for the catalog status endpoint.
func (s *NavdataService) Counts(ctx context.Context) (map[string]int64, error) {
	return s.fixes.Counts(ctx)
}
