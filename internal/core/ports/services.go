package ports

import (
	"context"

	"github.com/samirrijal/field15/internal/core/domain"
)

// NavCatalog is the in-memory AIRAC catalog queried during route
// resolution. Implementations must be safe for concurrent readers.
type NavCatalog interface {
	LookupFix(name string) []domain.Fix
	LookupAirport(icao string) (domain.Airport, bool)
	LookupAirway(name string) []domain.ResolvedRoute
	LookupSID(name string) []domain.ResolvedRoute
	LookupSTAR(name string) []domain.ResolvedRoute
	SIDExitFixes(name string) []domain.Fix
	STAREntryFixes(name string) []domain.Fix
	Stats() domain.CatalogStats
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishResolution(ctx context.Context, event *domain.ResolutionEvent) error
	PublishCycleLoaded(ctx context.Context, event *domain.CycleEvent) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeResolutions(ctx context.Context, handler func(ctx context.Context, event *domain.ResolutionEvent) error) error
	SubscribeCycleEvents(ctx context.Context, handler func(ctx context.Context, event *domain.CycleEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
