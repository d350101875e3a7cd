package domain

import "time"

// ResolutionEvent is published after each route resolution.
type ResolutionEvent struct {
	Route      string    `json:"route"`
	Segments   int       `json:"segments"`
	CacheHit   bool      `json:"cache_hit"`
	DurationMS int64     `json:"duration_ms"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// CycleEvent is published when an AIRAC cycle finishes loading or ingesting.
type CycleEvent struct {
	Path     string       `json:"path"`
	Stats    CatalogStats `json:"stats"`
	LoadedAt time.Time    `json:"loaded_at"`
}
