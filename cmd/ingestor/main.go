package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	natsadapter "github.com/samirrijal/field15/internal/adapters/nats"
	"github.com/samirrijal/field15/internal/adapters/postgres"
	"github.com/samirrijal/field15/internal/airac"
	"github.com/samirrijal/field15/internal/core/domain"
	"github.com/samirrijal/field15/internal/pkg/config"
	"github.com/samirrijal/field15/internal/pkg/logging"
	"github.com/samirrijal/field15/internal/pkg/metrics"
)

// batchSize bounds a single upsert round-trip. A cycle snapshot carries
// tens of thousands of designated points, so rows go in chunks.
const batchSize = 500

func main() {
	var catalogPath string
	flag.StringVar(&catalogPath, "catalog", "", "path to the AIRAC snapshot directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load("field15-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	if catalogPath == "" {
		catalogPath = cfg.Catalog.Path
	}

	ctx := context.Background()

	started := time.Now()
	catalog, err := airac.Load(catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	metrics.CatalogLoadDuration.Observe(time.Since(started).Seconds())

	stats := catalog.Stats()
	slog.Info("AIRAC snapshot parsed",
		"path", catalogPath,
		"airports", stats.Airports,
		"navaids", stats.Navaids,
		"designated_points", stats.DesignatedPoints,
		"airways", stats.Airways,
		"airway_segments", stats.AirwaySegments,
		"duration", time.Since(started).String(),
	)

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	fixes := postgres.NewFixRepo(db)
	airways := postgres.NewAirwayRepo(db)

	ingestStart := time.Now()

	if err := upsertChunked(ctx, catalog.Airports(), fixes.UpsertAirports); err != nil {
		log.Fatalf("upsert airports: %v", err)
	}
	metrics.IngestedFeatures.WithLabelValues("airports").Add(float64(stats.Airports))
	slog.Info("airports ingested", "count", stats.Airports)

	if err := upsertChunked(ctx, catalog.Navaids(), fixes.UpsertNavaids); err != nil {
		log.Fatalf("upsert navaids: %v", err)
	}
	metrics.IngestedFeatures.WithLabelValues("navaids").Add(float64(stats.Navaids))
	slog.Info("navaids ingested", "count", stats.Navaids)

	if err := upsertChunked(ctx, catalog.DesignatedPoints(), fixes.UpsertDesignatedPoints); err != nil {
		log.Fatalf("upsert designated points: %v", err)
	}
	metrics.IngestedFeatures.WithLabelValues("designated_points").Add(float64(stats.DesignatedPoints))
	slog.Info("designated points ingested", "count", stats.DesignatedPoints)

	if err := upsertChunked(ctx, catalog.Airways(), airways.UpsertAirways); err != nil {
		log.Fatalf("upsert airways: %v", err)
	}
	metrics.IngestedFeatures.WithLabelValues("airways").Add(float64(stats.Airways))
	slog.Info("airways ingested", "count", stats.Airways)

	if err := upsertChunked(ctx, catalog.AirwaySegments(), airways.UpsertSegments); err != nil {
		log.Fatalf("upsert airway segments: %v", err)
	}
	metrics.IngestedFeatures.WithLabelValues("airway_segments").Add(float64(stats.AirwaySegments))
	slog.Info("airway segments ingested", "count", stats.AirwaySegments)

	slog.Info("cycle ingested", "duration", time.Since(ingestStart).String())

	// Announce the cycle so live subscribers refresh their caches.
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, cycle event not published", "error", err)
		return
	}
	defer publisher.Close()

	event := &domain.CycleEvent{
		Path:     catalogPath,
		Stats:    stats,
		LoadedAt: time.Now().UTC(),
	}
	if err := publisher.PublishCycleLoaded(ctx, event); err != nil {
		slog.Warn("publish cycle event failed", "error", err)
	}
}

// upsertChunked feeds rows to fn in batchSize chunks, bailing on the
// first error so a broken snapshot does not half-apply.
func upsertChunked[T any](ctx context.Context, rows []T, fn func(context.Context, []T) error) error {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := fn(ctx, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
