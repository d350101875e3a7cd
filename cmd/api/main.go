package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/field15/internal/adapters/http"
	natsadapter "github.com/samirrijal/field15/internal/adapters/nats"
	"github.com/samirrijal/field15/internal/adapters/postgres"
	"github.com/samirrijal/field15/internal/adapters/valkey"
	"github.com/samirrijal/field15/internal/airac"
	"github.com/samirrijal/field15/internal/core/ports"
	"github.com/samirrijal/field15/internal/core/usecases"
	"github.com/samirrijal/field15/internal/pkg/config"
	"github.com/samirrijal/field15/internal/pkg/logging"
	"github.com/samirrijal/field15/internal/pkg/metrics"
	"github.com/samirrijal/field15/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("field15-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// AIRAC catalog
	started := time.Now()
	catalog, err := airac.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	stats := catalog.Stats()
	metrics.CatalogLoadDuration.Observe(time.Since(started).Seconds())
	metrics.SetCatalogStats(map[string]int{
		"airports":          stats.Airports,
		"navaids":           stats.Navaids,
		"designated_points": stats.DesignatedPoints,
		"airways":           stats.Airways,
		"airway_segments":   stats.AirwaySegments,
		"sids":              stats.SIDs,
		"stars":             stats.STARs,
	})
	slog.Info("AIRAC catalog loaded",
		"path", cfg.Catalog.Path,
		"airports", stats.Airports,
		"navaids", stats.Navaids,
		"designated_points", stats.DesignatedPoints,
		"airways", stats.Airways,
		"duration", time.Since(started).String(),
	)

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, search endpoints degraded", "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	// Cache. Keep the nil interface when unavailable so the services
	// skip caching instead of calling through a nil client.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS
	var events ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		events = nc
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Use cases
	resolverSvc := usecases.NewResolverService(catalog, cacheSvc, events, slog.Default())
	var navdataSvc *usecases.NavdataService
	if db != nil {
		navdataSvc = usecases.NewNavdataService(postgres.NewFixRepo(db), postgres.NewAirwayRepo(db), cacheSvc)
	}

	deps := &http.Dependencies{
		Resolver: resolverSvc,
		Navdata:  navdataSvc,
		Catalog:  catalog,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Field15 API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Export pool gauges periodically
	if db != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBPoolMetrics(db.Pool.Stat())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
