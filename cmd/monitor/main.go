package main

// Resolution monitor. Consumes resolution and cycle events from
// JetStream, keeps rolling counters, and broadcasts a periodic summary
// on navdata.updates.broadcast for WebSocket clients.

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/field15/internal/adapters/nats"
	"github.com/samirrijal/field15/internal/core/domain"
	"github.com/samirrijal/field15/internal/pkg/config"
	"github.com/samirrijal/field15/internal/pkg/logging"
)

type summary struct {
	RoutesResolved int64 `json:"routes_resolved"`
	// Successful resolutions that produced no segments. Unresolvable
	// routes error out before an event is published, so they never
	// reach this counter.
	EmptyResolutions int64   `json:"empty_resolutions"`
	CacheHits        int64   `json:"cache_hits"`
	AvgDurationMS    float64 `json:"avg_duration_ms"`
	CycleAgeSeconds  float64 `json:"cycle_age_seconds,omitempty"`
	CyclePath        string  `json:"cycle_path,omitempty"`
	GeneratedAt      string  `json:"generated_at"`
}

type monitorState struct {
	mu          sync.Mutex
	resolved    int64
	empty       int64
	cacheHits   int64
	durationSum int64
	cycleLoaded time.Time
	cyclePath   string
}

func (m *monitorState) recordResolution(e *domain.ResolutionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved++
	if e.Segments == 0 {
		m.empty++
	}
	if e.CacheHit {
		m.cacheHits++
	}
	m.durationSum += e.DurationMS
}

func (m *monitorState) recordCycle(e *domain.CycleEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycleLoaded = e.LoadedAt
	m.cyclePath = e.Path
}

func (m *monitorState) snapshot() summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := summary{
		RoutesResolved:   m.resolved,
		EmptyResolutions: m.empty,
		CacheHits:        m.cacheHits,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if m.resolved > 0 {
		s.AvgDurationMS = float64(m.durationSum) / float64(m.resolved)
	}
	if !m.cycleLoaded.IsZero() {
		s.CycleAgeSeconds = time.Since(m.cycleLoaded).Seconds()
		s.CyclePath = m.cyclePath
	}
	return s
}

func main() {
	cfg, err := config.Load("field15-monitor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	state := &monitorState{}

	if err := subscriber.SubscribeResolutions(ctx, func(ctx context.Context, event *domain.ResolutionEvent) error {
		state.recordResolution(event)
		return nil
	}); err != nil {
		log.Fatalf("subscribe resolutions: %v", err)
	}

	if err := subscriber.SubscribeCycleEvents(ctx, func(ctx context.Context, event *domain.CycleEvent) error {
		state.recordCycle(event)
		slog.Info("new AIRAC cycle announced",
			"path", event.Path,
			"airports", event.Stats.Airports,
			"airways", event.Stats.Airways,
			"loaded_at", event.LoadedAt,
		)
		return nil
	}); err != nil {
		log.Fatalf("subscribe cycle events: %v", err)
	}

	slog.Info("monitor started", "nats", cfg.NATS.URL)

	broadcastInterval := 30 * time.Second
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			s := state.snapshot()
			data, err := json.Marshal(s)
			if err != nil {
				slog.Error("marshal summary", "error", err)
				continue
			}
			if err := publisher.PublishBroadcast(ctx, data); err != nil {
				slog.Warn("broadcast failed", "error", err)
			}
			slog.Debug("summary broadcast",
				"resolved", s.RoutesResolved,
				"empty", s.EmptyResolutions,
				"cache_hits", s.CacheHits,
			)
		case sig := <-quit:
			slog.Info("shutting down", "signal", sig.String())
			return
		}
	}
}
