package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/samirrijal/field15/internal/core/domain"
	"github.com/samirrijal/field15/internal/core/ports"
	"github.com/samirrijal/field15/internal/field15"
	"github.com/samirrijal/field15/internal/pkg/geospatial"
	"github.com/samirrijal/field15/internal/pkg/metrics"
)

// ResolverService enriches ICAO route strings against the AIRAC catalog.
type ResolverService struct {
	catalog ports.NavCatalog
	cache   ports.CacheService
	events  ports.EventPublisher
	logger  *slog.Logger
}

// NewResolverService creates a new ResolverService. Cache and events may be
// nil; the catalog must not be.
func NewResolverService(catalog ports.NavCatalog, cache ports.CacheService, events ports.EventPublisher, logger *slog.Logger) *ResolverService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolverService{catalog: catalog, cache: cache, events: events, logger: logger}
}

// EnrichRoute resolves a route string into geographic segments. Returns
// ErrUnknownRoute when no element of the route matches the catalog.
func (s *ResolverService) EnrichRoute(ctx context.Context, route string) ([]domain.Segment, error) {
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	started := time.Now()
	normalized := strings.Join(strings.Fields(strings.ToUpper(route)), " ")

	cacheKey := resolveCacheKey(normalized)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var segments []domain.Segment
			if err := json.Unmarshal(data, &segments); err == nil {
				metrics.ResolutionsTotal.WithLabelValues("cache_hit").Inc()
				s.publishResolution(ctx, normalized, len(segments), true, started)
				return segments, nil
			}
		}
	}

	elements, skipped := field15.Parse(normalized)
	if len(skipped) > 0 {
		s.logger.Warn("skipping unrecognized route tokens", "route", normalized, "tokens", skipped)
	}

	resolved, err := s.enrich(elements)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("unknown").Inc()
		return nil, err
	}

	segments := make([]domain.Segment, 0, len(resolved))
	for _, seg := range resolved {
		segments = append(segments, seg.Segment())
	}

	if s.cache != nil {
		if data, err := json.Marshal(segments); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	metrics.ResolutionsTotal.WithLabelValues("ok").Inc()
	metrics.ResolutionDuration.Observe(time.Since(started).Seconds())
	s.publishResolution(ctx, normalized, len(segments), false, started)
	return segments, nil
}

// FlattenRoute resolves a route string and collapses the segments into the
// deduplicated waypoint sequence.
func (s *ResolverService) FlattenRoute(ctx context.Context, route string) ([]domain.Point, error) {
	segments, err := s.EnrichRoute(ctx, route)
	if err != nil {
		return nil, err
	}
	return domain.FlattenSegments(segments), nil
}

func (s *ResolverService) publishResolution(ctx context.Context, route string, segments int, cacheHit bool, started time.Time) {
	if s.events == nil {
		return
	}
	event := &domain.ResolutionEvent{
		Route:      route,
		Segments:   segments,
		CacheHit:   cacheHit,
		DurationMS: time.Since(started).Milliseconds(),
		ResolvedAt: time.Now().UTC(),
	}
	if err := s.events.PublishResolution(ctx, event); err != nil {
		s.logger.Warn("publish resolution event", "error", err)
	}
}

func resolveCacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return "resolve:" + hex.EncodeToString(sum[:])
}

type candidateKind int

const (
	candPoint candidateKind = iota
	candCoords
	candAirway
	candDirect
)

// candidate is one route element with its unresolved ambiguity still
// attached: a waypoint can match several fixes, an airway designator
// several published routes.
type candidate struct {
	kind     candidateKind
	points   []domain.Fix
	coords   domain.Fix
	routes   []domain.ResolvedRoute
	name     string
	altitude *domain.Altitude
	speed    *domain.Speed
}

// enrich runs the resolution pipeline: resolve candidates, prune airways
// against adjacent points and points against adjacent airways, trim airways
// to the traversed stretch, disambiguate leftover multi-candidate points by
// geography, then emit the final segment sequence.
func (s *ResolverService) enrich(elements []field15.Element) ([]domain.ResolvedSegment, error) {
	resolved, resolvable := s.resolveCandidates(elements)
	if !resolvable {
		return nil, domain.ErrUnknownRoute
	}

	s.pruneAirwaysByPoints(resolved)
	demoteEmptyAirways(resolved, s.logger)
	s.prunePointsByAirways(resolved)
	trimAirways(resolved, s.logger)
	demoteSegmentlessAirways(resolved, s.logger)
	s.disambiguatePoints(resolved)

	return buildSegments(resolved), nil
}

func (s *ResolverService) resolveCandidates(elements []field15.Element) ([]*candidate, bool) {
	var altitude *domain.Altitude
	var speed *domain.Speed
	resolvable := false

	var resolved []*candidate
	for _, el := range elements {
		switch el.Kind {
		case field15.KindModifier:
			altitude, speed = el.Altitude, el.Speed

		case field15.KindWaypoint:
			points := s.catalog.LookupFix(el.Name)
			if len(points) == 0 {
				s.logger.Warn("no fix found for identifier", "name", el.Name)
			} else {
				resolvable = true
			}
			resolved = append(resolved, &candidate{
				kind: candPoint, points: points, name: el.Name,
				altitude: altitude, speed: speed,
			})

		case field15.KindCoordinates:
			resolvable = true
			resolved = append(resolved, &candidate{
				kind:     candCoords,
				coords:   domain.Fix{Kind: domain.FixCoordinates, Latitude: el.Latitude, Longitude: el.Longitude},
				altitude: altitude, speed: speed,
			})

		case field15.KindAirway:
			routes := s.catalog.LookupAirway(el.Name)
			resolved = append(resolved, airwayOrDirect(routes, el.Name, altitude, speed, &resolvable, s.logger, "airway"))

		case field15.KindSID:
			routes := s.catalog.LookupSID(el.Name)
			resolved = append(resolved, airwayOrDirect(routes, el.Name, altitude, speed, &resolvable, s.logger, "SID"))

		case field15.KindSTAR:
			routes := s.catalog.LookupSTAR(el.Name)
			resolved = append(resolved, airwayOrDirect(routes, el.Name, altitude, speed, &resolvable, s.logger, "STAR"))

		case field15.KindDirect, field15.KindNAT:
			// NAT tracks are treated as direct legs.
			resolved = append(resolved, &candidate{kind: candDirect})
		}
	}
	return resolved, resolvable
}

func airwayOrDirect(routes []domain.ResolvedRoute, name string, altitude *domain.Altitude, speed *domain.Speed, resolvable *bool, logger *slog.Logger, kind string) *candidate {
	if len(routes) == 0 {
		logger.Warn("no "+kind+" found for identifier", "name", name)
		return &candidate{kind: candDirect}
	}
	*resolvable = true
	return &candidate{
		kind: candAirway, routes: routes, name: name,
		altitude: altitude, speed: speed,
	}
}

// pruneAirwaysByPoints keeps only airway candidates that contain an
// adjacent resolved point.
func (s *ResolverService) pruneAirwaysByPoints(resolved []*candidate) {
	for i := 1; i+1 < len(resolved); i++ {
		c := resolved[i]
		if c.kind != candAirway {
			continue
		}
		if prev := resolved[i-1]; prev.kind == candPoint {
			c.routes = retainRoutes(c.routes, prev.points)
		}
		if next := resolved[i+1]; next.kind == candPoint {
			c.routes = retainRoutes(c.routes, next.points)
		}
	}
}

func retainRoutes(routes []domain.ResolvedRoute, points []domain.Fix) []domain.ResolvedRoute {
	out := routes[:0]
	for _, r := range routes {
		for _, p := range points {
			if r.Contains(p) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func demoteEmptyAirways(resolved []*candidate, logger *slog.Logger) {
	for _, c := range resolved {
		if c.kind == candAirway && len(c.routes) == 0 {
			logger.Warn("no valid airway remaining", "name", c.name)
			*c = candidate{kind: candDirect}
		}
	}
}

// prunePointsByAirways keeps only point candidates present on an adjacent
// airway.
func (s *ResolverService) prunePointsByAirways(resolved []*candidate) {
	for i, c := range resolved {
		if c.kind != candPoint {
			continue
		}
		if i > 0 && resolved[i-1].kind == candAirway {
			c.points = retainPoints(c.points, resolved[i-1].routes)
		}
		if i+1 < len(resolved) && resolved[i+1].kind == candAirway {
			c.points = retainPoints(c.points, resolved[i+1].routes)
		}
	}
}

func retainPoints(points []domain.Fix, routes []domain.ResolvedRoute) []domain.Fix {
	out := points[:0]
	for _, p := range points {
		for _, r := range routes {
			if r.Contains(p) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// trimAirways cuts each airway candidate down to the stretch between its
// neighbouring points.
func trimAirways(resolved []*candidate, logger *slog.Logger) {
	for i := 1; i+1 < len(resolved); i++ {
		c := resolved[i]
		if c.kind != candAirway {
			continue
		}
		prev, next := resolved[i-1], resolved[i+1]
		if prev.kind != candPoint || next.kind != candPoint {
			continue
		}
		if len(prev.points) == 0 || len(next.points) == 0 {
			continue
		}
		before, after := prev.points[0], next.points[0]
		for j, route := range c.routes {
			if trimmed, ok := route.Between(before, after); ok {
				c.routes[j] = trimmed
				logger.Debug("trimmed airway between points",
					"airway", route.Name, "from", before.Name, "to", after.Name,
					"segments", len(trimmed.Segments))
			}
		}
	}
}

func demoteSegmentlessAirways(resolved []*candidate, logger *slog.Logger) {
	for _, c := range resolved {
		if c.kind != candAirway {
			continue
		}
		empty := true
		for _, r := range c.routes {
			if len(r.Segments) > 0 {
				empty = false
				break
			}
		}
		if empty {
			logger.Warn("no valid segments remaining for airway", "name", c.name)
			*c = candidate{kind: candDirect}
		}
	}
}

// disambiguatePoints breaks ties for multi-candidate points using the last
// known fix behind and the next definitive fix ahead. With both references
// the hybrid bearing/detour score decides; with only the last known fix,
// plain distance does.
func (s *ResolverService) disambiguatePoints(resolved []*candidate) {
	var lastKnown *domain.Fix

	for i, c := range resolved {
		switch c.kind {
		case candCoords:
			coords := c.coords
			lastKnown = &coords
			continue
		case candPoint:
		default:
			continue
		}

		if len(c.points) > 1 {
			next := nextDefinitive(resolved[i:])
			switch {
			case lastKnown == nil && next == nil:
				s.logger.Warn("cannot disambiguate point, no reference points available", "name", c.name)
			case lastKnown == nil:
				s.logger.Info("ambiguous point has no preceding reference", "name", c.name)
			case next == nil:
				c.points = []domain.Fix{nearestTo(*lastKnown, c.points)}
			default:
				c.points = []domain.Fix{bestBetween(*lastKnown, *next, c.points)}
			}
		}

		if len(c.points) > 0 {
			first := c.points[0]
			lastKnown = &first
		}
	}
}

// nextDefinitive finds the first unambiguous fix ahead: a single-candidate
// point or a coordinate group.
func nextDefinitive(ahead []*candidate) *domain.Fix {
	for _, c := range ahead {
		switch c.kind {
		case candPoint:
			if len(c.points) == 1 {
				return &c.points[0]
			}
		case candCoords:
			return &c.coords
		}
	}
	return nil
}

func nearestTo(ref domain.Fix, points []domain.Fix) domain.Fix {
	best := points[0]
	bestDistance := geospatial.Haversine(ref.Latitude, ref.Longitude, best.Latitude, best.Longitude)
	for _, p := range points[1:] {
		if d := geospatial.Haversine(ref.Latitude, ref.Longitude, p.Latitude, p.Longitude); d < bestDistance {
			best, bestDistance = p, d
		}
	}
	return best
}

func bestBetween(a, b domain.Fix, points []domain.Fix) domain.Fix {
	best := points[0]
	bestScore := geospatial.HybridScore(a.Latitude, a.Longitude, b.Latitude, b.Longitude, best.Latitude, best.Longitude)
	for _, p := range points[1:] {
		if score := geospatial.HybridScore(a.Latitude, a.Longitude, b.Latitude, b.Longitude, p.Latitude, p.Longitude); score < bestScore {
			best, bestScore = p, score
		}
	}
	return best
}

// buildSegments emits the final leg sequence: points chain off the previous
// fix, airways contribute their remaining segments, direct legs just carry
// the previous fix forward. Consecutive equal points collapse.
func buildSegments(resolved []*candidate) []domain.ResolvedSegment {
	var segments []domain.ResolvedSegment
	var previous *domain.Fix

	for _, c := range resolved {
		switch c.kind {
		case candPoint:
			if len(c.points) == 0 {
				continue
			}
			point := c.points[0]
			if previous != nil {
				if previous.Equal(point) {
					continue
				}
				segments = append(segments, domain.ResolvedSegment{
					Start: *previous, End: point,
					Altitude: c.altitude, Speed: c.speed,
				})
			}
			previous = &point

		case candCoords:
			coords := c.coords
			if previous != nil {
				segments = append(segments, domain.ResolvedSegment{
					Start: *previous, End: coords,
					Altitude: c.altitude, Speed: c.speed,
				})
			}
			previous = &coords

		case candAirway:
			route := c.routes[0]
			for _, seg := range route.Segments {
				segments = append(segments, domain.ResolvedSegment{
					Start: seg.Start, End: seg.End, Name: c.name,
					Altitude: c.altitude, Speed: c.speed,
				})
			}
			if n := len(route.Segments); n > 0 {
				end := route.Segments[n-1].End
				previous = &end
			}
		}
	}
	return segments
}
