// Package airac loads EUROCONTROL AIRAC cycles from AIXM 5.1 BASELINE zip
// archives into an in-memory catalog queried during route resolution.
package airac

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/samirrijal/field15/internal/core/domain"
)

// Catalog is an immutable snapshot of one AIRAC cycle. Safe for concurrent
// readers once loaded.
type Catalog struct {
	airports         map[string]domain.Airport
	navaids          map[string]domain.Navaid
	designatedPoints map[string]domain.DesignatedPoint
	airways          map[string]domain.Airway
	segments         map[string]domain.AirwaySegment
	sids             map[string]domain.Procedure
	stars            map[string]domain.Procedure
	departureLegs    map[string]domain.TerminalLeg
	arrivalLegs      map[string]domain.TerminalLeg

	stats domain.CatalogStats
}

// Load reads a catalog from a directory of <Feature>.BASELINE.zip archives.
// Airports, navaids, designated points, airways and airway segments are
// required; procedures and their legs are optional.
func Load(path string) (*Catalog, error) {
	c := &Catalog{
		sids:          map[string]domain.Procedure{},
		stars:         map[string]domain.Procedure{},
		departureLegs: map[string]domain.TerminalLeg{},
		arrivalLegs:   map[string]domain.TerminalLeg{},
	}

	var err error
	if c.airports, err = loadZip(path, "AirportHeliport", parseAirports); err != nil {
		return nil, err
	}
	if c.navaids, err = loadZip(path, "Navaid", parseNavaids); err != nil {
		return nil, err
	}
	if c.designatedPoints, err = loadZip(path, "DesignatedPoint", parseDesignatedPoints); err != nil {
		return nil, err
	}
	if c.airways, err = loadZip(path, "Route", parseAirways); err != nil {
		return nil, err
	}
	if c.segments, err = loadZip(path, "RouteSegment", parseAirwaySegments); err != nil {
		return nil, err
	}

	optional := []struct {
		feature string
		load    func(io.Reader) error
	}{
		{"StandardInstrumentDeparture", func(r io.Reader) error {
			merge(c.sids, parseProcedures(r, "StandardInstrumentDeparture"))
			return nil
		}},
		{"StandardInstrumentArrival", func(r io.Reader) error {
			merge(c.stars, parseProcedures(r, "StandardInstrumentArrival"))
			return nil
		}},
		{"DepartureLeg", func(r io.Reader) error {
			merge(c.departureLegs, parseTerminalLegs(r, "DepartureLeg", "departure"))
			return nil
		}},
		{"ArrivalLeg", func(r io.Reader) error {
			merge(c.arrivalLegs, parseTerminalLegs(r, "ArrivalLeg", "arrival"))
			return nil
		}},
	}
	for _, opt := range optional {
		zipPath := filepath.Join(path, opt.feature+".BASELINE.zip")
		if _, statErr := os.Stat(zipPath); statErr != nil {
			continue
		}
		if err := eachBaselineEntry(zipPath, opt.load); err != nil {
			return nil, err
		}
	}

	c.stats = domain.CatalogStats{
		Airports:         len(c.airports),
		Navaids:          len(c.navaids),
		DesignatedPoints: len(c.designatedPoints),
		Airways:          len(c.airways),
		AirwaySegments:   len(c.segments),
		SIDs:             len(c.sids),
		STARs:            len(c.stars),
		ArrivalLegs:      len(c.arrivalLegs),
		DepartureLegs:    len(c.departureLegs),
		LoadedAt:         time.Now().UTC(),
		Path:             path,
	}
	return c, nil
}

func loadZip[T any](dir, feature string, parse func(io.Reader) map[string]T) (map[string]T, error) {
	out := make(map[string]T)
	zipPath := filepath.Join(dir, feature+".BASELINE.zip")
	err := eachBaselineEntry(zipPath, func(r io.Reader) error {
		merge(out, parse(r))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", feature, err)
	}
	return out, nil
}

func eachBaselineEntry(zipPath string, fn func(io.Reader) error) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".BASELINE") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		err = fn(rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func merge[T any](dst, src map[string]T) {
	for k, v := range src {
		dst[k] = v
	}
}

// Stats describes the loaded cycle.
func (c *Catalog) Stats() domain.CatalogStats {
	return c.stats
}

// ResolveRef resolves a point reference to a fix, or NoFix when the target
// feature is absent from the cycle.
func (c *Catalog) ResolveRef(ref domain.PointRef) domain.Fix {
	switch ref.Kind {
	case domain.RefAirport:
		if ap, ok := c.airports[ref.AIXMID]; ok {
			return ap.Fix()
		}
	case domain.RefNavaid:
		if n, ok := c.navaids[ref.AIXMID]; ok {
			return n.Fix()
		}
	case domain.RefDesignatedPoint:
		if dp, ok := c.designatedPoints[ref.AIXMID]; ok {
			return dp.Fix()
		}
	}
	return domain.NoFix
}

// LookupFix resolves a route token to candidate fixes: navaids matched by
// name first, then designated points matched by designator. Several
// features can share a name; disambiguation happens during enrichment.
func (c *Catalog) LookupFix(name string) []domain.Fix {
	var out []domain.Fix
	for _, n := range c.navaids {
		if nameMatch(n.Name, name) {
			out = append(out, n.Fix())
		}
	}
	if len(out) > 0 {
		sortFixes(out)
		return out
	}
	for _, dp := range c.designatedPoints {
		if nameMatch(dp.Designator, name) {
			out = append(out, dp.Fix())
		}
	}
	sortFixes(out)
	return out
}

// LookupAirport finds an airport by its ICAO location indicator.
func (c *Catalog) LookupAirport(icao string) (domain.Airport, bool) {
	for _, ap := range c.airports {
		if nameMatch(ap.ICAO, icao) {
			return ap, true
		}
	}
	return domain.Airport{}, false
}

// LookupAirway resolves a published route designator to candidate routes
// with their segments attached. The designator is decomposed into prefix,
// second letter, number and multiple identifier before matching.
func (c *Catalog) LookupAirway(name string) []domain.ResolvedRoute {
	prefix, second, number, multiple, ok := decomposeDesignator(name)
	if !ok {
		return nil
	}

	var out []domain.ResolvedRoute
	for _, aw := range c.airways {
		if aw.Prefix != prefix || aw.SecondLetter != second ||
			aw.Number != number || aw.MultipleID != multiple {
			continue
		}
		out = append(out, c.airwayRoute(aw))
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i].Segments) > len(out[j].Segments) })
	return out
}

func (c *Catalog) airwayRoute(aw domain.Airway) domain.ResolvedRoute {
	var segments []domain.ResolvedSegment
	for _, seg := range c.segments {
		if seg.RouteFormed != aw.AIXMID {
			continue
		}
		segments = append(segments, domain.ResolvedSegment{
			Start: c.ResolveRef(seg.Start),
			End:   c.ResolveRef(seg.End),
		})
	}
	return domain.ResolvedRoute{Name: aw.Designator(), Segments: segments}
}

// LookupSID resolves SID procedures by designator, each with its leg graph
// chained into walk order.
func (c *Catalog) LookupSID(name string) []domain.ResolvedRoute {
	return c.procedureRoutes(c.sids, c.departureLegs, name)
}

// LookupSTAR resolves STAR procedures by designator.
func (c *Catalog) LookupSTAR(name string) []domain.ResolvedRoute {
	return c.procedureRoutes(c.stars, c.arrivalLegs, name)
}

func (c *Catalog) procedureRoutes(procedures map[string]domain.Procedure, legs map[string]domain.TerminalLeg, name string) []domain.ResolvedRoute {
	var out []domain.ResolvedRoute
	for _, p := range procedures {
		if !nameMatch(p.Designator, name) {
			continue
		}
		var segments []domain.ResolvedSegment
		for _, leg := range legs {
			if leg.ProcedureID != p.AIXMID {
				continue
			}
			start := c.ResolveRef(leg.Start)
			end := c.ResolveRef(leg.End)
			if start.IsNone() || end.IsNone() {
				continue
			}
			segments = append(segments, domain.ResolvedSegment{
				Start: start,
				End:   end,
				Name:  p.Designator,
			})
		}
		out = append(out, domain.ResolvedRoute{
			Name:     p.Designator,
			Segments: domain.OrderSegments(segments),
		})
	}
	return out
}

// SIDExitFixes returns the fixes a SID hands traffic over at: the leg
// graph's exits, or the declared connecting points when no legs are
// published.
func (c *Catalog) SIDExitFixes(name string) []domain.Fix {
	return c.procedureBoundary(c.sids, c.departureLegs, name, domain.ExitFixes)
}

// STAREntryFixes returns the fixes a STAR can be joined at.
func (c *Catalog) STAREntryFixes(name string) []domain.Fix {
	return c.procedureBoundary(c.stars, c.arrivalLegs, name, domain.EntryFixes)
}

func (c *Catalog) procedureBoundary(procedures map[string]domain.Procedure, legs map[string]domain.TerminalLeg, name string, boundary func([]domain.ResolvedSegment) []domain.Fix) []domain.Fix {
	ids := make(map[string]bool)
	var fallback []domain.Fix
	for _, p := range procedures {
		if !nameMatch(p.Designator, name) {
			continue
		}
		ids[p.AIXMID] = true
		for _, ref := range p.ConnectingPoints {
			if f := c.ResolveRef(ref); !f.IsNone() {
				fallback = append(fallback, f)
			}
		}
	}

	var segments []domain.ResolvedSegment
	for _, leg := range legs {
		if !ids[leg.ProcedureID] {
			continue
		}
		segments = append(segments, domain.ResolvedSegment{
			Start: c.ResolveRef(leg.Start),
			End:   c.ResolveRef(leg.End),
		})
	}

	fixes := boundary(segments)
	if len(fixes) == 0 {
		fixes = fallback
	}
	return dedupeFixes(fixes)
}

// Airports returns all airports, for ingestion.
func (c *Catalog) Airports() []domain.Airport {
	out := make([]domain.Airport, 0, len(c.airports))
	for _, ap := range c.airports {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AIXMID < out[j].AIXMID })
	return out
}

// Navaids returns all navaids, for ingestion.
func (c *Catalog) Navaids() []domain.Navaid {
	out := make([]domain.Navaid, 0, len(c.navaids))
	for _, n := range c.navaids {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AIXMID < out[j].AIXMID })
	return out
}

// DesignatedPoints returns all designated points, for ingestion.
func (c *Catalog) DesignatedPoints() []domain.DesignatedPoint {
	out := make([]domain.DesignatedPoint, 0, len(c.designatedPoints))
	for _, dp := range c.designatedPoints {
		out = append(out, dp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AIXMID < out[j].AIXMID })
	return out
}

// Airways returns all airways, for ingestion.
func (c *Catalog) Airways() []domain.Airway {
	out := make([]domain.Airway, 0, len(c.airways))
	for _, aw := range c.airways {
		out = append(out, aw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AIXMID < out[j].AIXMID })
	return out
}

// AirwaySegments returns all en-route segments, for ingestion.
func (c *Catalog) AirwaySegments() []domain.AirwaySegment {
	out := make([]domain.AirwaySegment, 0, len(c.segments))
	for _, seg := range c.segments {
		out = append(out, seg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AIXMID < out[j].AIXMID })
	return out
}

// decomposeDesignator splits a route designator the way AIXM stores it.
// "UN871" yields prefix U, second letter N, number 871; "N456B" yields no
// prefix, second letter N, number 456, multiple identifier B. Designators
// without a published prefix are rejected.
func decomposeDesignator(name string) (prefix, second, number, multiple string, ok bool) {
	valid := false
	for _, p := range validRoutePrefixes {
		if strings.HasPrefix(name, p) {
			valid = true
			break
		}
	}
	if !valid {
		return "", "", "", "", false
	}

	if last := rune(name[len(name)-1]); unicode.IsLetter(last) {
		multiple = string(last)
		name = name[:len(name)-1]
	}
	switch {
	case strings.HasPrefix(name, "U") && len(name) >= 3:
		prefix, second, number = "U", name[1:2], name[2:]
	case len(name) >= 2:
		second, number = name[:1], name[1:]
	}
	return prefix, second, number, multiple, true
}

var validRoutePrefixes = []string{
	"UN", "UM", "UL", "UT", "UZ", "UY", "UP", "UA", "UB", "UG", "UH", "UJ",
	"UQ", "UR", "UV", "UW", "L", "A", "B", "G", "H", "J", "Q", "R", "T",
	"V", "W", "Y", "Z", "M", "N", "P",
}

func nameMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sortFixes(fixes []domain.Fix) {
	sort.Slice(fixes, func(i, j int) bool { return fixes[i].Key() < fixes[j].Key() })
}

func dedupeFixes(fixes []domain.Fix) []domain.Fix {
	seen := make(map[string]bool, len(fixes))
	out := fixes[:0]
	for _, f := range fixes {
		if seen[f.Key()] {
			continue
		}
		seen[f.Key()] = true
		out = append(out, f)
	}
	sortFixes(out)
	return out
}
