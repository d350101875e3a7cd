// Package field15 tokenizes ICAO flight plan route strings (item 15)
// into the elements consumed by route resolution.
package field15

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samirrijal/field15/internal/core/domain"
)

// ElementKind classifies a route string element.
type ElementKind string

const (
	KindModifier    ElementKind = "modifier"
	KindWaypoint    ElementKind = "waypoint"
	KindCoordinates ElementKind = "coordinates"
	KindAirway      ElementKind = "airway"
	KindSID         ElementKind = "sid"
	KindSTAR        ElementKind = "star"
	KindDirect      ElementKind = "direct"
	KindNAT         ElementKind = "nat"
)

// Element is a single parsed route element. Name holds the designator for
// waypoints, airways, procedures and NAT tracks; Latitude/Longitude are set
// for coordinate groups; Speed/Altitude for speed/level groups.
type Element struct {
	Kind      ElementKind
	Name      string
	Latitude  float64
	Longitude float64
	Speed     *domain.Speed
	Altitude  *domain.Altitude
}

// Published route designators start with one of these prefixes.
var validRoutePrefixes = []string{
	"UN", "UM", "UL", "UT", "UZ", "UY", "UP", "UA", "UB", "UG", "UH", "UJ",
	"UQ", "UR", "UV", "UW", "L", "A", "B", "G", "H", "J", "Q", "R", "T",
	"V", "W", "Y", "Z", "M", "N", "P",
}

var (
	modifierRe  = regexp.MustCompile(`^(K\d{4}|N\d{4}|M\d{3})(F\d{3}|A\d{3}|S\d{4}|M\d{4})$`)
	coordsRe    = regexp.MustCompile(`^(\d{2})(\d{2})?([NS])(\d{3})(\d{2})?([EW])$`)
	natRe       = regexp.MustCompile(`^NAT[A-Z]$`)
	airwayRe    = regexp.MustCompile(`^[A-Z]{1,2}\d{1,3}[A-Z]?$`)
	procedureRe = regexp.MustCompile(`^[A-Z]{2,5}\d[A-Z]?$`)
	waypointRe  = regexp.MustCompile(`^[A-Z]{1,5}$`)
)

// Parse tokenizes a route string. Tokens that match no element class are
// returned separately so callers can log them; they do not interrupt
// parsing. A SID can only occur as the first routing element, a STAR only
// as the last.
func Parse(route string) ([]Element, []string) {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(route)))

	elements := make([]Element, 0, len(tokens))
	var skipped []string
	sawRouting := false

	for i, token := range tokens {
		first := !sawRouting
		last := i == len(tokens)-1

		parsed, ok := parseToken(token, first, last)
		if !ok {
			skipped = append(skipped, token)
			continue
		}
		for _, el := range parsed {
			if el.Kind != KindModifier {
				sawRouting = true
			}
			elements = append(elements, el)
		}
	}
	return elements, skipped
}

func parseToken(token string, first, last bool) ([]Element, bool) {
	if token == "DCT" {
		return []Element{{Kind: KindDirect}}, true
	}
	if m := modifierRe.FindStringSubmatch(token); m != nil {
		return []Element{modifierElement(m[1], m[2])}, true
	}

	// Inline speed/level change, e.g. BAVTA/N0420F330. The new constraint
	// takes effect at the point, so the point element comes first.
	if point, group, ok := strings.Cut(token, "/"); ok {
		m := modifierRe.FindStringSubmatch(group)
		if m == nil {
			return nil, false
		}
		pts, ok := parsePointToken(point)
		if !ok {
			return nil, false
		}
		return append(pts, modifierElement(m[1], m[2])), true
	}

	if m := coordsRe.FindStringSubmatch(token); m != nil {
		lat, lon := parseCoords(m)
		return []Element{{Kind: KindCoordinates, Latitude: lat, Longitude: lon}}, true
	}
	if natRe.MatchString(token) {
		return []Element{{Kind: KindNAT, Name: token}}, true
	}
	if first && isProcedure(token) {
		return []Element{{Kind: KindSID, Name: token}}, true
	}
	if last && isProcedure(token) {
		return []Element{{Kind: KindSTAR, Name: token}}, true
	}
	if isAirway(token) {
		return []Element{{Kind: KindAirway, Name: token}}, true
	}
	if waypointRe.MatchString(token) {
		return []Element{{Kind: KindWaypoint, Name: token}}, true
	}
	return nil, false
}

func parsePointToken(token string) ([]Element, bool) {
	if m := coordsRe.FindStringSubmatch(token); m != nil {
		lat, lon := parseCoords(m)
		return []Element{{Kind: KindCoordinates, Latitude: lat, Longitude: lon}}, true
	}
	if waypointRe.MatchString(token) {
		return []Element{{Kind: KindWaypoint, Name: token}}, true
	}
	return nil, false
}

func modifierElement(speed, level string) Element {
	spdVal, _ := strconv.Atoi(speed[1:])
	altVal, _ := strconv.Atoi(level[1:])
	return Element{
		Kind:     KindModifier,
		Speed:    &domain.Speed{Unit: speed[:1], Value: spdVal},
		Altitude: &domain.Altitude{Unit: level[:1], Value: altVal},
	}
}

func parseCoords(m []string) (lat, lon float64) {
	latDeg, _ := strconv.ParseFloat(m[1], 64)
	lat = latDeg
	if m[2] != "" {
		latMin, _ := strconv.ParseFloat(m[2], 64)
		lat += latMin / 60
	}
	if m[3] == "S" {
		lat = -lat
	}

	lonDeg, _ := strconv.ParseFloat(m[4], 64)
	lon = lonDeg
	if m[5] != "" {
		lonMin, _ := strconv.ParseFloat(m[5], 64)
		lon += lonMin / 60
	}
	if m[6] == "W" {
		lon = -lon
	}
	return lat, lon
}

// isAirway reports whether the token has the shape of a published route
// designator with a known prefix.
func isAirway(token string) bool {
	if !airwayRe.MatchString(token) {
		return false
	}
	for _, prefix := range validRoutePrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

// isProcedure reports whether the token has the shape of a SID/STAR
// designator: at least three leading letters, a digit, an optional route
// indicator letter. Two leading letters would be ambiguous with airway
// designators.
func isProcedure(token string) bool {
	if !procedureRe.MatchString(token) {
		return false
	}
	letters := 0
	for _, r := range token {
		if r < 'A' || r > 'Z' {
			break
		}
		letters++
	}
	return letters >= 3
}
