package airac

import (
	"io"

	"github.com/samirrijal/field15/internal/core/domain"
)

// Feature parsers for the AIXM 5.1 BASELINE messages published by the
// EUROCONTROL B2B services. Each parser streams one XML document and
// returns features keyed by their gml identifier.

func parseAirports(r io.Reader) map[string]domain.Airport {
	sc := newScanner(r)
	out := make(map[string]domain.Airport)
	for {
		if _, ok := sc.next("", "AirportHeliport"); !ok {
			break
		}
		ap := parseAirport(sc)
		if ap.AIXMID != "" {
			out[ap.AIXMID] = ap
		}
	}
	return out
}

func parseAirport(sc *scanner) domain.Airport {
	var ap domain.Airport
	for {
		se, ok := sc.next("AirportHeliport",
			"identifier", "locationIndicatorICAO", "designatorIATA", "name",
			"servedCity", "controlType", "ElevatedPoint")
		if !ok {
			break
		}
		switch se.Name.Local {
		case "identifier":
			ap.AIXMID = sc.text("identifier")
		case "locationIndicatorICAO":
			ap.ICAO = sc.text("locationIndicatorICAO")
		case "designatorIATA":
			ap.IATA = sc.text("designatorIATA")
		case "name":
			ap.Name = sc.text("name")
		case "servedCity":
			if _, ok := sc.next("servedCity", "City"); ok {
				if _, ok := sc.next("City", "name"); ok {
					ap.City = sc.text("name")
				}
			}
		case "controlType":
			ap.Type = sc.text("controlType")
		case "ElevatedPoint":
			for {
				se, ok := sc.next("ElevatedPoint", "pos", "elevation")
				if !ok {
					break
				}
				switch se.Name.Local {
				case "pos":
					ap.Latitude, ap.Longitude = sc.pos("pos")
				case "elevation":
					ap.ElevationFt = sc.float("elevation")
				}
			}
		}
	}
	return ap
}

func parseNavaids(r io.Reader) map[string]domain.Navaid {
	sc := newScanner(r)
	out := make(map[string]domain.Navaid)
	for {
		if _, ok := sc.next("", "Navaid"); !ok {
			break
		}
		var n domain.Navaid
		for {
			se, ok := sc.next("Navaid",
				"identifier", "designator", "name", "type", "ElevatedPoint")
			if !ok {
				break
			}
			switch se.Name.Local {
			case "identifier":
				n.AIXMID = sc.text("identifier")
			case "designator":
				n.Designator = sc.text("designator")
			case "name":
				n.Name = sc.text("name")
			case "type":
				n.Type = sc.text("type")
			case "ElevatedPoint":
				if _, ok := sc.next("ElevatedPoint", "pos"); ok {
					n.Latitude, n.Longitude = sc.pos("pos")
					sc.skipPast("ElevatedPoint")
				}
			}
		}
		if n.AIXMID != "" {
			out[n.AIXMID] = n
		}
	}
	return out
}

func parseDesignatedPoints(r io.Reader) map[string]domain.DesignatedPoint {
	sc := newScanner(r)
	out := make(map[string]domain.DesignatedPoint)
	for {
		if _, ok := sc.next("", "DesignatedPoint"); !ok {
			break
		}
		var dp domain.DesignatedPoint
		for {
			se, ok := sc.next("DesignatedPoint",
				"identifier", "name", "designator", "type", "Point")
			if !ok {
				break
			}
			switch se.Name.Local {
			case "identifier":
				dp.AIXMID = sc.text("identifier")
			case "name":
				dp.Name = sc.text("name")
			case "designator":
				dp.Designator = sc.text("designator")
			case "type":
				dp.Type = sc.text("type")
			case "Point":
				if _, ok := sc.next("Point", "pos"); ok {
					dp.Latitude, dp.Longitude = sc.pos("pos")
					sc.skipPast("Point")
				}
			}
		}
		if dp.AIXMID != "" {
			out[dp.AIXMID] = dp
		}
	}
	return out
}

func parseAirways(r io.Reader) map[string]domain.Airway {
	sc := newScanner(r)
	out := make(map[string]domain.Airway)
	for {
		if _, ok := sc.next("", "Route"); !ok {
			break
		}
		var aw domain.Airway
		for {
			se, ok := sc.next("Route",
				"identifier", "designatorPrefix", "designatorSecondLetter",
				"designatorNumber", "multipleIdentifier")
			if !ok {
				break
			}
			switch se.Name.Local {
			case "identifier":
				aw.AIXMID = sc.text("identifier")
			case "designatorPrefix":
				aw.Prefix = sc.text("designatorPrefix")
			case "designatorSecondLetter":
				aw.SecondLetter = sc.text("designatorSecondLetter")
			case "designatorNumber":
				aw.Number = sc.text("designatorNumber")
			case "multipleIdentifier":
				aw.MultipleID = sc.text("multipleIdentifier")
			}
		}
		if aw.AIXMID != "" {
			out[aw.AIXMID] = aw
		}
	}
	return out
}

func parseAirwaySegments(r io.Reader) map[string]domain.AirwaySegment {
	sc := newScanner(r)
	out := make(map[string]domain.AirwaySegment)
	for {
		if _, ok := sc.next("", "RouteSegment"); !ok {
			break
		}
		var seg domain.AirwaySegment
		for {
			se, ok := sc.next("RouteSegment",
				"identifier", "routeFormed", "start", "end",
				"extension", "annotation", "availability")
			if !ok {
				break
			}
			switch se.Name.Local {
			case "identifier":
				seg.AIXMID = sc.text("identifier")
			case "routeFormed":
				if id, ok := hrefUUID(se); ok {
					seg.RouteFormed = id
				}
			case "start":
				seg.Start = parseSegmentPoint(sc, "start")
			case "end":
				seg.End = parseSegmentPoint(sc, "end")
			case "extension", "annotation", "availability":
				// Availability blocks nest their own point references.
				sc.skipPast(se.Name.Local)
			}
		}
		if seg.AIXMID != "" {
			out[seg.AIXMID] = seg
		}
	}
	return out
}

// parseSegmentPoint reads the point choice inside an en-route segment
// start/end block.
func parseSegmentPoint(sc *scanner, stop string) domain.PointRef {
	ref := domain.PointRef{Kind: domain.RefNone}
	for {
		se, ok := sc.next(stop,
			"pointChoice_fixDesignatedPoint", "pointChoice_navaidSystem")
		if !ok {
			break
		}
		if id, ok := hrefUUID(se); ok {
			switch se.Name.Local {
			case "pointChoice_fixDesignatedPoint":
				ref = domain.PointRef{Kind: domain.RefDesignatedPoint, AIXMID: id}
			case "pointChoice_navaidSystem":
				ref = domain.PointRef{Kind: domain.RefNavaid, AIXMID: id}
			}
		}
	}
	return ref
}

// parseProcedures handles both StandardInstrumentDeparture and
// StandardInstrumentArrival documents; feature selects which.
func parseProcedures(r io.Reader, feature string) map[string]domain.Procedure {
	sc := newScanner(r)
	out := make(map[string]domain.Procedure)
	for {
		if _, ok := sc.next("", feature); !ok {
			break
		}
		var p domain.Procedure
		for {
			se, ok := sc.next(feature,
				"identifier", "airportHeliport", "designator", "extension")
			if !ok {
				break
			}
			switch se.Name.Local {
			case "identifier":
				p.AIXMID = sc.text("identifier")
			case "airportHeliport":
				if id, ok := hrefUUID(se); ok {
					p.AirportAIXMID = id
				}
			case "designator":
				p.Designator = sc.text("designator")
			case "extension":
				for {
					if _, ok := sc.next("extension", "connectingPoint"); !ok {
						break
					}
					if ref := parseTerminalPoint(sc, "connectingPoint"); !ref.IsNone() {
						p.ConnectingPoints = append(p.ConnectingPoints, ref)
					}
				}
			}
		}
		if p.AIXMID != "" {
			out[p.AIXMID] = p
		}
	}
	return out
}

// parseTerminalLegs handles both ArrivalLeg and DepartureLeg documents.
// feature is the element name, owner the attribute-bearing element that
// references the owning procedure ("arrival" or "departure").
func parseTerminalLegs(r io.Reader, feature, owner string) map[string]domain.TerminalLeg {
	sc := newScanner(r)
	out := make(map[string]domain.TerminalLeg)
	for {
		if _, ok := sc.next("", feature); !ok {
			break
		}
		var leg domain.TerminalLeg
		for {
			se, ok := sc.next(feature, "identifier", "startPoint", "endPoint", owner)
			if !ok {
				break
			}
			switch se.Name.Local {
			case "identifier":
				leg.AIXMID = sc.text("identifier")
			case "startPoint":
				leg.Start = parseTerminalPoint(sc, "startPoint")
			case "endPoint":
				leg.End = parseTerminalPoint(sc, "endPoint")
			case owner:
				if id, ok := hrefUUID(se); ok {
					leg.ProcedureID = id
				}
			}
		}
		if leg.AIXMID != "" {
			out[leg.AIXMID] = leg
		}
	}
	return out
}

// parseTerminalPoint reads the point choice inside a TerminalSegmentPoint
// wrapper. Terminal legs may also reference airports directly.
func parseTerminalPoint(sc *scanner, stop string) domain.PointRef {
	for {
		if _, ok := sc.next(stop, "TerminalSegmentPoint"); !ok {
			break
		}
		for {
			se, ok := sc.next("TerminalSegmentPoint",
				"pointChoice_fixDesignatedPoint", "pointChoice_navaidSystem",
				"pointChoice_airportReferencePoint")
			if !ok {
				break
			}
			if id, ok := hrefUUID(se); ok {
				switch se.Name.Local {
				case "pointChoice_fixDesignatedPoint":
					return domain.PointRef{Kind: domain.RefDesignatedPoint, AIXMID: id}
				case "pointChoice_navaidSystem":
					return domain.PointRef{Kind: domain.RefNavaid, AIXMID: id}
				case "pointChoice_airportReferencePoint":
					return domain.PointRef{Kind: domain.RefAirport, AIXMID: id}
				}
			}
		}
	}
	return domain.PointRef{Kind: domain.RefNone}
}
