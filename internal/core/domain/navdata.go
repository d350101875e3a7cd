package domain

import "time"

// PointRefKind identifies the feature type a point reference targets.
type PointRefKind string

const (
	RefAirport         PointRefKind = "airport"
	RefNavaid          PointRefKind = "navaid"
	RefDesignatedPoint PointRefKind = "designated_point"
	RefNone            PointRefKind = "none"
)

// PointRef is an unresolved xlink reference to a catalog feature.
type PointRef struct {
	Kind   PointRefKind `json:"kind"`
	AIXMID string       `json:"aixm_id"`
}

// IsNone reports whether the reference is absent.
func (p PointRef) IsNone() bool {
	return p.Kind == RefNone || p.Kind == "" || p.AIXMID == ""
}

// Airport is an AirportHeliport feature.
type Airport struct {
	ID          string    `json:"id,omitempty"`
	AIXMID      string    `json:"aixm_id"`
	ICAO        string    `json:"icao"`
	IATA        string    `json:"iata,omitempty"`
	Name        string    `json:"name"`
	City        string    `json:"city,omitempty"`
	Type        string    `json:"type,omitempty"`
	ElevationFt float64   `json:"elevation_ft"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Fix converts the airport to a resolved fix. The ICAO code is the name
// exposed on waypoints.
func (a Airport) Fix() Fix {
	return Fix{Kind: FixAirport, ID: a.AIXMID, Name: a.ICAO, Latitude: a.Latitude, Longitude: a.Longitude}
}

// Navaid is a radio navigation aid feature.
type Navaid struct {
	ID         string    `json:"id,omitempty"`
	AIXMID     string    `json:"aixm_id"`
	Designator string    `json:"designator"`
	Name       string    `json:"name,omitempty"`
	Type       string    `json:"type,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func (n Navaid) Fix() Fix {
	return Fix{Kind: FixNavaid, ID: n.AIXMID, Name: n.Name, Latitude: n.Latitude, Longitude: n.Longitude}
}

// DesignatedPoint is a published waypoint feature.
type DesignatedPoint struct {
	ID         string    `json:"id,omitempty"`
	AIXMID     string    `json:"aixm_id"`
	Designator string    `json:"designator"`
	Name       string    `json:"name,omitempty"`
	Type       string    `json:"type,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func (d DesignatedPoint) Fix() Fix {
	return Fix{Kind: FixDesignatedPoint, ID: d.AIXMID, Name: d.Designator, Latitude: d.Latitude, Longitude: d.Longitude}
}

// Airway is a Route feature. The published designator is stored decomposed,
// the way AIXM publishes it: optional U prefix for the upper airspace
// variant, a second letter, a number, and an optional multiple identifier
// distinguishing same-named routes.
type Airway struct {
	ID           string    `json:"id,omitempty"`
	AIXMID       string    `json:"aixm_id"`
	Prefix       string    `json:"prefix,omitempty"`
	SecondLetter string    `json:"second_letter"`
	Number       string    `json:"number"`
	MultipleID   string    `json:"multiple_id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Designator composes the published route designator, without the multiple
// identifier.
func (a Airway) Designator() string {
	return a.Prefix + a.SecondLetter + a.Number
}

// AirwaySegment is a RouteSegment feature linking two point references
// along an airway.
type AirwaySegment struct {
	ID          string    `json:"id,omitempty"`
	AIXMID      string    `json:"aixm_id"`
	RouteFormed string    `json:"route_formed,omitempty"`
	Start       PointRef  `json:"start"`
	End         PointRef  `json:"end"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Procedure is a SID or STAR feature.
type Procedure struct {
	AIXMID           string     `json:"aixm_id"`
	Designator       string     `json:"designator"`
	AirportAIXMID    string     `json:"airport_aixm_id,omitempty"`
	ConnectingPoints []PointRef `json:"connecting_points,omitempty"`
}

// TerminalLeg is an ArrivalLeg or DepartureLeg feature. ProcedureID is the
// owning SID/STAR identifier.
type TerminalLeg struct {
	AIXMID      string   `json:"aixm_id"`
	ProcedureID string   `json:"procedure_id,omitempty"`
	Start       PointRef `json:"start"`
	End         PointRef `json:"end"`
}

// CatalogStats describes a loaded AIRAC catalog.
type CatalogStats struct {
	Airports         int       `json:"airports"`
	Navaids          int       `json:"navaids"`
	DesignatedPoints int       `json:"designated_points"`
	Airways          int       `json:"airways"`
	AirwaySegments   int       `json:"airway_segments"`
	SIDs             int       `json:"sids"`
	STARs            int       `json:"stars"`
	ArrivalLegs      int       `json:"arrival_legs"`
	DepartureLegs    int       `json:"departure_legs"`
	LoadedAt         time.Time `json:"loaded_at"`
	Path             string    `json:"path,omitempty"`
}
