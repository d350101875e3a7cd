package domain

import "strconv"

// FixKind identifies the catalog feature a fix was resolved from.
type FixKind string

const (
	FixAirport         FixKind = "airport"
	FixNavaid          FixKind = "navaid"
	FixDesignatedPoint FixKind = "designated_point"
	FixCoordinates     FixKind = "coordinates"
	FixNone            FixKind = "none"
)

// Fix is a resolved navigation point. Catalog-backed fixes carry the AIXM
// identifier of the source feature; coordinate fixes carry only a position.
type Fix struct {
	Kind      FixKind `json:"kind"`
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NoFix is the absent fix, used for unterminated legs.
var NoFix = Fix{Kind: FixNone}

// Equal reports identity: catalog fixes compare by identifier, coordinate
// fixes by position.
func (f Fix) Equal(o Fix) bool {
	if f.Kind != o.Kind {
		return false
	}
	switch f.Kind {
	case FixCoordinates:
		return f.Latitude == o.Latitude && f.Longitude == o.Longitude
	case FixNone:
		return true
	default:
		return f.ID == o.ID
	}
}

// Key returns a map key consistent with Equal.
func (f Fix) Key() string {
	switch f.Kind {
	case FixCoordinates:
		return "@" + strconv.FormatFloat(f.Latitude, 'f', -1, 64) +
			"," + strconv.FormatFloat(f.Longitude, 'f', -1, 64)
	case FixNone:
		return ""
	default:
		return string(f.Kind) + ":" + f.ID
	}
}

// IsNone reports whether the fix is absent.
func (f Fix) IsNone() bool {
	return f.Kind == FixNone || f.Kind == ""
}

// Point converts the fix to its waypoint representation. Coordinate fixes
// have no name; absent fixes collapse to the zero point.
func (f Fix) Point() Point {
	if f.IsNone() {
		return Point{}
	}
	return Point{Latitude: f.Latitude, Longitude: f.Longitude, Name: f.Name}
}
