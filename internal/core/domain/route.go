package domain

// Point is a geographic waypoint produced by route resolution. Name is
// omitted for points that only exist as raw coordinates.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

// Segment is a directed leg between two points. Name carries the airway or
// procedure designator when the leg was lifted from one; direct legs have
// no name. Altitude and Speed are the constraints in force over the leg,
// taken from the preceding speed/level group of the route string.
type Segment struct {
	Start    Point     `json:"start"`
	End      Point     `json:"end"`
	Name     string    `json:"name,omitempty"`
	Altitude *Altitude `json:"altitude,omitempty"`
	Speed    *Speed    `json:"speed,omitempty"`
}

// Altitude is a cruising level from an ICAO speed/level group.
// Unit F and A are hundreds of feet (flight level / altitude),
// S and M are tens of metres.
type Altitude struct {
	Unit  string `json:"unit"`
	Value int    `json:"value"`
}

// Speed is a cruising speed from an ICAO speed/level group.
// Unit N is knots, K is km/h, M is hundredths of Mach.
type Speed struct {
	Unit  string `json:"unit"`
	Value int    `json:"value"`
}
