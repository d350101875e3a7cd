package domain

// FlattenSegments collapses a segment sequence into the ordered list of
// waypoints it passes through: the start of every segment plus the end of
// the last one, with consecutive duplicates removed. An empty input yields
// an empty, non-nil slice.
func FlattenSegments(segments []Segment) []Point {
	points := make([]Point, 0, len(segments)+1)
	for _, s := range segments {
		points = append(points, s.Start)
	}
	if len(segments) > 0 {
		points = append(points, segments[len(segments)-1].End)
	}

	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
