package domain

import "testing"

func dp(id, designator string, lat, lon float64) Fix {
	return Fix{Kind: FixDesignatedPoint, ID: id, Name: designator, Latitude: lat, Longitude: lon}
}

func seg(start, end Fix) ResolvedSegment {
	return ResolvedSegment{Start: start, End: end}
}

func TestFixEqual(t *testing.T) {
	a := dp("uuid-1", "AAA", 52, 4)
	sameID := dp("uuid-1", "AAA", 0, 0)
	otherID := dp("uuid-2", "AAA", 52, 4)

	if !a.Equal(sameID) {
		t.Error("fixes with equal identifiers must be equal regardless of position")
	}
	if a.Equal(otherID) {
		t.Error("fixes with different identifiers must not be equal")
	}
	if a.Equal(Fix{Kind: FixNavaid, ID: "uuid-1"}) {
		t.Error("fixes of different kinds must not be equal")
	}

	c1 := Fix{Kind: FixCoordinates, Latitude: 52, Longitude: 4}
	c2 := Fix{Kind: FixCoordinates, Latitude: 52, Longitude: 4}
	c3 := Fix{Kind: FixCoordinates, Latitude: 52, Longitude: 5}
	if !c1.Equal(c2) || c1.Equal(c3) {
		t.Error("coordinate fixes compare by position")
	}
	if !NoFix.Equal(Fix{Kind: FixNone}) {
		t.Error("absent fixes are equal")
	}
}

func TestResolvedRouteContains(t *testing.T) {
	a, b, c := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1), dp("3", "CCC", 2, 2)
	r := ResolvedRoute{Name: "L1", Segments: []ResolvedSegment{seg(a, b)}}

	if !r.Contains(a) || !r.Contains(b) {
		t.Error("route must contain its segment endpoints")
	}
	if r.Contains(c) {
		t.Error("route must not contain unrelated fixes")
	}
}

func TestBetweenForward(t *testing.T) {
	a, b, c, d := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1), dp("3", "CCC", 2, 2), dp("4", "DDD", 3, 3)
	r := ResolvedRoute{Name: "UN871", Segments: []ResolvedSegment{
		seg(a, b), seg(b, c), seg(c, d),
	}}

	sub, ok := r.Between(b, d)
	if !ok {
		t.Fatal("expected a path from BBB to DDD")
	}
	if len(sub.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(sub.Segments))
	}
	if !sub.Segments[0].Start.Equal(b) || !sub.Segments[1].End.Equal(d) {
		t.Errorf("path endpoints wrong: %v", sub.Segments)
	}
	if sub.Name != "UN871" {
		t.Errorf("expected route name preserved, got %q", sub.Name)
	}
}

func TestBetweenReversed(t *testing.T) {
	a, b, c := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1), dp("3", "CCC", 2, 2)
	r := ResolvedRoute{Name: "L613", Segments: []ResolvedSegment{
		seg(a, b), seg(b, c),
	}}

	// Traverse the airway against its published direction.
	sub, ok := r.Between(c, a)
	if !ok {
		t.Fatal("expected a backward path from CCC to AAA")
	}
	if !sub.Segments[0].Start.Equal(c) || !sub.Segments[0].End.Equal(b) {
		t.Errorf("first segment not reversed: %v", sub.Segments[0])
	}
	if !sub.Segments[1].Start.Equal(b) || !sub.Segments[1].End.Equal(a) {
		t.Errorf("second segment not reversed: %v", sub.Segments[1])
	}
}

func TestBetweenNoPath(t *testing.T) {
	a, b, c, d := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1), dp("3", "CCC", 2, 2), dp("4", "DDD", 3, 3)
	r := ResolvedRoute{Segments: []ResolvedSegment{seg(a, b), seg(c, d)}}

	if _, ok := r.Between(a, d); ok {
		t.Error("expected no path across disconnected components")
	}
}

func TestOrderSegments(t *testing.T) {
	a, b, c, d := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1), dp("3", "CCC", 2, 2), dp("4", "DDD", 3, 3)

	shuffled := []ResolvedSegment{seg(c, d), seg(a, b), seg(b, c)}
	ordered := OrderSegments(shuffled)

	if len(ordered) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(ordered))
	}
	if !ordered[0].Start.Equal(a) || !ordered[2].End.Equal(d) {
		t.Errorf("chain not ordered: %v", ordered)
	}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i].Start.Equal(ordered[i-1].End) {
			t.Errorf("break in chain at %d", i)
		}
	}
}

func TestOrderSegmentsCycle(t *testing.T) {
	a, b, c := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1), dp("3", "CCC", 2, 2)
	cycle := []ResolvedSegment{seg(b, c), seg(c, a), seg(a, b)}

	ordered := OrderSegments(cycle)
	if len(ordered) != 3 {
		t.Fatalf("cycle must keep all segments, got %d", len(ordered))
	}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i].Start.Equal(ordered[i-1].End) {
			t.Errorf("break in cycle walk at %d", i)
		}
	}
}

func TestEntryAndExitFixes(t *testing.T) {
	airport := Fix{Kind: FixAirport, ID: "ap", Name: "EHAM", Latitude: 52.3, Longitude: 4.8}
	a, b := dp("1", "AAA", 0, 0), dp("2", "BBB", 1, 1)
	legs := []ResolvedSegment{seg(airport, a), seg(a, b)}

	entries := EntryFixes(legs)
	if len(entries) != 0 {
		t.Errorf("airport entry must be excluded, got %v", entries)
	}

	exits := ExitFixes(legs)
	if len(exits) != 1 || !exits[0].Equal(b) {
		t.Errorf("expected single exit BBB, got %v", exits)
	}

	// Reverse direction: arrival legs enter at the fix and end at the airport.
	arrival := []ResolvedSegment{seg(b, a), seg(a, airport)}
	entries = EntryFixes(arrival)
	if len(entries) != 1 || !entries[0].Equal(b) {
		t.Errorf("expected single entry BBB, got %v", entries)
	}
}
