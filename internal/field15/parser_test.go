package field15

import (
	"math"
	"testing"
)

func kinds(elements []Element) []ElementKind {
	out := make([]ElementKind, len(elements))
	for i, el := range elements {
		out[i] = el.Kind
	}
	return out
}

func TestParseSimpleRoute(t *testing.T) {
	elements, skipped := Parse("N0450F350 BAVTA UN871 NOSPA DCT ODEBU")
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped tokens: %v", skipped)
	}

	want := []ElementKind{KindModifier, KindWaypoint, KindAirway, KindWaypoint, KindDirect, KindWaypoint}
	got := kinds(elements)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	mod := elements[0]
	if mod.Speed == nil || mod.Speed.Unit != "N" || mod.Speed.Value != 450 {
		t.Errorf("speed not parsed: %+v", mod.Speed)
	}
	if mod.Altitude == nil || mod.Altitude.Unit != "F" || mod.Altitude.Value != 350 {
		t.Errorf("altitude not parsed: %+v", mod.Altitude)
	}
	if elements[2].Name != "UN871" {
		t.Errorf("airway name: got %q", elements[2].Name)
	}
}

func TestParseProcedures(t *testing.T) {
	elements, _ := Parse("N0420F330 OBOKA2N OBOKA UL620 ARTIP RIVER1A")
	got := kinds(elements)
	want := []ElementKind{KindModifier, KindSID, KindWaypoint, KindAirway, KindWaypoint, KindSTAR}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if elements[1].Name != "OBOKA2N" || elements[5].Name != "RIVER1A" {
		t.Errorf("procedure names: %q, %q", elements[1].Name, elements[5].Name)
	}
}

func TestParseProcedureOnlyAtEdges(t *testing.T) {
	// A procedure-shaped token mid-route cannot be a SID or STAR.
	elements, _ := Parse("AAA OBOKA2N BBB")
	for _, el := range elements {
		if el.Kind == KindSID || el.Kind == KindSTAR {
			t.Errorf("mid-route token classified as procedure: %+v", el)
		}
	}
}

func TestParseCoordinates(t *testing.T) {
	elements, skipped := Parse("5230N01015E 52N015W 5239S00445W")
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped tokens: %v", skipped)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 coordinate elements, got %d", len(elements))
	}

	tests := []struct{ lat, lon float64 }{
		{52.5, 10.25},
		{52, -15},
		{-(52 + 39.0/60), -(4 + 45.0/60)},
	}
	for i, tt := range tests {
		el := elements[i]
		if el.Kind != KindCoordinates {
			t.Fatalf("element %d: expected coordinates, got %s", i, el.Kind)
		}
		if math.Abs(el.Latitude-tt.lat) > 1e-9 || math.Abs(el.Longitude-tt.lon) > 1e-9 {
			t.Errorf("element %d: expected (%f, %f), got (%f, %f)",
				i, tt.lat, tt.lon, el.Latitude, el.Longitude)
		}
	}
}

func TestParseInlineModifier(t *testing.T) {
	elements, _ := Parse("N0450F350 AAA BAVTA/N0420F330 BBB")
	got := kinds(elements)
	want := []ElementKind{KindModifier, KindWaypoint, KindWaypoint, KindModifier, KindWaypoint}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if elements[2].Name != "BAVTA" {
		t.Errorf("inline point name: got %q", elements[2].Name)
	}
	if elements[3].Altitude == nil || elements[3].Altitude.Value != 330 {
		t.Errorf("inline modifier altitude: %+v", elements[3].Altitude)
	}
}

func TestParseMetricModifier(t *testing.T) {
	elements, _ := Parse("K0830S1130 AAA")
	mod := elements[0]
	if mod.Speed == nil || mod.Speed.Unit != "K" || mod.Speed.Value != 830 {
		t.Errorf("metric speed: %+v", mod.Speed)
	}
	if mod.Altitude == nil || mod.Altitude.Unit != "S" || mod.Altitude.Value != 1130 {
		t.Errorf("metric level: %+v", mod.Altitude)
	}
}

func TestParseNATTrack(t *testing.T) {
	elements, _ := Parse("MALOT NATB LIMRI")
	got := kinds(elements)
	want := []ElementKind{KindWaypoint, KindNAT, KindWaypoint}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestParseSkipsUnknownTokens(t *testing.T) {
	elements, skipped := Parse("AAA STAY1/0030 BBB")
	if len(skipped) != 1 || skipped[0] != "STAY1/0030" {
		t.Errorf("expected STAY1/0030 skipped, got %v", skipped)
	}
	if len(elements) != 2 {
		t.Errorf("expected 2 elements around the skipped token, got %d", len(elements))
	}
}

func TestParseEmptyRoute(t *testing.T) {
	elements, skipped := Parse("   ")
	if len(elements) != 0 || len(skipped) != 0 {
		t.Errorf("expected nothing from blank route, got %v / %v", elements, skipped)
	}
}
