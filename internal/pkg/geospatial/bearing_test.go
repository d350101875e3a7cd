package geospatial

import (
	"math"
	"testing"
)

func TestBearingCardinal(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"due north", 50, 5, 51, 5, 0},
		{"due south", 51, 5, 50, 5, 180},
		{"due east on equator", 0, 5, 0, 6, 90},
		{"due west on equator", 0, 6, 0, 5, 270},
	}
	for _, tt := range tests {
		got := Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
		if math.Abs(got-tt.want) > 0.5 {
			t.Errorf("%s: expected %.1f, got %.3f", tt.name, tt.want, got)
		}
	}
}

func TestHybridScoreOnTrack(t *testing.T) {
	// Midpoint of an equatorial track lies exactly between the endpoints.
	score := HybridScore(0, 0, 0, 2, 0, 1)
	if score > 0.01 {
		t.Errorf("on-track midpoint should score near 0, got %f", score)
	}
}

func TestHybridScorePrefersBetween(t *testing.T) {
	// A candidate beyond the endpoint must score worse than one between.
	between := HybridScore(0, 0, 0, 2, 0, 1)
	beyond := HybridScore(0, 0, 0, 2, 0, 4)
	if between >= beyond {
		t.Errorf("between=%f should beat beyond=%f", between, beyond)
	}
}

func TestHybridScorePenalizesOffTrack(t *testing.T) {
	onTrack := HybridScore(0, 0, 0, 2, 0, 1)
	offTrack := HybridScore(0, 0, 0, 2, 5, 1)
	if onTrack >= offTrack {
		t.Errorf("on-track=%f should beat off-track=%f", onTrack, offTrack)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Amsterdam Schiphol to Paris CDG, roughly 398 km.
	d := Haversine(52.3086, 4.7639, 49.0097, 2.5479)
	if d < 390_000 || d > 410_000 {
		t.Errorf("EHAM-LFPG distance out of range: %f m", d)
	}
}
