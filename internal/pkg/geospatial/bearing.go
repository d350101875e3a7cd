package geospatial

import "math"

// Bearing calculates the initial great-circle bearing in degrees [0, 360)
// from the first point to the second.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLon := toRad(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// HybridScore rates how well candidate x lies between a and b. It combines
// the detour ratio of the path a-x-b against the direct distance a-b with
// the average bearing deviation from the a-b track. Lower is better; a
// candidate exactly on the track between a and b scores 0.
func HybridScore(aLat, aLon, bLat, bLon, xLat, xLon float64) float64 {
	ab := Haversine(aLat, aLon, bLat, bLon)
	ax := Haversine(aLat, aLon, xLat, xLon)
	xb := Haversine(xLat, xLon, bLat, bLon)

	gapRatio := (ax + xb) / math.Max(ab, 1e-9)

	track := Bearing(aLat, aLon, bLat, bLon)
	deltaA := angleDiff(Bearing(aLat, aLon, xLat, xLon), track)
	deltaB := angleDiff(Bearing(xLat, xLon, bLat, bLon), track)
	bearingDiff := (deltaA + deltaB) / 2

	return bearingDiff/180 + math.Max(gapRatio-1, 0)
}

// angleDiff returns the absolute difference between two bearings, wrapped
// to [0, 180].
func angleDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}
