package twominute

import (
	"math"
	"strconv"

	"github.com/golang/geo/s2"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// LatLng converts p to an s2.LatLng.
func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// Distance returns the haversine central angle between p and q in radians on
// the unit sphere. Multiply by the Earth's radius for a physical distance.
func (p Point) Distance(q Point) float64 {
	return p.LatLng().Distance(q.LatLng()).Radians()
}

// Round returns p with both coordinates rounded to places decimal places.
// places <= 0 returns p unchanged.
func (p Point) Round(places int) Point {
	if places <= 0 {
		return p
	}
	return Point{Lat: roundTo(p.Lat, places), Lon: roundTo(p.Lon, places)}
}

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	// Format/parse rounds exactly like the printed coordinates in the output.
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
