package services

import (
	"fmt"
	"math"
)

// ServiceArea applies the admission rules for a geocoded point: great-circle
// distance from the configured center, and either a single radius or
// per-direction radii. Radii and center are configuration, not constants.
type ServiceArea struct {
	CenterName       string
	CenterLat        float64
	CenterLng        float64
	EarthRadiusMiles float64
	RadiusMiles      float64
	// DirectionalRadii holds maximum miles for the cardinal directions
	// (keys N, E, S, W). Diagonal octants take the minimum of their two
	// neighbors. Nil means single-radius mode.
	DirectionalRadii map[string]float64
}

// Evaluation is the admission decision for one point.
type Evaluation struct {
	WithinServiceArea bool
	DistanceMiles     float64
	Direction         string
	LimitMiles        float64
	Message           string
}

var compassOctants = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (a *ServiceArea) Evaluate(lat, lng float64) Evaluation {
	distance := haversineMiles(a.EarthRadiusMiles, a.CenterLat, a.CenterLng, lat, lng)
	direction := octant(initialBearing(a.CenterLat, a.CenterLng, lat, lng))
	limit := a.limitFor(direction)

	eval := Evaluation{
		WithinServiceArea: distance <= limit,
		DistanceMiles:     distance,
		Direction:         direction,
		LimitMiles:        limit,
	}

	if eval.WithinServiceArea {
		eval.Message = fmt.Sprintf("Your address is %.0f miles %s of %s, within our %.0f mile service range.",
			math.Round(distance), direction, a.CenterName, limit)
	} else {
		eval.Message = fmt.Sprintf("Your address is %.0f miles %s of %s, outside our %.0f mile service range for that direction.",
			math.Round(distance), direction, a.CenterName, limit)
	}
	return eval
}

// limitFor resolves the maximum service distance toward a compass octant.
// Cardinal octants read their configured value directly; diagonals take the
// smaller of their two adjacent cardinal limits.
func (a *ServiceArea) limitFor(direction string) float64 {
	if len(a.DirectionalRadii) == 0 {
		return a.RadiusMiles
	}

	cardinal := func(name string) float64 {
		if v, ok := a.DirectionalRadii[name]; ok {
			return v
		}
		return a.RadiusMiles
	}

	switch direction {
	case "N", "E", "S", "W":
		return cardinal(direction)
	case "NE":
		return math.Min(cardinal("N"), cardinal("E"))
	case "SE":
		return math.Min(cardinal("S"), cardinal("E"))
	case "SW":
		return math.Min(cardinal("S"), cardinal("W"))
	case "NW":
		return math.Min(cardinal("N"), cardinal("W"))
	}
	return a.RadiusMiles
}

func haversineMiles(earthRadius, lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadius * c
}

// initialBearing returns the great-circle bearing from the first point to the
// second in degrees clockwise from north, normalized to [0, 360).
func initialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLon := toRad(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// octant buckets a bearing into one of the eight compass octants, each a 45
// degree sector centered on its compass point.
func octant(bearing float64) string {
	idx := int(math.Mod(bearing+22.5, 360) / 45)
	return compassOctants[idx]
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
