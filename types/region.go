package types

import "math"

// microDegree is one millionth of a degree, the precision Region stores
// coordinates at — roughly 11cm at the equator, rounded by callers to
// ~1km before a Region is ever persisted or transmitted.
type microDegree int32

// Region is an approximate geographic area: a human-readable name plus an
// optional rounded center point and radius. Distance comparisons treat
// the coordinates as planar, which is accurate enough at the scale this
// system cares about (neighborhoods, not continents).
type Region struct {
	Name      string
	HasCenter bool
	LatMicro  int32 // micro-degrees, rounded to ~1km
	LonMicro  int32
	RadiusKm  float64 // 0 means "point only, no radius"
}

// NewRegion constructs a Region with only a name, no coordinates.
func NewRegion(name string) Region {
	return Region{Name: name}
}

// WithCenter constructs a Region named name with a center point rounded
// to ~1km precision (roughly 0.01 degrees) and the given radius.
func WithCenter(name string, latDeg, lonDeg, radiusKm float64) Region {
	return Region{
		Name:      name,
		HasCenter: true,
		LatMicro:  roundToKm(latDeg),
		LonMicro:  roundToKm(lonDeg),
		RadiusKm:  radiusKm,
	}
}

// roundToKm rounds a degree value to the nearest ~0.01 degrees (~1.1km),
// expressed in micro-degrees.
func roundToKm(deg float64) int32 {
	const step = 0.01
	rounded := math.Round(deg/step) * step
	return int32(math.Round(rounded * 1e6))
}

func (r Region) lat() float64 { return float64(r.LatMicro) / 1e6 }
func (r Region) lon() float64 { return float64(r.LonMicro) / 1e6 }

// kmPerDegreeLat and kmPerDegreeLon (at mid-latitudes) convert a planar
// degree delta to kilometers; sufficient for the short distances (tens of
// km) this system reasons about.
const kmPerDegreeLat = 111.0

// DistanceKm returns the approximate planar distance in kilometers
// between two regions that both have a center point. If either lacks a
// center, it returns false.
func DistanceKm(a, b Region) (float64, bool) {
	if !a.HasCenter || !b.HasCenter {
		return 0, false
	}
	dLat := (a.lat() - b.lat()) * kmPerDegreeLat
	midLat := (a.lat() + b.lat()) / 2
	kmPerDegreeLon := kmPerDegreeLat * math.Cos(midLat*math.Pi/180)
	dLon := (a.lon() - b.lon()) * kmPerDegreeLon
	return math.Sqrt(dLat*dLat + dLon*dLon), true
}

// WithinKm reports whether two regions are within radiusKm of each other,
// accounting for each region's own radius. Regions lacking coordinates
// are compared by name only.
func WithinKm(a, b Region, radiusKm float64) bool {
	dist, ok := DistanceKm(a, b)
	if !ok {
		return a.Name != "" && a.Name == b.Name
	}
	return dist <= radiusKm+a.RadiusKm+b.RadiusKm
}
