// Package space carries the constellation geometry: ECI positions for the
// Walker-Delta shell, distances, speed-of-light latency and visibility
// checks. The ISL topology itself never looks at any of this (links are
// fixed by plane/slot arithmetic); positions only feed per-link
// propagation delays and trace output.
package space

import (
	"math"
	"time"

	gosat "github.com/joshuaferrara/go-satellite"
)

const (
	EarthRadiusKm   = 6371.0
	OrbitAltitudeKm = 550.0
	OrbitRadiusKm   = EarthRadiusKm + OrbitAltitudeKm
	InclinationDeg  = 53.0

	speedOfLightKmS = 299792.458
	// standard gravitational parameter of Earth, km^3/s^2
	earthMuKm3S2 = 398600.4418
)

type Vector3 struct {
	X float64 `parquet:"pos_x"`
	Y float64 `parquet:"pos_y"`
	Z float64 `parquet:"pos_z"`
}

type LatLong struct {
	Latitude  float64 `parquet:"latitude"`
	Longitude float64 `parquet:"longitude"`
}

// Distance is the straight-line separation in km.
func (v Vector3) Distance(other Vector3) float64 {
	dx := other.X - v.X
	dy := other.Y - v.Y
	dz := other.Z - v.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v Vector3) AsgosatVector() gosat.Vector3 {
	return gosat.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// WalkerDeltaPositions returns ECI positions (km) for the 24-satellite
// Walker-Delta 53:24/3/1 shell at the given offset from epoch. Circular
// orbits: RAAN spaced 120 degrees per plane, true anomaly spaced 45
// degrees per slot, all satellites advancing at the mean motion of the
// 550 km shell. Index i is satellite id (plane*8 + slot), matching the
// topology generator.
func WalkerDeltaPositions(elapsed time.Duration) []Vector3 {
	const numPlanes = 3
	const satsPerPlane = 8

	inclination := InclinationDeg * math.Pi / 180
	// mean motion for a circular orbit, rad/s
	meanMotion := math.Sqrt(earthMuKm3S2 / (OrbitRadiusKm * OrbitRadiusKm * OrbitRadiusKm))
	advance := meanMotion * elapsed.Seconds()

	positions := make([]Vector3, numPlanes*satsPerPlane)
	for plane := 0; plane < numPlanes; plane++ {
		raan := float64(plane) * (2 * math.Pi / numPlanes)
		for slot := 0; slot < satsPerPlane; slot++ {
			anomaly := float64(slot)*(2*math.Pi/satsPerPlane) + advance

			positions[plane*satsPerPlane+slot] = Vector3{
				X: OrbitRadiusKm * (math.Cos(raan)*math.Cos(anomaly) -
					math.Sin(raan)*math.Sin(anomaly)*math.Cos(inclination)),
				Y: OrbitRadiusKm * (math.Sin(raan)*math.Cos(anomaly) +
					math.Cos(raan)*math.Sin(anomaly)*math.Cos(inclination)),
				Z: OrbitRadiusKm * math.Sin(anomaly) * math.Sin(inclination),
			}
		}
	}
	return positions
}

// LLAFromPosition converts an ECI position to geodetic LatLong in degrees
// at the given time.
func LLAFromPosition(position Vector3, t time.Time) LatLong {
	jday := gosat.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	gmst := gosat.ThetaG_JD(jday)
	_, _, ll := gosat.ECIToLLA(position.AsgosatVector(), gmst)
	return LatLong{
		Latitude:  ll.Latitude / (math.Pi / 180),
		Longitude: ll.Longitude / (math.Pi / 180),
	}
}

// Latency is the one-way propagation delay in seconds for a straight
// optical path of the given length.
func Latency(distanceKm float64) float64 {
	return distanceKm / speedOfLightKmS
}

// Reachable reports whether two positions are within the given range.
func Reachable(a, b Vector3, maxDistanceKm float64) bool {
	return a.Distance(b) <= maxDistanceKm
}
