package core

import (
	"math"
)

// Geographic is a position on a generated body. Y is the polar axis.
type Geographic struct {
	Lat float64 // radians [-π/2, π/2], positive = north
	Lon float64 // radians [-π, π], positive toward +Z
	Alt float64 // height above the base radius, mesh units
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// GeographicToCartesian converts geographic coordinates to a mesh position
func GeographicToCartesian(g Geographic, radius float32) Vec3 {
	r := float64(radius) + g.Alt
	cosLat := math.Cos(g.Lat)

	return Vec3{
		float32(r * cosLat * math.Cos(g.Lon)),
		float32(r * math.Sin(g.Lat)),
		float32(r * cosLat * math.Sin(g.Lon)),
	}
}

// CartesianToGeographic converts a mesh position to geographic coordinates
func CartesianToGeographic(p Vec3, radius float32) Geographic {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	r := math.Sqrt(x*x + y*y + z*z)

	// Handle special case of origin
	if r < 1e-10 {
		return Geographic{Lat: 0, Lon: 0, Alt: -float64(radius)}
	}

	return Geographic{
		Lat: math.Asin(y / r),
		Lon: math.Atan2(z, x),
		Alt: r - float64(radius),
	}
}

// NormalizeCoordinates clamps latitude and wraps longitude into [-π, π].
// An infinite longitude becomes NaN.
func NormalizeCoordinates(g Geographic) Geographic {
	if g.Lat > math.Pi/2 {
		g.Lat = math.Pi / 2
	} else if g.Lat < -math.Pi/2 {
		g.Lat = -math.Pi / 2
	}

	g.Lon = math.Remainder(g.Lon, 2*math.Pi)
	return g
}
