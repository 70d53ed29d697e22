// Package geom provides the spherical geometry primitives used by kdsphere.
//
// Angular coordinates are (longitude, latitude) pairs measured in radians.
// Points are embedded onto the unit sphere in 3D Cartesian space, where
// Euclidean (chord) distances can be computed and later converted back to
// great-circle angular distances.
//
// All functions are pure and allocation-free except for the batch helpers.
package geom

import (
	"fmt"
	"math"
)

// UnitRadius is the radius of the sphere every point is embedded on.
// Embed always normalizes to the unit sphere, so distance conversions
// performed by kdsphere pass this value as the radius argument.
const UnitRadius = 1.0

// Point is an angular (longitude, latitude) pair measured in radians.
//
// Longitude is periodic and has no enforced range. Latitude is expected in
// [-π/2, π/2] but is not validated; out-of-range values produce a
// well-defined but geographically meaningless embedding. NaN and infinite
// inputs propagate into the embedded coordinates.
type Point struct {
	Lon float64
	Lat float64
}

// FromDegrees converts a (longitude, latitude) pair in degrees to a Point.
func FromDegrees(lon, lat float64) Point {
	return Point{
		Lon: lon * math.Pi / 180,
		Lat: lat * math.Pi / 180,
	}
}

// Vec3 is a 3D Cartesian point.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean norm of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Embed maps an angular point onto the unit sphere.
func Embed(p Point) Vec3 {
	sinLon, cosLon := math.Sincos(p.Lon)
	sinLat, cosLat := math.Sincos(p.Lat)
	return Vec3{
		X: cosLat * cosLon,
		Y: cosLat * sinLon,
		Z: sinLat,
	}
}

// EmbedAll embeds every point in pts. The result at position i depends only
// on pts[i].
func EmbedAll(pts []Point) []Vec3 {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Vec3, len(pts))
	for i, p := range pts {
		out[i] = Embed(p)
	}
	return out
}

// ChordToAngle converts a 3D chord distance between two points on a sphere
// of the given radius into the great-circle angle between them, in [0, π].
//
// The arcsin ratio is clamped to [-1, 1] so that chord lengths a roundoff
// beyond the sphere diameter yield π instead of NaN.
func ChordToAngle(chord, radius float64) float64 {
	ratio := chord / (2 * radius)
	if ratio > 1 {
		ratio = 1
	} else if ratio < -1 {
		ratio = -1
	}
	return 2 * math.Asin(ratio)
}

// AngleToChord converts a great-circle angle into the chord length it
// subtends on a sphere of the given radius.
func AngleToChord(angle, radius float64) float64 {
	return 2 * radius * math.Sin(angle/2)
}

// Haversine returns the great-circle angle between a and b in radians.
func Haversine(a, b Point) float64 {
	sinLat := math.Sin((b.Lat - a.Lat) / 2)
	sinLon := math.Sin((b.Lon - a.Lon) / 2)
	h := sinLat*sinLat + math.Cos(a.Lat)*math.Cos(b.Lat)*sinLon*sinLon
	return 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ErrInvalidShape indicates a row of a raw coordinate matrix that is not a
// (longitude, latitude) pair.
type ErrInvalidShape struct {
	Row    int
	Length int
}

func (e *ErrInvalidShape) Error() string {
	return fmt.Sprintf("invalid point shape: row %d has %d coordinates, want 2", e.Row, e.Length)
}

// PointsFromSlice converts an N×2 coordinate matrix into points. Rows that
// are not exactly two coordinates wide fail with ErrInvalidShape before any
// conversion work is done.
func PointsFromSlice(rows [][]float64) ([]Point, error) {
	for i, row := range rows {
		if len(row) != 2 {
			return nil, &ErrInvalidShape{Row: i, Length: len(row)}
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]Point, len(rows))
	for i, row := range rows {
		out[i] = Point{Lon: row[0], Lat: row[1]}
	}
	return out, nil
}
