// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

// Vec3 is a point or direction in map space.
type Vec3 [3]float32

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns v multiplied by the scalar s
func Scale(s float32, v Vec3) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// FMA returns a + s*b
func FMA(a Vec3, s float32, b Vec3) Vec3 {
	return Vec3{a[0] + s*b[0], a[1] + s*b[1], a[2] + s*b[2]}
}

// Dot returns a dot b
func Dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// DoublePrecDot returns a dot b calculated in double precision.
// The level compiler computes texture coordinates this way and the
// lightmap lookup has to agree with it.
func DoublePrecDot(a, b Vec3) float64 {
	return float64(a[0])*float64(b[0]) +
		float64(a[1])*float64(b[1]) +
		float64(a[2])*float64(b[2])
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float32) Vec3 {
	return Vec3{
		a[0] + frac*(b[0]-a[0]),
		a[1] + frac*(b[1]-a[1]),
		a[2] + frac*(b[2]-a[2]),
	}
}

// Min returns the componentwise minimum.
func Min(a, b Vec3) Vec3 {
	return Vec3{
		min(a[0], b[0]),
		min(a[1], b[1]),
		min(a[2], b[2]),
	}
}

// Max returns the componentwise maximum.
func Max(a, b Vec3) Vec3 {
	return Vec3{
		max(a[0], b[0]),
		max(a[1], b[1]),
		max(a[2], b[2]),
	}
}

// RadiusFromBounds returns the radius of the sphere around the origin
// that contains the box.
func RadiusFromBounds(mins, maxs Vec3) float32 {
	var corner Vec3
	for i := 0; i < 3; i++ {
		corner[i] = max(math32.Abs(mins[i]), math32.Abs(maxs[i]))
	}
	return corner.Length()
}
