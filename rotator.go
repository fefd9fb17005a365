package windfield

import (
	"math"

	mat2d "github.com/flywave/go3d/float64/mat2"
	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Rotator turns planar vectors clockwise by Degrees.
type Rotator struct {
	Degrees float64
}

func (r Rotator) RotateVector(v vec2d.T) vec2d.T {
	m := r.matrix()
	m.TransformVec2(&v)
	return v
}

func (r Rotator) matrix() (m mat2d.T) {
	sin, cos := math.Sincos(r.Degrees * math.Pi / 180)
	m[0][0] = cos
	m[0][1] = -sin
	m[1][0] = sin
	m[1][1] = cos
	return m
}
