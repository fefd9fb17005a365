package windfield

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/flywave/go3d/vec4"
)

// DefaultMaxTexels caps the number of float32 values a single raster target
// may hold.
const DefaultMaxTexels = 1 << 26

// RasterTarget is an offscreen RGBA32F render target. Row 0 is the northern
// edge of the bounding box it is mapped to.
type RasterTarget struct {
	Width  int
	Height int
	Pix    []float32
}

func NewRasterTarget(width, height, maxTexels int) (*RasterTarget, error) {
	if err := checkTargetSize(width, height, maxTexels); err != nil {
		return nil, err
	}
	return &RasterTarget{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*TexelChannels),
	}, nil
}

func checkTargetSize(width, height, maxTexels int) error {
	if width <= 0 || height <= 0 {
		return &RasterTargetError{Width: width, Height: height, Reason: "non-positive size"}
	}
	if maxTexels <= 0 {
		maxTexels = DefaultMaxTexels
	}
	if width > maxTexels/height/TexelChannels {
		return &RasterTargetError{Width: width, Height: height, Reason: "exceeds texel limit"}
	}
	return nil
}

// DrawTriangle rasterizes a triangle given in pixel coordinates, blending the
// per-vertex attributes barycentrically at every covered pixel center. Edges
// shared by two triangles are owned by exactly one of them (top-left rule).
// It returns the number of pixels written.
func (r *RasterTarget) DrawTriangle(pos [3]vec2d.T, attrs [3]vec4.T) int {
	area := orient(pos[0], pos[1], pos[2])
	if area == 0 {
		return 0
	}
	if area < 0 {
		pos[1], pos[2] = pos[2], pos[1]
		attrs[1], attrs[2] = attrs[2], attrs[1]
		area = -area
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	x0 := clampInt(int(math.Floor(minX-0.5)), 0, r.Width-1)
	x1 := clampInt(int(math.Ceil(maxX-0.5)), 0, r.Width-1)
	y0 := clampInt(int(math.Floor(minY-0.5)), 0, r.Height-1)
	y1 := clampInt(int(math.Ceil(maxY-0.5)), 0, r.Height-1)
	if minX > float64(r.Width) || maxX < 0 || minY > float64(r.Height) || maxY < 0 {
		return 0
	}

	// edge k is opposite vertex k
	edges := [3][2]vec2d.T{{pos[1], pos[2]}, {pos[2], pos[0]}, {pos[0], pos[1]}}
	var owns [3]bool
	for k, e := range edges {
		owns[k] = isTopLeft(e[0], e[1])
	}

	written := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := vec2d.T{float64(x) + 0.5, float64(y) + 0.5}
			var w [3]float64
			inside := true
			for k, e := range edges {
				ev := edgeFunction(e[0], e[1], p)
				if ev < 0 || (ev == 0 && !owns[k]) {
					inside = false
					break
				}
				w[k] = ev / area
			}
			if !inside {
				continue
			}

			i := (y*r.Width + x) * TexelChannels
			for c := 0; c < TexelChannels; c++ {
				v := w[0]*float64(attrs[0][c]) + w[1]*float64(attrs[1][c]) + w[2]*float64(attrs[2][c])
				r.Pix[i+c] = float32(v)
			}
			written++
		}
	}
	return written
}

// ReadPixels copies the target into a new dense array.
func (r *RasterTarget) ReadPixels() []float32 {
	out := make([]float32, len(r.Pix))
	copy(out, r.Pix)
	return out
}

// edgeFunction evaluates orient(a, b, p) with the edge endpoints in a fixed
// order so that the two triangles sharing an edge see exactly negated values.
func edgeFunction(a, b, p vec2d.T) float64 {
	if lexLess(b, a) {
		return -orient(b, a, p)
	}
	return orient(a, b, p)
}

// isTopLeft reports whether the directed edge of a positively oriented
// triangle owns the pixel centers lying exactly on it.
func isTopLeft(a, b vec2d.T) bool {
	dx, dy := b[0]-a[0], b[1]-a[1]
	return dy > 0 || (dy == 0 && dx < 0)
}
