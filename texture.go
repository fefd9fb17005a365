package windfield

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/flywave/go3d/vec4"

	"github.com/flywave/go-geo"
)

// FieldTexture is the rasterized field of one hour: Width x Height texels of
// (direction, speed, temperature, elevation), row 0 at the northern edge.
// It is immutable once built.
type FieldTexture struct {
	Hour   int
	Width  int
	Height int
	Data   []float32

	bbox   BoundingBox
	georef *geo.GeoReference
}

func newFieldTexture(hour, width, height int, data []float32, bbox BoundingBox) *FieldTexture {
	return &FieldTexture{
		Hour:   hour,
		Width:  width,
		Height: height,
		Data:   data,
		bbox:   bbox,
		georef: geo.NewGeoReference(bbox.Rect(), epsg4326),
	}
}

func (t *FieldTexture) BBox() BoundingBox { return t.bbox }

func (t *FieldTexture) GeoReference() *geo.GeoReference { return t.georef }

// PixelSize is the extent of one texel in degrees.
func (t *FieldTexture) PixelSize() [2]float64 {
	return caclulatePixelSize(t.Width, t.Height, t.georef.GetBBox())
}

func caclulatePixelSize(width, height int, bbox vec2d.Rect) [2]float64 {
	pixelSize := [2]float64{0, 0}
	pixelSize[0] = (bbox.Max[0] - bbox.Min[0]) / float64(width)
	pixelSize[1] = (bbox.Max[1] - bbox.Min[1]) / float64(height)
	return pixelSize
}

// At returns the texel at column x and row y, clamping to the edges.
func (t *FieldTexture) At(x, y int) vec4.T {
	x = clampInt(x, 0, t.Width-1)
	y = clampInt(y, 0, t.Height-1)
	i := (y*t.Width + x) * TexelChannels
	return vec4.T{t.Data[i], t.Data[i+1], t.Data[i+2], t.Data[i+3]}
}

// SampleNearest returns the texel whose cell contains the normalized
// texture coordinate (u, v).
func (t *FieldTexture) SampleNearest(u, v float64) vec4.T {
	return t.At(int(math.Floor(u*float64(t.Width))), int(math.Floor(v*float64(t.Height))))
}

// SampleBilinear blends the four texel centers around (u, v).
func (t *FieldTexture) SampleBilinear(u, v float64) vec4.T {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := clamp(fx-x0, 0, 1), clamp(fy-y0, 0, 1)

	xi, yi := int(x0), int(y0)
	nw := t.At(xi, yi)
	ne := t.At(xi+1, yi)
	sw := t.At(xi, yi+1)
	se := t.At(xi+1, yi+1)

	var out vec4.T
	var interpolator BilinearInterpolator
	for c := 0; c < TexelChannels; c++ {
		out[c] = float32(interpolator.Interpolate(float64(sw[c]), float64(se[c]), float64(nw[c]), float64(ne[c]), tx, ty))
	}
	return out
}

// Sample looks up the world position p.
func (t *FieldTexture) Sample(p vec2d.T, bilinear bool) vec4.T {
	u, v := t.bbox.ToTexture(p)
	if bilinear {
		return t.SampleBilinear(u, v)
	}
	return t.SampleNearest(u, v)
}

// Channel extracts one channel as row-major float64 tile data.
func (t *FieldTexture) Channel(c int) []float64 {
	tiledata := make([]float64, t.Width*t.Height)
	for i := range tiledata {
		tiledata[i] = float64(t.Data[i*TexelChannels+c])
	}
	return tiledata
}

type Interpolator interface {
	Interpolate(southWest, southEast, northWest, northEast, x, y float64) float64
}

// BilinearInterpolator blends four corner values; x grows eastwards and y
// southwards from the north-west corner.
type BilinearInterpolator struct{}

func (BilinearInterpolator) Interpolate(southWest, southEast, northWest, northEast, x, y float64) float64 {
	return Lerp(Lerp(northWest, southWest, y), Lerp(northEast, southEast, y), x)
}

// TextureStack is the ordered, read-only sequence of field textures produced
// by one rasterization, together with the bounds shared by all of them.
// Stack positions, not hour numbers, are what continuous time indexes.
type TextureStack struct {
	Textures []*FieldTexture
	Bounds   BoundsTriple
	BBox     BoundingBox
	Width    int
	Height   int
}

func (s *TextureStack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Textures)
}

// Pair resolves continuous time t to the two textures it falls between and
// the blend factor. Indices are clamped into the stack, so reading past
// the last texture reuses it.
func (s *TextureStack) Pair(t float64) (from, to *FieldTexture, delta float64) {
	n := s.Len()
	if n == 0 {
		return nil, nil, 0
	}
	if math.IsNaN(t) || t < 0 {
		return s.Textures[0], s.Textures[0], 0
	}
	if math.IsInf(t, 1) {
		return s.Textures[n-1], s.Textures[n-1], 0
	}
	h := math.Floor(t)
	delta = t - h
	// compare as float, int(h) overflows for huge t
	if h >= float64(n-1) {
		return s.Textures[n-1], s.Textures[n-1], delta
	}
	i := int(h)
	return s.Textures[i], s.Textures[i+1], delta
}

// Sample blends the two textures adjacent to t at world position p.
func (s *TextureStack) Sample(t float64, p vec2d.T, bilinear bool) vec4.T {
	from, to, delta := s.Pair(t)
	if from == nil {
		return vec4.T{}
	}
	a := from.Sample(p, bilinear)
	if delta == 0 || from == to {
		return a
	}
	b := to.Sample(p, bilinear)
	return blendTexel(a, b, delta)
}

func blendTexel(a, b vec4.T, d float64) vec4.T {
	var out vec4.T
	for c := range out {
		out[c] = float32(Lerp(float64(a[c]), float64(b[c]), d))
	}
	return out
}

// Release drops every texture. The stack is empty afterwards.
func (s *TextureStack) Release() {
	if s == nil {
		return
	}
	for i := range s.Textures {
		s.Textures[i].Data = nil
		s.Textures[i] = nil
	}
	s.Textures = nil
}
