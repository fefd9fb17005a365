package windfield

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/flywave/go3d/vec4"
)

const (
	DefaultGlyphColumns = 200
	DefaultGlyphRows    = 100
	DefaultAlphaCap     = 0.7
)

type Glyph struct {
	Position vec2d.T
	// Tip is the end of the glyph segment; its length scales with speed.
	Tip   vec2d.T
	Angle float64
	// Speed and Temperature are normalized into [0, 1].
	Speed       float64
	Temperature float64
	Direction   vec2d.T
	// Color is RGBA with components in [0, 1].
	Color vec4.T
}

type GlyphOptions struct {
	Columns  int
	Rows     int
	AlphaCap float64
	// Length is the glyph length in degrees at full normalized speed. Zero
	// uses one grid cell.
	Length   float64
	Bilinear bool
}

// Uniforms are the per-frame values a renderer needs next to the glyph
// attributes.
type Uniforms struct {
	BBox     BoundingBox
	GridSize [2]int
	Bounds   BoundsTriple
	Delta    float64
	Hours    [2]int
}

type VectorFieldRenderer struct {
	opts GlyphOptions
}

func NewVectorFieldRenderer(opts GlyphOptions) *VectorFieldRenderer {
	if opts.Columns <= 0 {
		opts.Columns = DefaultGlyphColumns
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultGlyphRows
	}
	if opts.AlphaCap <= 0 {
		opts.AlphaCap = DefaultAlphaCap
	}
	return &VectorFieldRenderer{opts: opts}
}

// Render samples the stack at time t on a uniform grid of glyph positions
// placed at cell centers of the bounding box.
func (r *VectorFieldRenderer) Render(t float64, stack *TextureStack) []Glyph {
	if stack.Len() == 0 {
		return nil
	}
	cols, rows := r.opts.Columns, r.opts.Rows
	bbox := stack.BBox
	length := r.glyphLength(bbox)

	glyphs := make([]Glyph, 0, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			u := (float64(i) + 0.5) / float64(cols)
			v := (float64(j) + 0.5) / float64(rows)
			p := bbox.FromTexture(u, v)
			glyphs = append(glyphs, r.glyphAt(p, stack.Sample(t, p, r.opts.Bilinear), stack.Bounds, length))
		}
	}
	return glyphs
}

// GlyphAt renders the single glyph at world position p.
func (r *VectorFieldRenderer) GlyphAt(t float64, stack *TextureStack, p vec2d.T) Glyph {
	return r.glyphAt(p, stack.Sample(t, p, r.opts.Bilinear), stack.Bounds, r.glyphLength(stack.BBox))
}

func (r *VectorFieldRenderer) glyphLength(bbox BoundingBox) float64 {
	if r.opts.Length != 0 {
		return r.opts.Length
	}
	return math.Min(bbox.Width()/float64(r.opts.Columns), bbox.Height()/float64(r.opts.Rows))
}

func (r *VectorFieldRenderer) glyphAt(p vec2d.T, texel vec4.T, bounds BoundsTriple, length float64) Glyph {
	angle := float64(texel[ChannelDirection]) * 2 * math.Pi
	color, speed, temp := fieldColor(texel, bounds, r.opts.AlphaCap)

	dir := vec2d.T{math.Cos(angle), math.Sin(angle)}
	tip := vec2d.T{p[0] + dir[0]*speed*length, p[1] + dir[1]*speed*length}

	return Glyph{
		Position:    p,
		Tip:         tip,
		Angle:       angle,
		Speed:       speed,
		Temperature: temp,
		Direction:   dir,
		Color:       color,
	}
}

// fieldColor maps a texel to a fully saturated hue of (1 - temperature)
// turns, with alpha growing with speed up to alphaCap.
func fieldColor(texel vec4.T, bounds BoundsTriple, alphaCap float64) (color vec4.T, speed, temp float64) {
	speed = clamp(bounds.Speed().Normalize(float64(texel[ChannelSpeed])), 0, 1)
	temp = clamp(bounds.Temperature().Normalize(float64(texel[ChannelTemperature])), 0, 1)

	red, green, blue := hsvToRGB((1-temp)*360, 1, 1)
	alpha := Lerp(0, alphaCap, math.Pow(speed, 0.4))
	return vec4.T{float32(red), float32(green), float32(blue), float32(alpha)}, speed, temp
}

func (r *VectorFieldRenderer) Uniforms(t float64, stack *TextureStack) Uniforms {
	u := Uniforms{
		BBox:     stack.BBox,
		GridSize: [2]int{r.opts.Columns, r.opts.Rows},
		Bounds:   stack.Bounds,
	}
	from, to, delta := stack.Pair(t)
	if from == nil {
		return u
	}
	u.Delta = delta
	u.Hours = [2]int{from.Hour, to.Hour}
	return u
}
