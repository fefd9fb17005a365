package windfield

import (
	"errors"
	"log/slog"
)

type SceneOptions struct {
	Glyphs    GlyphOptions
	Particles ParticleOptions
	Cover     CoverOptions
	Logger    *slog.Logger
}

// FrameOutput is everything drawn for one frame. Particles is a copy of the
// buffer produced by the previous step and ParticleAttributes is index
// aligned with it. Glyphs and particles outside the triangulated area are
// fully transparent.
type FrameOutput struct {
	T                  float64
	Uniforms           Uniforms
	Glyphs             []Glyph
	Cover              *CoverMesh
	Particles          []ParticleRecord
	ParticleAttributes []ParticleAttribute
}

// Scene drives one visualization: per frame it draws from the current state
// and then advances the particles once.
type Scene struct {
	stack     *TextureStack
	tri       *Triangulation
	glyphs    *VectorFieldRenderer
	cover     *CoverMesh
	particles *ParticleAdvector
	logger    *slog.Logger
	frames    int
	closed    bool
}

func NewScene(stack *TextureStack, tri *Triangulation, opts SceneOptions) (*Scene, error) {
	if stack.Len() == 0 {
		return nil, errors.New("windfield: scene needs a non-empty texture stack")
	}
	particles, err := NewParticleAdvector(stack, opts.Particles)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scene{
		stack:     stack,
		tri:       tri,
		glyphs:    NewVectorFieldRenderer(opts.Glyphs),
		cover:     NewDelaunayCoverRenderer(opts.Cover).Render(tri),
		particles: particles,
		logger:    logger,
	}, nil
}

// Frame renders at time t and then steps the particles. The render only
// reads the buffer completed by the previous frame's step.
func (s *Scene) Frame(t float64) FrameOutput {
	if s.closed {
		return FrameOutput{T: t}
	}

	out := FrameOutput{
		T:         t,
		Uniforms:  s.glyphs.Uniforms(t, s.stack),
		Glyphs:    s.glyphs.Render(t, s.stack),
		Cover:     s.cover,
		Particles: s.particles.Snapshot(),
	}
	out.ParticleAttributes = s.particles.Attributes(t, out.Particles)
	if s.tri != nil {
		for i := range out.Glyphs {
			if !s.tri.Covers(out.Glyphs[i].Position) {
				out.Glyphs[i].Color[3] = 0
			}
		}
		for i := range out.ParticleAttributes {
			if !s.tri.Covers(out.Particles[i].Position) {
				out.ParticleAttributes[i].Color[3] = 0
			}
		}
	}

	s.particles.Step(t)
	s.frames++
	s.logger.Debug("frame", "t", t, "delta", out.Uniforms.Delta, "frame", s.frames)
	return out
}

func (s *Scene) Particles() *ParticleAdvector { return s.particles }

// Close frees the particle buffers and the texture stack. Closing twice is
// harmless.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.particles.Release()
	s.stack.Release()
	s.logger.Debug("scene closed", "frames", s.frames)
}
