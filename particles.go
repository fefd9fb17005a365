package windfield

import (
	"errors"
	"math"
	"math/rand"
	"runtime"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec4"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultParticleCount = 20000
	DefaultStepScale     = 0.1
)

// RespawnPolicy selects where a particle goes after leaving the bounding box.
type RespawnPolicy int

const (
	// ResetToOrigin moves the particle back to the position it was seeded at.
	ResetToOrigin RespawnPolicy = iota
	// RespawnRandom moves the particle to a pseudo-random position in the
	// box derived from the seed, the particle index and its position.
	RespawnRandom
)

func (p RespawnPolicy) String() string {
	switch p {
	case RespawnRandom:
		return "random"
	default:
		return "origin"
	}
}

type ParticleOptions struct {
	Count     int
	Seed      int64
	StepScale float64
	Workers   int
	Respawn   RespawnPolicy
	Bilinear  bool
	// AlphaCap and HeightFactor style the draw attributes; zero uses
	// DefaultAlphaCap and DefaultHeightFactor.
	AlphaCap     float64
	HeightFactor float64
}

// ParticleAttribute is what a renderer needs to draw one particle.
type ParticleAttribute struct {
	// Position is lon, lat and the elevation under the particle divided by
	// the height factor.
	Position    vec3d.T
	Speed       float64
	Temperature float64
	Color       vec4.T
}

type bufferRole int

const (
	readA bufferRole = iota
	readB
)

// ParticleAdvector moves particles through the texture stack one step per
// frame. It owns two buffers; one is read while the other is written, and the
// roles flip only after every particle of a step has been written.
type ParticleAdvector struct {
	stack *TextureStack
	opts  ParticleOptions

	bufferA []ParticleRecord
	bufferB []ParticleRecord
	role    bufferRole
}

func NewParticleAdvector(stack *TextureStack, opts ParticleOptions) (*ParticleAdvector, error) {
	if stack.Len() == 0 {
		return nil, errors.New("windfield: particle advector needs a non-empty texture stack")
	}
	if opts.Count <= 0 {
		opts.Count = DefaultParticleCount
	}
	if opts.StepScale == 0 {
		opts.StepScale = DefaultStepScale
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.AlphaCap <= 0 {
		opts.AlphaCap = DefaultAlphaCap
	}
	if opts.HeightFactor == 0 {
		opts.HeightFactor = DefaultHeightFactor
	}

	a := &ParticleAdvector{
		stack:   stack,
		opts:    opts,
		bufferA: make([]ParticleRecord, opts.Count),
		bufferB: make([]ParticleRecord, opts.Count),
		role:    readA,
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bbox := stack.BBox
	for i := range a.bufferA {
		p := bbox.FromTexture(rng.Float64(), rng.Float64())
		a.bufferA[i] = ParticleRecord{Position: p, Origin: p}
	}
	copy(a.bufferB, a.bufferA)
	return a, nil
}

func (a *ParticleAdvector) buffers() (read, write []ParticleRecord) {
	if a.role == readA {
		return a.bufferA, a.bufferB
	}
	return a.bufferB, a.bufferA
}

// Current returns the buffer written by the last completed step. It stays
// valid until the next call to Step.
func (a *ParticleAdvector) Current() []ParticleRecord {
	read, _ := a.buffers()
	return read
}

// Snapshot copies the current buffer.
func (a *ParticleAdvector) Snapshot() []ParticleRecord {
	return append([]ParticleRecord(nil), a.Current()...)
}

// Step advances every particle once at time t, writing into the write
// buffer in parallel chunks, then flips the buffer roles.
func (a *ParticleAdvector) Step(t float64) {
	read, write := a.buffers()
	if read == nil {
		return
	}

	n := len(read)
	per := (n + a.opts.Workers - 1) / a.opts.Workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += per {
		hi := lo + per
		if hi > n {
			hi = n
		}
		lo := lo
		g.Go(func() error {
			a.stepRange(read, write, lo, hi, t)
			return nil
		})
	}
	g.Wait()

	if a.role == readA {
		a.role = readB
	} else {
		a.role = readA
	}
}

// StepFrom computes one step from read into write without touching the
// advector's own buffers. For a fixed read buffer and t the result is always
// the same.
func (a *ParticleAdvector) StepFrom(read []ParticleRecord, t float64, write []ParticleRecord) {
	n := len(read)
	if len(write) < n {
		n = len(write)
	}
	a.stepRange(read, write, 0, n, t)
}

func (a *ParticleAdvector) stepRange(read, write []ParticleRecord, lo, hi int, t float64) {
	bbox := a.stack.BBox
	speedRange := a.stack.Bounds.Speed()
	for i := lo; i < hi; i++ {
		rec := read[i]
		texel := a.stack.Sample(t, rec.Position, a.opts.Bilinear)

		angle := float64(texel[ChannelDirection]) * 2 * math.Pi
		speed := speedRange.Normalize(float64(texel[ChannelSpeed]))
		offset := vec2d.T{math.Cos(angle), math.Sin(angle)}
		offset.Scale(speed * a.opts.StepScale)
		candidate := vec2d.Add(&rec.Position, &offset)

		next := ParticleRecord{Position: candidate, Origin: rec.Origin}
		if !bbox.Contains(candidate) {
			next.Position = a.respawn(i, rec)
		}
		write[i] = next
	}
}

func (a *ParticleAdvector) respawn(i int, rec ParticleRecord) vec2d.T {
	if a.opts.Respawn != RespawnRandom {
		return rec.Origin
	}
	h := splitmix64(uint64(a.opts.Seed) ^ uint64(i)*0x9e3779b97f4a7c15 ^ math.Float64bits(rec.Position[0]) ^ math.Float64bits(rec.Position[1])<<1)
	u := float64(h>>11) / (1 << 53)
	h = splitmix64(h)
	v := float64(h>>11) / (1 << 53)
	return a.stack.BBox.FromTexture(u, v)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Attributes colours records at time t from the texel under each particle,
// the same way glyphs are coloured. It only reads the stack.
func (a *ParticleAdvector) Attributes(t float64, records []ParticleRecord) []ParticleAttribute {
	if a.stack.Len() == 0 {
		return nil
	}
	out := make([]ParticleAttribute, len(records))
	for i, rec := range records {
		texel := a.stack.Sample(t, rec.Position, a.opts.Bilinear)
		color, speed, temp := fieldColor(texel, a.stack.Bounds, a.opts.AlphaCap)
		out[i] = ParticleAttribute{
			Position:    vec3d.T{rec.Position[0], rec.Position[1], float64(texel[ChannelElevation]) / a.opts.HeightFactor},
			Speed:       speed,
			Temperature: temp,
			Color:       color,
		}
	}
	return out
}

// Release frees both buffers. Later steps do nothing.
func (a *ParticleAdvector) Release() {
	a.bufferA = nil
	a.bufferB = nil
}
