package windfield

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
)

const (
	ChannelDirection = iota
	ChannelSpeed
	ChannelTemperature
	ChannelElevation
)

// MeasurementChannels is the number of per-station channels in one hour of
// measurements. Texels carry one more channel for the station elevation.
const MeasurementChannels = 3

const TexelChannels = 4

// NoData marks a channel value without a measurement.
const NoData = float32(0)

type Station struct {
	Index     int     `json:"index"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Elevation float64 `json:"elevation"`
}

func (s Station) Position() vec2d.T {
	return vec2d.T{s.Lon, s.Lat}
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func EmptyRange() Range {
	return Range{Min: maxFloat, Max: -maxFloat}
}

func (r Range) Empty() bool {
	return r.Min > r.Max
}

func (r *Range) Extend(v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

func (r *Range) Merge(o Range) {
	if o.Empty() {
		return
	}
	r.Extend(o.Min)
	r.Extend(o.Max)
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Normalize maps v into [0, 1] relative to the range. Empty or zero-width
// ranges normalize to 0.
func (r Range) Normalize(v float64) float64 {
	span := r.Max - r.Min
	if r.Empty() || span == 0 {
		return 0
	}
	return (v - r.Min) / span
}

// BoundsTriple holds the value range of every measurement channel over all
// rasterized vertices of a texture stack. Channel ranges skip NoData values,
// the elevation range does not.
type BoundsTriple struct {
	Channels  [MeasurementChannels]Range `json:"channels"`
	Elevation Range                      `json:"elevation"`
}

func NewBoundsTriple() BoundsTriple {
	b := BoundsTriple{Elevation: EmptyRange()}
	for i := range b.Channels {
		b.Channels[i] = EmptyRange()
	}
	return b
}

func (b BoundsTriple) Direction() Range   { return b.Channels[ChannelDirection] }
func (b BoundsTriple) Speed() Range       { return b.Channels[ChannelSpeed] }
func (b BoundsTriple) Temperature() Range { return b.Channels[ChannelTemperature] }

// Channel returns the range of texel channel c, elevation included.
func (b BoundsTriple) Channel(c int) Range {
	if c == ChannelElevation {
		return b.Elevation
	}
	return b.Channels[c]
}

func (b *BoundsTriple) Merge(o BoundsTriple) {
	for i := range b.Channels {
		b.Channels[i].Merge(o.Channels[i])
	}
	b.Elevation.Merge(o.Elevation)
}

type ParticleRecord struct {
	Position vec2d.T
	Origin   vec2d.T
}
