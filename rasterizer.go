package windfield

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/flywave/go3d/vec4"
	"golang.org/x/sync/errgroup"
)

const DefaultGridWidth = 512

type RasterOptions struct {
	// Width of every texture in texels. The height follows the bounding box
	// aspect ratio.
	Width int
	// Hours lists the cube hours to render, in output order. Nil renders
	// every hour of the cube.
	Hours     []int
	Workers   int
	MaxTexels int
	Logger    *slog.Logger
}

type FieldRasterizer struct {
	width     int
	hours     []int
	workers   int
	maxTexels int
	logger    *slog.Logger
}

func NewFieldRasterizer(opts RasterOptions) *FieldRasterizer {
	r := &FieldRasterizer{
		width:     opts.Width,
		hours:     opts.Hours,
		workers:   opts.Workers,
		maxTexels: opts.MaxTexels,
		logger:    opts.Logger,
	}
	if r.width == 0 {
		r.width = DefaultGridWidth
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if r.maxTexels <= 0 {
		r.maxTexels = DefaultMaxTexels
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Rasterize renders the requested hours of the cube over the triangulation
// into a texture stack covering bbox. Every texel holds the barycentric blend
// of the three vertex measurements plus the blended station elevation; texels
// outside the triangulation stay NoData.
func (r *FieldRasterizer) Rasterize(ctx context.Context, tri *Triangulation, bbox BoundingBox, cube *MeasurementCube) (*TextureStack, error) {
	if tri == nil || len(tri.Triangles) == 0 {
		return nil, &InsufficientPointsError{Got: 0}
	}
	if cube.Stations() != len(tri.Stations) {
		return nil, &DataShapeMismatchError{
			Len:      cube.Hours() * cube.Stations() * MeasurementChannels,
			Stations: len(tri.Stations),
			Channels: MeasurementChannels,
			Reason:   fmt.Sprintf("cube carries %d stations", cube.Stations()),
		}
	}

	hours := r.hours
	if hours == nil {
		hours = make([]int, cube.Hours())
		for h := range hours {
			hours[h] = h
		}
	}
	for _, h := range hours {
		if h < 0 || h >= cube.Hours() {
			return nil, &DataShapeMismatchError{
				Len:      cube.Hours() * cube.Stations() * MeasurementChannels,
				Stations: cube.Stations(),
				Channels: MeasurementChannels,
				Reason:   fmt.Sprintf("hour %d outside [0, %d)", h, cube.Hours()),
			}
		}
	}

	width := r.width
	height := bbox.GridHeight(width)
	if err := checkTargetSize(width, height, r.maxTexels); err != nil {
		return nil, err
	}

	// vertices in target pixel space, shared by every hour
	pixels := make([][3]vec2d.T, len(tri.Triangles))
	for i, t := range tri.Triangles {
		for k, p := range t.Positions {
			u, v := bbox.ToTexture(p)
			pixels[i][k] = vec2d.T{u * float64(width), v * float64(height)}
		}
	}

	start := time.Now()
	textures := make([]*FieldTexture, len(hours))
	bounds := make([]BoundsTriple, len(hours))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, h := range hours {
		i, h := i, h
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tex, b, err := r.rasterizeHour(tri, pixels, bbox, cube, h, width, height)
			if err != nil {
				return fmt.Errorf("rasterize hour %d: %w", h, err)
			}
			textures[i], bounds[i] = tex, b
			r.logger.Debug("hour rasterized", "hour", h, "width", width, "height", height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := NewBoundsTriple()
	for _, b := range bounds {
		merged.Merge(b)
	}

	r.logger.Info("texture stack generated",
		"hours", len(hours),
		"triangles", len(tri.Triangles),
		"width", width,
		"height", height,
		"elapsed", time.Since(start))

	return &TextureStack{
		Textures: textures,
		Bounds:   merged,
		BBox:     bbox,
		Width:    width,
		Height:   height,
	}, nil
}

func (r *FieldRasterizer) rasterizeHour(tri *Triangulation, pixels [][3]vec2d.T, bbox BoundingBox, cube *MeasurementCube, hour, width, height int) (*FieldTexture, BoundsTriple, error) {
	target, err := NewRasterTarget(width, height, r.maxTexels)
	if err != nil {
		return nil, BoundsTriple{}, err
	}

	bounds := NewBoundsTriple()
	for i, t := range tri.Triangles {
		var attrs [3]vec4.T
		for k, s := range t.Stations {
			m := cube.At(hour, s)
			attrs[k] = vec4.T{m[0], m[1], m[2], float32(t.Elevations[k])}
		}
		if target.DrawTriangle(pixels[i], attrs) == 0 {
			continue
		}
		for k := range attrs {
			for c := 0; c < MeasurementChannels; c++ {
				if attrs[k][c] == NoData {
					continue
				}
				bounds.Channels[c].Extend(float64(attrs[k][c]))
			}
			bounds.Elevation.Extend(float64(attrs[k][ChannelElevation]))
		}
	}

	return newFieldTexture(hour, width, height, target.ReadPixels(), bbox), bounds, nil
}
