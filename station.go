package windfield

import (
	"encoding/json"
	"fmt"

	"github.com/flywave/go-geoid"
	"github.com/flywave/go-geom"
	"github.com/flywave/go-geom/general"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/flywave/go-geo"
)

// HourlyProperty is the feature property holding per-hour measurements as
// an array of [direction, speed, temperature] triples.
const HourlyProperty = "hourly"

// NewStations assigns every coordinate (lon, lat, elevation) the index of its
// position in the slice.
func NewStations(coords []vec3d.T) []Station {
	stations := make([]Station, len(coords))
	for i, c := range coords {
		stations[i] = Station{Index: i, Lon: c[0], Lat: c[1], Elevation: c[2]}
	}
	return stations
}

type IngestOptions struct {
	// InputSrs is the spatial reference of the feature coordinates. Nil means
	// EPSG:4326.
	InputSrs *string
	// HeightModel converts station elevations to ellipsoidal heights. Nil
	// leaves them untouched.
	HeightModel  *geoid.VerticalDatum
	HeightOffset float64
}

// FeatureStations is the result of reading stations out of a feature
// collection. Sources holds, per station, the feature it came from.
type FeatureStations struct {
	Stations []Station
	Sources  []*geom.Feature
}

// StationsFromFeatures extracts point geometries in document order.
func StationsFromFeatures(fc *geom.FeatureCollection, opts IngestOptions) (*FeatureStations, error) {
	if fc == nil {
		return nil, &InsufficientPointsError{Got: 0}
	}

	var inputProj geo.Proj
	if opts.InputSrs != nil {
		inputProj = geo.NewProj(*opts.InputSrs)
	}

	toLonLat := func(x, y float64) vec2d.T {
		if inputProj != nil && !inputProj.Eq(epsg4326) {
			pos2 := []vec2d.T{{x, y}}
			pos2 = inputProj.TransformTo(epsg4326, pos2)
			return pos2[0]
		}
		return vec2d.T{x, y}
	}

	out := &FeatureStations{}
	add := func(f *geom.Feature, x, y float64, data []float64) {
		p := toLonLat(x, y)
		var z float64
		if len(data) > 2 {
			z = data[2]
		}
		out.Stations = append(out.Stations, Station{Index: len(out.Stations), Lon: p[0], Lat: p[1], Elevation: z})
		out.Sources = append(out.Sources, f)
	}

	for _, feas := range fc.Features {
		switch g := feas.Geometry.(type) {
		case *general.Point:
			add(feas, g.X(), g.Y(), g.Data())
		case *general.MultiPoint:
			for _, pos := range g.Points() {
				add(feas, pos.X(), pos.Y(), pos.Data())
			}
		}
	}

	if len(out.Stations) == 0 {
		return nil, &InsufficientPointsError{Got: 0}
	}

	convertHeight(out.Stations, opts)
	return out, nil
}

func convertHeight(stations []Station, opts IngestOptions) {
	if opts.HeightModel == nil {
		return
	}
	model := *opts.HeightModel
	if (model == geoid.HAE && opts.HeightOffset == 0) || model == geoid.UNKNOWN {
		return
	}
	if model == geoid.HAE {
		for i := range stations {
			stations[i].Elevation += opts.HeightOffset
		}
		return
	}
	gid := geoid.NewGeoid(model, false)
	for i := range stations {
		s := &stations[i]
		s.Elevation = gid.ConvertHeight(s.Lon, s.Lat, s.Elevation, geoid.GEOIDTOELLIPSOID)
	}
}

// Cube assembles the hourly property of every source feature into a
// measurement cube. Features without the property contribute NoData.
func (fs *FeatureStations) Cube() (*MeasurementCube, error) {
	series := make([][][MeasurementChannels]float32, len(fs.Stations))
	hours := -1
	for i, f := range fs.Sources {
		if f == nil || f.Properties == nil {
			continue
		}
		raw, ok := f.Properties[HourlyProperty]
		if !ok {
			continue
		}
		s, err := parseHourly(raw)
		if err != nil {
			return nil, fmt.Errorf("station %d: %w", i, err)
		}
		if hours >= 0 && len(s) != hours {
			return nil, &DataShapeMismatchError{Len: len(s) * MeasurementChannels, Stations: len(fs.Stations), Channels: MeasurementChannels,
				Reason: fmt.Sprintf("station %d has %d hours, expected %d", i, len(s), hours)}
		}
		hours = len(s)
		series[i] = s
	}
	if hours <= 0 {
		return nil, &DataShapeMismatchError{Stations: len(fs.Stations), Channels: MeasurementChannels, Reason: "no hourly measurements"}
	}

	values := make([]float32, hours*len(fs.Stations)*MeasurementChannels)
	for s, hs := range series {
		for h, v := range hs {
			i := (h*len(fs.Stations) + s) * MeasurementChannels
			copy(values[i:i+MeasurementChannels], v[:])
		}
	}
	return NewMeasurementCube(values, len(fs.Stations))
}

func parseHourly(raw interface{}) ([][MeasurementChannels]float32, error) {
	rows, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s is %T, want array", HourlyProperty, raw)
	}
	out := make([][MeasurementChannels]float32, len(rows))
	for h, r := range rows {
		vals, ok := r.([]interface{})
		if !ok || len(vals) != MeasurementChannels {
			return nil, fmt.Errorf("hour %d: want %d values", h, MeasurementChannels)
		}
		for c, v := range vals {
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("hour %d channel %d: %w", h, c, err)
			}
			out[h][c] = float32(f)
		}
	}
	return out, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected %T", v)
}
