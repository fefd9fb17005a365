package windfield

import (
	"errors"
	"testing"

	vec2d "github.com/flywave/go3d/float64/vec2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurementCube(t *testing.T) {
	a := assert.New(t)

	// 2 hours x 2 stations x 3 channels
	values := []float32{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	cube, err := NewMeasurementCube(values, 2)
	require.NoError(t, err)

	a.Equal(2, cube.Hours())
	a.Equal(2, cube.Stations())
	a.Equal([MeasurementChannels]float32{4, 5, 6}, cube.At(0, 1))
	a.Equal([MeasurementChannels]float32{7, 8, 9}, cube.At(1, 0))
	a.Equal([][MeasurementChannels]float32{{7, 8, 9}, {10, 11, 12}}, cube.Hour(1))
}

func TestMeasurementCubeStationMajor(t *testing.T) {
	a := assert.New(t)

	// station 0 hours 0..2, then station 1
	values := []float32{
		1, 1, 1, 2, 2, 2, 3, 3, 3,
		4, 4, 4, 5, 5, 5, 6, 6, 6,
	}
	cube, err := NewMeasurementCubeStationMajor(values, 2, 3)
	require.NoError(t, err)

	a.Equal(3, cube.Hours())
	a.Equal([MeasurementChannels]float32{2, 2, 2}, cube.At(1, 0))
	a.Equal([MeasurementChannels]float32{6, 6, 6}, cube.At(2, 1))
	a.Equal(float32(1), values[0])
}

func TestMeasurementCubeShape(t *testing.T) {
	a := assert.New(t)

	var dsm *DataShapeMismatchError

	_, err := NewMeasurementCube(make([]float32, 7), 2)
	a.True(errors.As(err, &dsm))
	a.Equal(7, dsm.Len)
	a.Equal(2, dsm.Stations)
	a.Equal(MeasurementChannels, dsm.Channels)
	a.Contains(err.Error(), "not divisible")

	_, err = NewMeasurementCube(make([]float32, 6), 0)
	a.True(errors.As(err, &dsm))

	_, err = NewMeasurementCubeStationMajor(make([]float32, 17), 2, 3)
	a.True(errors.As(err, &dsm))

	cube, err := NewMeasurementCube(nil, 4)
	a.NoError(err)
	a.Equal(0, cube.Hours())
}

func TestBoundingBox(t *testing.T) {
	a := assert.New(t)

	_, err := BoundingBoxOf(nil)
	a.Error(err)

	b, err := BoundingBoxOf([]Station{{Lon: 2, Lat: -1}, {Lon: -3, Lat: 4}, {Lon: 1, Lat: 1}})
	require.NoError(t, err)
	a.Equal(BoundingBox{MinLon: -3, MinLat: -1, MaxLon: 2, MaxLat: 4}, b)
	a.Equal(5.0, b.Width())
	a.Equal(5.0, b.Height())

	a.True(b.Contains(vec2d.T{2, 4}))
	a.False(b.Contains(vec2d.T{2.001, 0}))

	u, v := b.ToTexture(vec2d.T{-3, 4})
	a.Equal(0.0, u)
	a.Equal(0.0, v)
	u, v = b.ToTexture(vec2d.T{2, -1})
	a.Equal(1.0, u)
	a.Equal(1.0, v)
	a.Equal(vec2d.T{-0.5, 1.5}, b.FromTexture(0.5, 0.5))

	a.Equal(b, BoundingBoxFromRect(b.Rect()))

	wide := BoundingBox{MaxLon: 40, MaxLat: 10}
	a.Equal(128, wide.GridHeight(512))
	a.Equal(1, BoundingBox{MaxLon: 1000, MaxLat: 0.001}.GridHeight(10))

	line := BoundingBox{MaxLon: 0, MaxLat: 1}
	u, v = line.ToTexture(vec2d.T{0, 0.5})
	a.Equal(0.0, u)
	a.Equal(0.5, v)
}

func TestRange(t *testing.T) {
	a := assert.New(t)

	r := EmptyRange()
	a.True(r.Empty())
	a.Equal(0.0, r.Normalize(5))

	r.Extend(2)
	r.Extend(6)
	a.False(r.Empty())
	a.Equal(0.5, r.Normalize(4))
	a.True(r.Contains(6))
	a.False(r.Contains(6.5))

	r.Merge(EmptyRange())
	a.Equal(Range{Min: 2, Max: 6}, r)
	r.Merge(Range{Min: -1, Max: 3})
	a.Equal(Range{Min: -1, Max: 6}, r)

	flat := Range{Min: 3, Max: 3}
	a.Equal(0.0, flat.Normalize(3))

	b := NewBoundsTriple()
	b.Channels[ChannelSpeed].Extend(4)
	b.Elevation.Extend(100)
	a.Equal(Range{Min: 4, Max: 4}, b.Speed())
	a.Equal(Range{Min: 100, Max: 100}, b.Channel(ChannelElevation))
	a.True(b.Direction().Empty())
	a.True(b.Temperature().Empty())
}
