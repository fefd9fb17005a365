package windfield

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomStations(seed int64, n int, size float64) []Station {
	rng := rand.New(rand.NewSource(seed))
	coords := make([]vec3d.T, n)
	for i := range coords {
		coords[i] = vec3d.T{rng.Float64() * size, rng.Float64() * size, rng.Float64() * 100}
	}
	return NewStations(coords)
}

func TestTriangulateSingleTriangle(t *testing.T) {
	a := assert.New(t)

	stations := NewStations([]vec3d.T{{0, 0, 0}, {1, 0, 10}, {0, 1, 20}})
	tri, err := Triangulate(stations, nil)
	require.NoError(t, err)

	a.Len(tri.Triangles, 1)
	a.Equal([]int{0, 1, 2}, tri.Vertices)
	a.InDelta(0.5, tri.Area(), 1e-12)

	tr := tri.Triangles[0]
	a.ElementsMatch([]int{0, 1, 2}, tr.Stations[:])
	for k, s := range tr.Stations {
		a.Equal(stations[s].Position(), tr.Positions[k])
		a.Equal(stations[s].Elevation, tr.Elevations[k])
	}
}

func TestTriangulateInsufficientPoints(t *testing.T) {
	tests := []struct {
		name     string
		stations []Station
	}{
		{"empty", nil},
		{"two", NewStations([]vec3d.T{{0, 0, 0}, {1, 1, 0}})},
		{"coincident", NewStations([]vec3d.T{{1, 1, 0}, {1, 1, 5}, {1, 1, 9}})},
		{"collinear", NewStations([]vec3d.T{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}, {3, 3, 0}})},
		{"two distinct", NewStations([]vec3d.T{{0, 0, 0}, {1, 0, 0}, {0, 0, 3}, {1, 0, 4}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Triangulate(tt.stations, nil)
			var ipe *InsufficientPointsError
			assert.True(t, errors.As(err, &ipe), "got %v", err)
		})
	}
}

func TestTriangulateCoversHull(t *testing.T) {
	a := assert.New(t)

	for seed := int64(1); seed <= 5; seed++ {
		stations := randomStations(seed, 60, 10)
		tri, err := Triangulate(stations, nil)
		require.NoError(t, err)

		hull := tri.Hull()
		a.InEpsilon(hull.Area(), tri.Area(), 1e-9, "seed %d", seed)

		var sum float64
		for _, tr := range tri.Triangles {
			sum += tr.Area()
		}
		a.InEpsilon(hull.Area(), sum, 1e-9, "seed %d", seed)
	}
}

func TestTriangulateDelaunay(t *testing.T) {
	a := assert.New(t)

	stations := randomStations(7, 80, 10)
	tri, err := Triangulate(stations, nil)
	require.NoError(t, err)

	for i := range tri.Triangles {
		center, r2 := tri.Circumcircle(i)
		for _, s := range stations {
			d2 := pow2(center[0]-s.Lon) + pow2(center[1]-s.Lat)
			a.GreaterOrEqual(d2, r2*(1-1e-6), "station %d inside circumcircle of triangle %d", s.Index, i)
		}
	}
}

func TestTriangulateDeterministic(t *testing.T) {
	a := assert.New(t)

	// a regular grid has many cocircular quadruples
	var coords []vec3d.T
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			coords = append(coords, vec3d.T{float64(x), float64(y), 0})
		}
	}
	stations := NewStations(coords)

	first, err := Triangulate(stations, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Triangulate(stations, nil)
		require.NoError(t, err)
		a.Equal(first.Triangles, again.Triangles)
	}
	a.Len(first.Triangles, 32)
	a.InDelta(16, first.Area(), 1e-9)
}

func TestTriangulateSkipsCoincident(t *testing.T) {
	a := assert.New(t)

	stations := NewStations([]vec3d.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 0, 50}})
	tri, err := Triangulate(stations, nil)
	require.NoError(t, err)

	a.Equal([]int{0, 1, 2}, tri.Vertices)
	a.Len(tri.Triangles, 1)
}

func TestTriangulateLocate(t *testing.T) {
	a := assert.New(t)

	stations := NewStations([]vec3d.T{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}})
	tri, err := Triangulate(stations, nil)
	require.NoError(t, err)
	a.Len(tri.Triangles, 2)

	a.GreaterOrEqual(tri.Locate(vec2d.T{0.5, 1.5}), 0)
	a.GreaterOrEqual(tri.Locate(vec2d.T{1.5, 0.5}), 0)
	a.Equal(-1, tri.Locate(vec2d.T{3, 3}))
}

func TestTriangulateWithProjector(t *testing.T) {
	a := assert.New(t)

	stations := randomStations(3, 30, 1)
	plain, err := Triangulate(stations, nil)
	require.NoError(t, err)
	projected, err := Triangulate(stations, &TriangulateOptions{Projector: PlateCarree{}})
	require.NoError(t, err)

	a.Equal(plain.Triangles, projected.Triangles)
}

func TestTriangulateCovers(t *testing.T) {
	a := assert.New(t)

	stations := NewStations([]vec3d.T{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}})
	tri, err := Triangulate(stations, nil)
	require.NoError(t, err)

	a.True(tri.Covers(vec2d.T{0.5, 0.5}))
	a.True(tri.Covers(vec2d.T{1, 1}))
	a.True(tri.Covers(vec2d.T{0, 0}))
	a.False(tri.Covers(vec2d.T{1.5, 1.5}))
	a.False(tri.Covers(vec2d.T{-1, 0}))

	// inside the bounding box but outside the hull
	a.Equal(-1, tri.Locate(vec2d.T{1.5, 1.5}))
	a.Equal(0, tri.Locate(vec2d.T{1, 1}))
	a.Equal(0, tri.Locate(vec2d.T{0.5, 0.5}))
}

func TestTriangulateWithGeoProjector(t *testing.T) {
	a := assert.New(t)

	const radius = 6378137.0
	stations := randomStations(11, 40, 1)
	tri, err := Triangulate(stations, &TriangulateOptions{Projector: NewGeoProjector(3857)})
	require.NoError(t, err)

	for i, s := range stations {
		a.InDelta(radius*s.Lon*math.Pi/180, tri.Projected[i][0], 1e-3)
		a.InDelta(radius*math.Log(math.Tan(math.Pi/4+s.Lat*math.Pi/360)), tri.Projected[i][1], 1e-3)
	}

	// triangles carry lon/lat while the topology lives in the projected plane
	for _, tr := range tri.Triangles {
		for k, v := range tr.Stations {
			a.Equal(stations[v].Position(), tr.Positions[k])
		}
		a.Greater(tr.Area(), 0.0)
	}
	a.InEpsilon(tri.Hull().Area(), tri.Area(), 1e-9)
	for i := range tri.Triangles {
		center, r2 := tri.Circumcircle(i)
		for _, p := range tri.Projected {
			d2 := pow2(center[0]-p[0]) + pow2(center[1]-p[1])
			a.GreaterOrEqual(d2, r2*(1-1e-6))
		}
	}

	same, err := Triangulate(stations, &TriangulateOptions{Projector: NewGeoProjector(4326)})
	require.NoError(t, err)
	plain, err := Triangulate(stations, nil)
	require.NoError(t, err)
	a.Equal(plain.Triangles, same.Triangles)
	a.Equal(plain.Projected, same.Projected)
}
