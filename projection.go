package windfield

import (
	vec2d "github.com/flywave/go3d/float64/vec2"

	"github.com/flywave/go-geo"
)

var epsg4326 geo.Proj

func init() {
	epsg4326 = geo.NewProj(4326)
}

// Projector maps station longitude/latitude to the plane the triangulation
// is built in.
type Projector interface {
	Project(points []vec2d.T) []vec2d.T
}

// PlateCarree uses longitude and latitude directly as planar coordinates.
type PlateCarree struct{}

func (PlateCarree) Project(points []vec2d.T) []vec2d.T {
	out := make([]vec2d.T, len(points))
	copy(out, points)
	return out
}

// GeoProjector projects EPSG:4326 positions into another spatial reference.
type GeoProjector struct {
	target geo.Proj
}

// NewGeoProjector accepts anything geo.NewProj does, such as an EPSG code
// or a proj string.
func NewGeoProjector(srs interface{}) *GeoProjector {
	return &GeoProjector{target: geo.NewProj(srs)}
}

func (p *GeoProjector) Project(points []vec2d.T) []vec2d.T {
	if p.target == nil || p.target.Eq(epsg4326) {
		return PlateCarree{}.Project(points)
	}
	in := make([]vec2d.T, len(points))
	copy(in, points)
	return epsg4326.TransformTo(p.target, in)
}
