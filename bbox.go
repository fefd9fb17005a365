package windfield

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
)

type BoundingBox struct {
	MinLon float64 `json:"minLon"`
	MinLat float64 `json:"minLat"`
	MaxLon float64 `json:"maxLon"`
	MaxLat float64 `json:"maxLat"`
}

// BoundingBoxOf returns the smallest box enclosing all stations.
func BoundingBoxOf(stations []Station) (BoundingBox, error) {
	if len(stations) == 0 {
		return BoundingBox{}, &InsufficientPointsError{Got: 0}
	}
	b := BoundingBox{MinLon: maxFloat, MinLat: maxFloat, MaxLon: -maxFloat, MaxLat: -maxFloat}
	for _, s := range stations {
		b.Extend(vec2d.T{s.Lon, s.Lat})
	}
	return b, nil
}

func BoundingBoxFromRect(r vec2d.Rect) BoundingBox {
	return BoundingBox{MinLon: r.Min[0], MinLat: r.Min[1], MaxLon: r.Max[0], MaxLat: r.Max[1]}
}

func (b *BoundingBox) Extend(p vec2d.T) {
	if p[0] < b.MinLon {
		b.MinLon = p[0]
	}
	if p[0] > b.MaxLon {
		b.MaxLon = p[0]
	}
	if p[1] < b.MinLat {
		b.MinLat = p[1]
	}
	if p[1] > b.MaxLat {
		b.MaxLat = p[1]
	}
}

func (b BoundingBox) Width() float64  { return b.MaxLon - b.MinLon }
func (b BoundingBox) Height() float64 { return b.MaxLat - b.MinLat }

func (b BoundingBox) Rect() vec2d.Rect {
	return vec2d.Rect{Min: vec2d.T{b.MinLon, b.MinLat}, Max: vec2d.T{b.MaxLon, b.MaxLat}}
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p vec2d.T) bool {
	return p[0] >= b.MinLon && p[0] <= b.MaxLon && p[1] >= b.MinLat && p[1] <= b.MaxLat
}

// ToTexture maps a world position to normalized texture coordinates. v grows
// southwards so that v = 0 is the northern edge, matching texture row order.
func (b BoundingBox) ToTexture(p vec2d.T) (u, v float64) {
	if w := b.Width(); w != 0 {
		u = (p[0] - b.MinLon) / w
	}
	if h := b.Height(); h != 0 {
		v = (b.MaxLat - p[1]) / h
	}
	return u, v
}

func (b BoundingBox) FromTexture(u, v float64) vec2d.T {
	return vec2d.T{b.MinLon + u*b.Width(), b.MaxLat - v*b.Height()}
}

// GridHeight derives the row count for a grid of the given width that keeps
// the box aspect ratio.
func (b BoundingBox) GridHeight(width int) int {
	if b.Width() <= 0 {
		return width
	}
	h := int(float64(width)*b.Height()/b.Width() + 0.5)
	if h < 1 {
		h = 1
	}
	return h
}
