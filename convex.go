package windfield

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Convex is the convex hull of a planar point set, computed lazily.
type Convex struct {
	points []vec2d.T
	hull   []vec2d.T
	edges  []Edge
	rect   *vec2d.Rect
}

// Edge is one hull side with its outward unit normal.
type Edge struct {
	Start  vec2d.T
	End    vec2d.T
	Normal vec2d.T
}

func NewConvex(points []vec2d.T) *Convex {
	return &Convex{points: points}
}

func (c *Convex) Rect() vec2d.Rect {
	if c.rect == nil {
		r := vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
		for i := range c.Hull() {
			r.Extend(&c.hull[i])
		}
		c.rect = &r
	}
	return *c.rect
}

// Hull returns the hull vertices in counter-clockwise order starting at the
// leftmost point.
func (c *Convex) Hull() []vec2d.T {
	if c.hull == nil && len(c.points) > 0 {
		left, right := extremes(c.points)
		upper := hullChain(c.points, right, left)
		lower := hullChain(c.points, left, right)
		c.hull = append(upper, lower...)
	}
	return c.hull
}

// Area is the enclosed area of the hull.
func (c *Convex) Area() float64 {
	hull := c.Hull()
	if len(hull) < 3 {
		return 0
	}
	var sum float64
	for i := range hull {
		sum += cross(hull[i], hull[(i+1)%len(hull)])
	}
	return math.Abs(sum) / 2
}

func (c *Convex) Edges() []Edge {
	if c.edges != nil {
		return c.edges
	}
	hull := c.Hull()
	// the rotator turns clockwise, which points outward for a
	// counter-clockwise hull
	turn := Rotator{Degrees: 90}
	c.edges = make([]Edge, len(hull))
	for i, start := range hull {
		end := hull[(i+1)%len(hull)]
		normal := turn.RotateVector(vec2d.Sub(&end, &start))
		normal.Normalize()
		c.edges[i] = Edge{Start: start, End: end, Normal: normal}
	}
	return c.edges
}

// InHull reports whether point lies strictly inside the hull.
func (c *Convex) InHull(point vec2d.T) bool {
	return c.within(point, 0, false)
}

// Contains reports whether point lies inside the hull or within tolerance
// of its boundary.
func (c *Convex) Contains(point vec2d.T, tolerance float64) bool {
	return c.within(point, tolerance, true)
}

func (c *Convex) within(point vec2d.T, tolerance float64, closed bool) bool {
	edges := c.Edges()
	if len(edges) < 3 {
		return false
	}
	for _, e := range edges {
		d := vec2d.Sub(&point, &e.Start)
		dist := vec2d.Dot(&d, &e.Normal)
		if dist > tolerance || (!closed && dist >= 0) {
			return false
		}
	}
	return true
}

// hullChain returns the hull vertices left of from->to, ending at to.
func hullChain(points []vec2d.T, from, to vec2d.T) []vec2d.T {
	var left []vec2d.T
	var far vec2d.T
	best := 0.0
	for _, p := range points {
		d := sideOf(p, from, to)
		if d <= 0 {
			continue
		}
		left = append(left, p)
		if d > best || (d == best && lexLess(p, far)) {
			best, far = d, p
		}
	}
	if len(left) == 0 {
		return []vec2d.T{to}
	}
	return append(hullChain(left, far, to), hullChain(left, from, far)...)
}

// sideOf is positive when p lies left of the directed line a->b and scales
// with its distance.
func sideOf(p, a, b vec2d.T) float64 {
	ab := vec2d.Sub(&b, &a)
	ap := vec2d.Sub(&p, &a)
	return cross(ab, ap)
}

func cross(lhs, rhs vec2d.T) float64 {
	return lhs[0]*rhs[1] - lhs[1]*rhs[0]
}

// extremes returns the leftmost and rightmost points, lowest and highest on
// ties respectively.
func extremes(points []vec2d.T) (left, right vec2d.T) {
	left, right = points[0], points[0]
	for _, p := range points[1:] {
		if p[0] < left[0] || (p[0] == left[0] && p[1] < left[1]) {
			left = p
		}
		if p[0] > right[0] || (p[0] == right[0] && p[1] > right[1]) {
			right = p
		}
	}
	return left, right
}

func lexLess(a, b vec2d.T) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}
