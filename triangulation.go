package windfield

import (
	"math"
	"sort"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"gonum.org/v1/gonum/mat"
)

const (
	// coincidentTolerance is the voxel size, relative to the station extent,
	// below which two projected stations are the same vertex.
	coincidentTolerance = 1e-12
	superTriangleScale  = 1e3
	flipTolerance       = 1e-12
	// coverTolerance is the distance, relative to the station extent, a
	// point may lie outside the hull and still count as covered.
	coverTolerance = 1e-9
)

type Triangle struct {
	Stations   [3]int
	Positions  [3]vec2d.T
	Elevations [3]float64
}

func (t Triangle) Area() float64 {
	return math.Abs(orient(t.Positions[0], t.Positions[1], t.Positions[2])) / 2
}

// Barycentric returns the weights of p relative to the triangle vertices.
// ok is false for a degenerate triangle.
func (t Triangle) Barycentric(p vec2d.T) (w [3]float64, ok bool) {
	a, b, c := t.Positions[0], t.Positions[1], t.Positions[2]
	area := orient(a, b, c)
	if area == 0 {
		return w, false
	}
	w[0] = orient(b, c, p) / area
	w[1] = orient(c, a, p) / area
	w[2] = 1 - w[0] - w[1]
	return w, true
}

type Triangulation struct {
	Stations []Station
	// Projected holds the planar position of every station.
	Projected []vec2d.T
	// Vertices lists the stations used as triangle vertices, ascending.
	Vertices  []int
	Triangles []Triangle

	// planar vertex triples, indices into Projected
	faces [][3]int
	// hull of the vertex lon/lat positions
	coverage *Convex
}

type TriangulateOptions struct {
	Projector Projector
}

// Triangulate builds a Delaunay triangulation over the projected station
// positions. Points are inserted in lexicographic (x, y, index) order and a
// point lying exactly on a circumcircle counts as outside, so equal input
// always yields the same triangles. Stations that project onto an already
// used position are skipped; the lowest index wins.
func Triangulate(stations []Station, opts *TriangulateOptions) (*Triangulation, error) {
	if len(stations) < 3 {
		return nil, &InsufficientPointsError{Got: len(stations)}
	}

	var projector Projector = PlateCarree{}
	if opts != nil && opts.Projector != nil {
		projector = opts.Projector
	}

	stations = append([]Station(nil), stations...)
	positions := make([]vec2d.T, len(stations))
	for i := range stations {
		stations[i].Index = i
		positions[i] = stations[i].Position()
	}
	projected := projector.Project(positions)

	min, max, err := minMaxVec2(projected)
	if err != nil {
		return nil, err
	}
	span := math.Max(max[0]-min[0], max[1]-min[1])
	if span == 0 {
		return nil, &InsufficientPointsError{Got: 1}
	}

	keep, err := newVoxelGrid(span * coincidentTolerance).Filter(projected)
	if err != nil {
		return nil, err
	}
	if len(keep) < 3 {
		return nil, &InsufficientPointsError{Got: len(keep)}
	}

	// unit frame for the numeric predicates
	unit := make([]vec2d.T, len(projected))
	for i, p := range projected {
		unit[i] = vec2d.T{(p[0] - min[0]) / span, (p[1] - min[1]) / span}
	}

	sort.SliceStable(keep, func(i, j int) bool {
		a, b := unit[keep[i]], unit[keep[j]]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return keep[i] < keep[j]
	})

	b := newBowyerWatson(unit)
	for _, i := range keep {
		b.insert(i)
	}
	faces := b.result()
	faces = fillPockets(unit, faces)
	faces = legalize(unit, faces)
	if len(faces) == 0 {
		return nil, &InsufficientPointsError{Got: len(keep)}
	}

	sort.Ints(keep)
	tri := &Triangulation{
		Stations:  stations,
		Projected: projected,
		Vertices:  keep,
		faces:     faces,
		Triangles: make([]Triangle, len(faces)),
	}
	for i, f := range faces {
		var t Triangle
		for k, v := range f {
			t.Stations[k] = v
			t.Positions[k] = positions[v]
			t.Elevations[k] = stations[v].Elevation
		}
		tri.Triangles[i] = t
	}
	lonLat := make([]vec2d.T, len(keep))
	for i, v := range keep {
		lonLat[i] = positions[v]
	}
	tri.coverage = NewConvex(lonLat)
	return tri, nil
}

// Hull returns the convex hull of the triangulation vertices in the
// projected plane.
func (t *Triangulation) Hull() *Convex {
	pts := make([]vec2d.T, len(t.Vertices))
	for i, v := range t.Vertices {
		pts[i] = t.Projected[v]
	}
	return NewConvex(pts)
}

// Area sums the triangle areas in the projected plane.
func (t *Triangulation) Area() float64 {
	var sum float64
	for _, f := range t.faces {
		sum += math.Abs(orient(t.Projected[f[0]], t.Projected[f[1]], t.Projected[f[2]])) / 2
	}
	return sum
}

// Circumcircle returns the circumcenter and squared radius of triangle i in
// the projected plane.
func (t *Triangulation) Circumcircle(i int) (vec2d.T, float64) {
	f := t.faces[i]
	return circumcircle(t.Projected[f[0]], t.Projected[f[1]], t.Projected[f[2]])
}

// Covers reports whether the lon/lat position p lies within the convex hull
// of the triangulation vertices. Every triangle lies inside that hull, so a
// point it rejects is in no triangle.
func (t *Triangulation) Covers(p vec2d.T) bool {
	if t.coverage == nil {
		return false
	}
	r := t.coverage.Rect()
	tol := coverTolerance * math.Max(r.Max[0]-r.Min[0], r.Max[1]-r.Min[1])
	return t.coverage.Contains(p, tol)
}

// Locate returns the index of a triangle containing the lon/lat position p,
// or -1.
func (t *Triangulation) Locate(p vec2d.T) int {
	if !t.Covers(p) {
		return -1
	}
	for i, tr := range t.Triangles {
		w, ok := tr.Barycentric(p)
		if !ok {
			continue
		}
		if w[0] >= 0 && w[1] >= 0 && w[2] >= 0 {
			return i
		}
	}
	return -1
}

func orient(a, b, c vec2d.T) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// inCircle is positive when d lies strictly inside the circumcircle of the
// counter-clockwise triangle abc.
func inCircle(a, b, c, d vec2d.T) float64 {
	row := func(p vec2d.T) []float64 {
		x, y := p[0]-d[0], p[1]-d[1]
		return []float64{x, y, x*x + y*y}
	}
	m := mat.NewDense(3, 3, append(append(row(a), row(b)...), row(c)...))
	return mat.Det(m)
}

func circumcircle(a, b, c vec2d.T) (vec2d.T, float64) {
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	if d == 0 {
		return vec2d.T{}, math.Inf(1)
	}
	a2 := a[0]*a[0] + a[1]*a[1]
	b2 := b[0]*b[0] + b[1]*b[1]
	c2 := c[0]*c[0] + c[1]*c[1]
	center := vec2d.T{
		(a2*(b[1]-c[1]) + b2*(c[1]-a[1]) + c2*(a[1]-b[1])) / d,
		(a2*(c[0]-b[0]) + b2*(a[0]-c[0]) + c2*(b[0]-a[0])) / d,
	}
	return center, pow2(center[0]-a[0]) + pow2(center[1]-a[1])
}

type bowyerWatson struct {
	pts   []vec2d.T
	super int
	faces [][3]int
}

func newBowyerWatson(unit []vec2d.T) *bowyerWatson {
	n := len(unit)
	pts := make([]vec2d.T, n, n+3)
	copy(pts, unit)
	s := superTriangleScale
	pts = append(pts,
		vec2d.T{0.5 - 2*s, -s},
		vec2d.T{0.5 + 2*s, -s},
		vec2d.T{0.5, 2 * s},
	)
	return &bowyerWatson{pts: pts, super: n, faces: [][3]int{{n, n + 1, n + 2}}}
}

type directedEdge struct{ a, b int }

func (bw *bowyerWatson) insert(i int) {
	p := bw.pts[i]
	var bad []int
	for fi, f := range bw.faces {
		if inCircle(bw.pts[f[0]], bw.pts[f[1]], bw.pts[f[2]], p) > 0 {
			bad = append(bad, fi)
		}
	}

	count := make(map[[2]int]int, len(bad)*3)
	var edges []directedEdge
	for _, fi := range bad {
		f := bw.faces[fi]
		for k := 0; k < 3; k++ {
			e := directedEdge{f[k], f[(k+1)%3]}
			count[undirected(e.a, e.b)]++
			edges = append(edges, e)
		}
	}

	isBad := make(map[int]bool, len(bad))
	for _, fi := range bad {
		isBad[fi] = true
	}
	kept := bw.faces[:0:0]
	for fi, f := range bw.faces {
		if !isBad[fi] {
			kept = append(kept, f)
		}
	}
	for _, e := range edges {
		if count[undirected(e.a, e.b)] == 1 {
			kept = append(kept, [3]int{e.a, e.b, i})
		}
	}
	bw.faces = kept
}

func (bw *bowyerWatson) result() [][3]int {
	out := make([][3]int, 0, len(bw.faces))
	for _, f := range bw.faces {
		if f[0] >= bw.super || f[1] >= bw.super || f[2] >= bw.super {
			continue
		}
		out = append(out, f)
	}
	return out
}

func undirected(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// fillPockets closes reflex notches along the outer boundary that a finite
// super triangle can leave next to nearly collinear hull points.
func fillPockets(pts []vec2d.T, faces [][3]int) [][3]int {
	for pass := 0; pass < len(pts); pass++ {
		next := boundaryLoop(faces)
		if len(next) == 0 {
			return faces
		}
		prev := make(map[int]int, len(next))
		for a, b := range next {
			prev[b] = a
		}

		vertices := make([]int, 0, len(next))
		for v := range next {
			vertices = append(vertices, v)
		}
		sort.Ints(vertices)

		added := false
		for _, b := range vertices {
			a, okA := prev[b]
			c, okC := next[b]
			if !okA || !okC || a == c {
				continue
			}
			if orient(pts[a], pts[b], pts[c]) >= 0 {
				continue
			}
			if anyInside(pts, faces, b, a, c) {
				continue
			}
			faces = append(faces, [3]int{b, a, c})
			added = true
			break
		}
		if !added {
			return faces
		}
	}
	return faces
}

// boundaryLoop maps every boundary vertex to its successor along the
// counter-clockwise outer boundary.
func boundaryLoop(faces [][3]int) map[int]int {
	edges := make(map[directedEdge]bool, len(faces)*3)
	for _, f := range faces {
		for k := 0; k < 3; k++ {
			edges[directedEdge{f[k], f[(k+1)%3]}] = true
		}
	}
	next := make(map[int]int)
	for e := range edges {
		if !edges[directedEdge{e.b, e.a}] {
			next[e.a] = e.b
		}
	}
	return next
}

func anyInside(pts []vec2d.T, faces [][3]int, a, b, c int) bool {
	seen := make(map[int]bool)
	for _, f := range faces {
		for _, v := range f {
			if v == a || v == b || v == c || seen[v] {
				continue
			}
			seen[v] = true
			p := pts[v]
			if orient(pts[a], pts[b], p) >= 0 && orient(pts[b], pts[c], p) >= 0 && orient(pts[c], pts[a], p) >= 0 {
				return true
			}
		}
	}
	return false
}

// legalize flips edges until every interior edge satisfies the empty
// circumcircle condition.
func legalize(pts []vec2d.T, faces [][3]int) [][3]int {
	limit := 4*len(faces)*len(faces) + 16
	for flips := 0; flips < limit; {
		owner := make(map[directedEdge]int, len(faces)*3)
		for fi, f := range faces {
			for k := 0; k < 3; k++ {
				owner[directedEdge{f[k], f[(k+1)%3]}] = fi
			}
		}

		flipped := false
		done := make(map[int]bool)
		for fi := range faces {
			if done[fi] {
				continue
			}
			f := faces[fi]
			for k := 0; k < 3; k++ {
				a, b, c := f[k], f[(k+1)%3], f[(k+2)%3]
				gi, ok := owner[directedEdge{b, a}]
				if !ok || done[gi] {
					continue
				}
				d := opposite(faces[gi], b, a)
				if inCircle(pts[a], pts[b], pts[c], pts[d]) <= flipTolerance {
					continue
				}
				if orient(pts[a], pts[d], pts[c]) <= 0 || orient(pts[d], pts[b], pts[c]) <= 0 {
					continue
				}
				faces[fi] = [3]int{a, d, c}
				faces[gi] = [3]int{d, b, c}
				done[fi], done[gi] = true, true
				flipped = true
				flips++
				break
			}
		}
		if !flipped {
			break
		}
	}
	return faces
}

func opposite(f [3]int, a, b int) int {
	for _, v := range f {
		if v != a && v != b {
			return v
		}
	}
	return -1
}
