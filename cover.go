package windfield

import (
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

const (
	DefaultHeightFactor = 25
	DefaultAmbient      = 0.1
)

type CoverOptions struct {
	// HeightFactor divides station elevations before the face normal is
	// computed so that metres and degrees mix sensibly.
	HeightFactor float64
	Light        vec3d.T
	Ambient      float64
}

type CoverFace struct {
	Triangle int
	Vertices [3]vec3d.T
	Normal   vec3d.T
	// Alpha is the normalized elevation of every vertex.
	Alpha [3]float64
	Shade float64
}

type CoverMesh struct {
	Faces     []CoverFace
	Elevation Range
}

type DelaunayCoverRenderer struct {
	heightFactor float64
	light        vec3d.T
	ambient      float64
}

func NewDelaunayCoverRenderer(opts CoverOptions) *DelaunayCoverRenderer {
	r := &DelaunayCoverRenderer{
		heightFactor: opts.HeightFactor,
		light:        opts.Light,
		ambient:      opts.Ambient,
	}
	if r.heightFactor == 0 {
		r.heightFactor = DefaultHeightFactor
	}
	if r.light == (vec3d.T{}) {
		r.light = vec3d.T{0, 0, 1}
	}
	r.light.Normalize()
	if r.ambient == 0 {
		r.ambient = DefaultAmbient
	}
	r.ambient = clamp(r.ambient, 0, 1)
	return r
}

// Render shades every triangle of tri. The elevation range is taken over all
// triangle vertices once, so alpha is comparable across faces.
func (r *DelaunayCoverRenderer) Render(tri *Triangulation) *CoverMesh {
	mesh := &CoverMesh{Elevation: EmptyRange()}
	if tri == nil {
		return mesh
	}
	for _, t := range tri.Triangles {
		for _, e := range t.Elevations {
			mesh.Elevation.Extend(e)
		}
	}

	mesh.Faces = make([]CoverFace, len(tri.Triangles))
	for i, t := range tri.Triangles {
		f := CoverFace{Triangle: i}
		for k := range t.Positions {
			f.Vertices[k] = vec3d.T{t.Positions[k][0], t.Positions[k][1], t.Elevations[k] / r.heightFactor}
			f.Alpha[k] = mesh.Elevation.Normalize(t.Elevations[k])
		}
		f.Normal = faceNormal(f.Vertices)
		f.Shade = r.ambient + (1-r.ambient)*math.Max(0, vec3d.Dot(&f.Normal, &r.light))
		mesh.Faces[i] = f
	}
	return mesh
}

// faceNormal returns the unit normal of the face, flipped to point up.
func faceNormal(v [3]vec3d.T) vec3d.T {
	ab := vec3d.Sub(&v[1], &v[0])
	ac := vec3d.Sub(&v[2], &v[0])
	n := vec3d.Cross(&ab, &ac)
	if n[2] < 0 {
		n = vec3d.T{-n[0], -n[1], -n[2]}
	}
	if n.Length() == 0 {
		return vec3d.T{0, 0, 1}
	}
	n.Normalize()
	return n
}
