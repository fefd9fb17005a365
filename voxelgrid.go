package windfield

import (
	"errors"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// voxelGrid buckets planar points into square cells of LeafSize so that
// coincident stations collapse onto one triangulation vertex.
type voxelGrid struct {
	LeafSize float64
}

func newVoxelGrid(leafSize float64) *voxelGrid {
	vg := &voxelGrid{LeafSize: leafSize}
	return vg
}

func minMaxVec2(ra []vec2d.T) (vec2d.T, vec2d.T, error) {
	if len(ra) == 0 {
		return vec2d.T{}, vec2d.T{}, errors.New("no point")
	}
	min, max := ra[0], ra[0]
	for i := 1; i < len(ra); i++ {
		v := ra[i]
		for i := range v {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max, nil
}

// Filter returns, in ascending order, the indices of the first point that
// fell into each occupied cell.
func (f *voxelGrid) Filter(pc []vec2d.T) ([]int, error) {
	min, _, err := minMaxVec2(pc)
	if err != nil {
		return nil, err
	}

	occupied := make(map[[2]int64]struct{}, len(pc))
	keep := make([]int, 0, len(pc))
	for i := range pc {
		p := vec2d.Sub(&pc[i], &min)
		key := [2]int64{int64(p[0] / f.LeafSize), int64(p[1] / f.LeafSize)}
		if _, ok := occupied[key]; ok {
			continue
		}
		occupied[key] = struct{}{}
		keep = append(keep, i)
	}

	return keep, nil
}
