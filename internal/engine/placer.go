package engine

import (
	"math"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
)

// placerStepFloor is the minimum grid step of the bottom-left scan. The
// coarse grid trades completeness for speed: feasible positions between grid
// points are never examined.
const placerStepFloor = 20.0

// findBottomLeft scans the container grid bottom-up, then left-to-right, for
// the first offset at which the polygon's bounding box fits inside the
// container bounds without overlapping any already-placed bounding box.
// The overlap test is an axis-aligned proxy for true polygon overlap, so
// concave near-misses can be falsely rejected.
func findBottomLeft(polygon geom.Polygon, placed []geom.Rect, container geom.Rect) (float64, float64, bool) {
	pb := geom.Bounds(polygon)

	step := math.Max(placerStepFloor, math.Floor(math.Min(pb.Width, pb.Height)/4))

	for y := container.Y; y < container.Top()-pb.Height; y += step {
		for x := container.X; x < container.Right()-pb.Width; x += step {
			test := geom.Rect{X: pb.X + x, Y: pb.Y + y, Width: pb.Width, Height: pb.Height}
			if !container.ContainsRect(test) {
				continue
			}
			if overlapsAny(test, placed) {
				continue
			}
			return x, y, true
		}
	}
	return 0, 0, false
}

func overlapsAny(r geom.Rect, placed []geom.Rect) bool {
	for _, p := range placed {
		if r.Overlaps(p) {
			return true
		}
	}
	return false
}
