// Package nfp approximates no-fit polygons: regions describing the valid
// relative placements of one polygon against another. The computation is an
// edge-walking approximation, not an exact Minkowski difference.
package nfp

import (
	"math"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
)

// Tol is the tolerance used for NFP-specific comparisons.
const Tol = 1e-6

// Region is an ordered point sequence bounding either the touch-without-
// overlap offsets of a moving polygon around a stationary one, or the
// offsets keeping a part inside a container. An empty Region means the
// computation failed or degenerated.
type Region = geom.Polygon

// Calculator computes approximate no-fit and inner-fit regions.
type Calculator struct {
	Tolerance float64
}

// NewCalculator returns a Calculator with the default tolerance.
func NewCalculator() *Calculator {
	return &Calculator{Tolerance: Tol}
}

// CalculateNFP computes the no-fit region of moving relative to stationary.
// Both polygons need at least 3 points. Orientation is normalized first:
// stationary counter-clockwise, moving clockwise. Each stationary edge
// contributes its two endpoints offset by the moving polygon's reference
// point (its first vertex); consecutive near-duplicates and a closing
// duplicate are removed. Fewer than 3 distinct points yields an empty region.
func (c *Calculator) CalculateNFP(stationary, moving geom.Polygon) Region {
	if len(stationary) < 3 || len(moving) < 3 {
		return nil
	}

	if geom.SignedArea(stationary) < 0 {
		stationary = reverse(stationary)
	}
	if geom.SignedArea(moving) > 0 {
		moving = reverse(moving)
	}

	ref := moving[0]
	points := make(Region, 0, 2*len(stationary))
	for i := range stationary {
		start := stationary[i]
		end := stationary[(i+1)%len(stationary)]
		points = append(points,
			geom.Point{X: start.X - ref.X, Y: start.Y - ref.Y},
			geom.Point{X: end.X - ref.X, Y: end.Y - ref.Y},
		)
	}

	if len(points) < 3 {
		return nil
	}
	points = removeDuplicates(points)
	if len(points) < 3 {
		return nil
	}
	return points
}

// CalculateInnerNFP approximates the region of valid part positions inside
// the container by offsetting the container outline by half the part's
// bounding-box extents. This is a bounding-box proxy, not a polygon erosion.
func (c *Calculator) CalculateInnerNFP(container, part geom.Polygon) Region {
	if len(container) < 3 || len(part) < 3 {
		return nil
	}

	b := geom.Bounds(part)
	offsetX := b.Width / 2
	offsetY := b.Height / 2

	inner := make(Region, len(container))
	for i, pt := range container {
		inner[i] = geom.Point{X: pt.X - offsetX, Y: pt.Y - offsetY}
	}
	return inner
}

// PointInNFP reports whether the offset point lies inside the region.
func (c *Calculator) PointInNFP(pt geom.Point, region Region) bool {
	return geom.PointInPolygon(pt, region)
}

// Intersect conservatively approximates the intersection of two regions by
// returning whichever has the smaller enclosed area. Both regions having
// zero area yields an empty result.
func (c *Calculator) Intersect(a, b Region) Region {
	areaA := math.Abs(geom.SignedArea(a))
	areaB := math.Abs(geom.SignedArea(b))

	if areaA < areaB {
		if areaA > 0 {
			return a
		}
		return nil
	}
	if areaB > 0 {
		return b
	}
	return nil
}

// Simplify prunes points lying within tolerance of the line through their
// neighbors. It never returns fewer than 3 points; if pruning would, the
// input is returned unchanged. A tolerance of 0 uses the calculator default.
func (c *Calculator) Simplify(region Region, tolerance float64) Region {
	if tolerance <= 0 {
		tolerance = c.Tolerance
	}
	if len(region) < 3 {
		return region
	}

	simplified := make(Region, 0, len(region))
	for i := range region {
		prev := region[(i+len(region)-1)%len(region)]
		next := region[(i+1)%len(region)]
		if !pointOnLine(prev, next, region[i], tolerance) {
			simplified = append(simplified, region[i])
		}
	}

	if len(simplified) < 3 {
		return region
	}
	return simplified
}

// pointOnLine reports whether pt lies within tolerance of the line through
// p1 and p2. Coincident endpoints define no line.
func pointOnLine(p1, p2, pt geom.Point, tolerance float64) bool {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	if geom.AlmostEqual(dx, 0) && geom.AlmostEqual(dy, 0) {
		return false
	}
	distance := math.Abs(dy*pt.X-dx*pt.Y+p2.X*p1.Y-p2.Y*p1.X) / math.Sqrt(dx*dx+dy*dy)
	return distance < tolerance
}

// removeDuplicates drops consecutive near-equal points and a trailing point
// that duplicates the first.
func removeDuplicates(points Region) Region {
	if len(points) == 0 {
		return nil
	}
	cleaned := Region{points[0]}
	for _, pt := range points[1:] {
		last := cleaned[len(cleaned)-1]
		if geom.AlmostEqual(pt.X, last.X) && geom.AlmostEqual(pt.Y, last.Y) {
			continue
		}
		cleaned = append(cleaned, pt)
	}
	if len(cleaned) > 1 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		if geom.AlmostEqual(first.X, last.X) && geom.AlmostEqual(first.Y, last.Y) {
			cleaned = cleaned[:len(cleaned)-1]
		}
	}
	return cleaned
}

func reverse(p geom.Polygon) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}
