// Package geom provides the 2D geometric primitives used throughout the
// nesting pipeline: polygon area and bounds, point containment, segment
// intersection, and rigid transforms. All equality tests use an absolute
// tolerance to absorb floating round-off.
package geom

import "math"

// Tol is the default tolerance for floating point comparisons.
const Tol = 1e-9

// Point is an immutable 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered sequence of points forming a closed ring.
// The last point connects back to the first implicitly.
type Polygon []Point

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the maximum x coordinate of the rectangle.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the maximum y coordinate of the rectangle.
func (r Rect) Top() float64 { return r.Y + r.Height }

// Area returns width times height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Overlaps reports whether two rectangles share interior area.
// Touching edges do not count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.Right() <= o.X || o.Right() <= r.X ||
		r.Top() <= o.Y || o.Top() <= r.Y)
}

// ContainsRect reports whether o lies fully inside r (edges may touch).
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.Right() <= r.Right() && o.Top() <= r.Top()
}

// AlmostEqual reports whether a and b differ by less than Tol.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < Tol
}

// AlmostEqualTol reports whether a and b differ by less than tolerance.
func AlmostEqualTol(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// WithinDistance reports whether p and q are closer than distance.
func WithinDistance(p, q Point, distance float64) bool {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx+dy*dy < distance*distance
}

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * (180 / math.Pi)
}

// Normalize returns v scaled to unit length, or the zero point for a
// zero-length vector.
func Normalize(v Point) Point {
	sq := v.X*v.X + v.Y*v.Y
	if AlmostEqual(sq, 1) {
		return v
	}
	length := math.Sqrt(sq)
	if length == 0 {
		return Point{}
	}
	inv := 1 / length
	return Point{X: v.X * inv, Y: v.Y * inv}
}

// SignedArea computes the polygon area via the shoelace formula. The sign
// encodes winding orientation; fewer than 3 points yields 0.
func SignedArea(p Polygon) float64 {
	if len(p) < 3 {
		return 0
	}
	var area float64
	for i := range p {
		j := (i + 1) % len(p)
		area += p[i].X * p[j].Y
		area -= p[j].X * p[i].Y
	}
	return area / 2
}

// Bounds returns the axis-aligned bounding box of the polygon, or a zero
// rectangle for empty input.
func Bounds(p Polygon) Rect {
	if len(p) == 0 {
		return Rect{}
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := p[0].X, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// PointInPolygon reports whether pt lies inside the polygon using a
// ray-casting parity test. Points exactly on the boundary may report either
// result, but the test never fails.
func PointInPolygon(pt Point, polygon Polygon) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := range polygon {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y
		if (yi > pt.Y) != (yj > pt.Y) &&
			pt.X < (xj-xi)*(pt.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// SegmentIntersect finds the intersection of segments AB and EF by solving
// the 2x2 system formed by each segment's implicit line equation. It returns
// false when the lines are near-parallel or the solution is non-finite.
// When infinite is false, the intersection must additionally fall within each
// segment's coordinate range on each axis independently.
func SegmentIntersect(a, b, e, f Point, infinite bool) (Point, bool) {
	a1 := b.Y - a.Y
	b1 := a.X - b.X
	c1 := b.X*a.Y - a.X*b.Y
	a2 := f.Y - e.Y
	b2 := e.X - f.X
	c2 := f.X*e.Y - e.X*f.Y

	denom := a1*b2 - a2*b1
	if AlmostEqual(denom, 0) {
		return Point{}, false
	}

	x := (b1*c2 - b2*c1) / denom
	y := (a2*c1 - a1*c2) / denom
	if math.IsInf(x, 0) || math.IsNaN(x) || math.IsInf(y, 0) || math.IsNaN(y) {
		return Point{}, false
	}

	if !infinite {
		// Per-axis range clamp on each segment, not a true 2D containment test.
		if math.Abs(a.X-b.X) > Tol && outsideRange(x, a.X, b.X) {
			return Point{}, false
		}
		if math.Abs(a.Y-b.Y) > Tol && outsideRange(y, a.Y, b.Y) {
			return Point{}, false
		}
		if math.Abs(e.X-f.X) > Tol && outsideRange(x, e.X, f.X) {
			return Point{}, false
		}
		if math.Abs(e.Y-f.Y) > Tol && outsideRange(y, e.Y, f.Y) {
			return Point{}, false
		}
	}

	return Point{X: x, Y: y}, true
}

// outsideRange reports whether v falls outside the closed interval spanned
// by lo and hi (in either order).
func outsideRange(v, lo, hi float64) bool {
	if lo < hi {
		return v < lo || v > hi
	}
	return v > lo || v < hi
}

// Rotate returns the polygon rotated about the origin by the given angle in
// degrees, counter-clockwise.
func Rotate(p Polygon, degrees float64) Polygon {
	angle := DegToRad(degrees)
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	rotated := make(Polygon, len(p))
	for i, pt := range p {
		rotated[i] = Point{
			X: pt.X*cos - pt.Y*sin,
			Y: pt.X*sin + pt.Y*cos,
		}
	}
	return rotated
}

// Translate returns the polygon offset by dx, dy.
func Translate(p Polygon, dx, dy float64) Polygon {
	translated := make(Polygon, len(p))
	for i, pt := range p {
		translated[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return translated
}

// Leftmost returns the point with the smallest x coordinate. The first
// encountered wins ties. Empty input yields the zero point.
func Leftmost(p Polygon) Point {
	if len(p) == 0 {
		return Point{}
	}
	leftmost := p[0]
	for _, pt := range p[1:] {
		if pt.X < leftmost.X {
			leftmost = pt
		}
	}
	return leftmost
}

// Rightmost returns the point with the largest x coordinate. The first
// encountered wins ties. Empty input yields the zero point.
func Rightmost(p Polygon) Point {
	if len(p) == 0 {
		return Point{}
	}
	rightmost := p[0]
	for _, pt := range p[1:] {
		if pt.X > rightmost.X {
			rightmost = pt
		}
	}
	return rightmost
}
