package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// approxPoints compares point slices within a small absolute tolerance.
var approxPoints = cmp.Comparer(func(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-7 && math.Abs(a.Y-b.Y) < 1e-7
})

func square(size float64) Polygon {
	return Polygon{
		{0, 0},
		{size, 0},
		{size, size},
		{0, size},
	}
}

func reversed(p Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

func TestSignedAreaSquare(t *testing.T) {
	got := SignedArea(square(10))
	if !AlmostEqual(got, 100) {
		t.Errorf("SignedArea = %v, want 100", got)
	}
}

func TestSignedAreaDegenerate(t *testing.T) {
	if got := SignedArea(nil); got != 0 {
		t.Errorf("SignedArea(nil) = %v, want 0", got)
	}
	if got := SignedArea(Polygon{{0, 0}, {1, 1}}); got != 0 {
		t.Errorf("SignedArea(2 points) = %v, want 0", got)
	}
}

func TestSignedAreaTranslationInvariant(t *testing.T) {
	p := Polygon{{0, 0}, {7, 1}, {5, 6}, {1, 4}}
	moved := Translate(p, -123.5, 88.25)
	if !AlmostEqual(SignedArea(p), SignedArea(moved)) {
		t.Errorf("area changed under translation: %v vs %v", SignedArea(p), SignedArea(moved))
	}
}

func TestSignedAreaSignFlipsOnReversal(t *testing.T) {
	p := square(4)
	if got := SignedArea(p) + SignedArea(reversed(p)); !AlmostEqual(got, 0) {
		t.Errorf("areas of a ring and its reversal should cancel, sum = %v", got)
	}
}

func TestSignedAreaMagnitudeRotationInvariant(t *testing.T) {
	p := Polygon{{0, 0}, {7, 1}, {5, 6}, {1, 4}}
	for _, deg := range []float64{15, 45, 90, 133.7, 270} {
		r := Rotate(p, deg)
		if math.Abs(math.Abs(SignedArea(p))-math.Abs(SignedArea(r))) > 1e-7 {
			t.Errorf("area magnitude changed under %v degree rotation", deg)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	p := Polygon{{1, 2}, {3, -4}, {-5, 6}}
	for _, deg := range []float64{0, 30, 90, 180, 217.3, 360} {
		got := Rotate(Rotate(p, deg), -deg)
		if diff := cmp.Diff(p, got, approxPoints); diff != "" {
			t.Errorf("rotate round trip at %v degrees (-want +got):\n%s", deg, diff)
		}
	}
}

func TestBounds(t *testing.T) {
	p := Polygon{{2, 3}, {8, 1}, {5, 9}}
	got := Bounds(p)
	want := Rect{X: 2, Y: 1, Width: 6, Height: 8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundsEmpty(t *testing.T) {
	if got := Bounds(nil); got != (Rect{}) {
		t.Errorf("Bounds(nil) = %+v, want zero rect", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	p := square(10)

	if !PointInPolygon(Point{5, 5}, p) {
		t.Error("interior point reported outside")
	}
	if PointInPolygon(Point{15, 5}, p) {
		t.Error("exterior point reported inside")
	}
	if PointInPolygon(Point{-1, -1}, p) {
		t.Error("exterior corner point reported inside")
	}

	// Boundary and vertex inputs are implementation-defined but must not panic.
	_ = PointInPolygon(Point{0, 0}, p)
	_ = PointInPolygon(Point{5, 0}, p)
	_ = PointInPolygon(Point{10, 10}, p)
}

func TestPointInPolygonDegenerate(t *testing.T) {
	if PointInPolygon(Point{0, 0}, Polygon{{0, 0}, {1, 1}}) {
		t.Error("2-point polygon cannot contain anything")
	}
}

func TestSegmentIntersectCrossing(t *testing.T) {
	got, ok := SegmentIntersect(Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{10, 0}, false)
	if !ok {
		t.Fatal("expected intersection")
	}
	if diff := cmp.Diff(Point{5, 5}, got, approxPoints); diff != "" {
		t.Errorf("intersection mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentIntersectParallel(t *testing.T) {
	if _, ok := SegmentIntersect(Point{0, 0}, Point{10, 0}, Point{0, 1}, Point{10, 1}, false); ok {
		t.Error("parallel segments should not intersect")
	}
	// Near-parallel within tolerance of zero determinant
	if _, ok := SegmentIntersect(Point{0, 0}, Point{10, 0}, Point{0, 1}, Point{10, 1 + 1e-12}, false); ok {
		t.Error("near-parallel segments should not intersect")
	}
}

func TestSegmentIntersectOutsideRange(t *testing.T) {
	// Lines cross at (5,5) but segment EF ends before reaching it.
	if _, ok := SegmentIntersect(Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{4, 6}, false); ok {
		t.Error("intersection outside segment range should be rejected")
	}
	// The same pair intersects when treated as infinite lines.
	got, ok := SegmentIntersect(Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{4, 6}, true)
	if !ok {
		t.Fatal("infinite lines should intersect")
	}
	if diff := cmp.Diff(Point{5, 5}, got, approxPoints); diff != "" {
		t.Errorf("infinite intersection mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate(t *testing.T) {
	got := Translate(Polygon{{1, 1}, {2, 2}}, 10, -5)
	want := Polygon{{11, -4}, {12, -3}}
	if diff := cmp.Diff(want, got, approxPoints); diff != "" {
		t.Errorf("Translate mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftmostRightmost(t *testing.T) {
	p := Polygon{{3, 0}, {1, 5}, {1, -2}, {9, 4}}
	if got := Leftmost(p); got != (Point{1, 5}) {
		t.Errorf("Leftmost = %+v, want first-encountered {1 5}", got)
	}
	if got := Rightmost(p); got != (Point{9, 4}) {
		t.Errorf("Rightmost = %+v, want {9 4}", got)
	}
	if got := Leftmost(nil); got != (Point{}) {
		t.Errorf("Leftmost(nil) = %+v, want zero point", got)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Point{3, 4})
	if diff := cmp.Diff(Point{0.6, 0.8}, got, approxPoints); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
	if got := Normalize(Point{}); got != (Point{}) {
		t.Errorf("Normalize(zero) = %+v, want zero", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Overlaps(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("overlapping rects reported disjoint")
	}
	if a.Overlaps(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Error("edge-touching rects should not overlap")
	}
	if a.Overlaps(Rect{X: 20, Y: 20, Width: 5, Height: 5}) {
		t.Error("disjoint rects reported overlapping")
	}
}
