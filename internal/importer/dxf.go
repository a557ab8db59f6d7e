package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// dxfSegment is a line segment between two points, used for chaining
// disconnected LINE and ARC entities into closed outlines.
type dxfSegment struct {
	start geom.Point
	end   geom.Point
}

// ImportDXF imports parts from a DXF file. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs/ARCs) becomes a separate part with
// its outline normalized to the origin.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []geom.Polygon
	var segments []dxfSegment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToPolygon(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToPolygonDXF(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, dxfSegment{
				start: geom.Point{X: e.Start[0], Y: e.Start[1]},
				end:   geom.Point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, chained := range chainSegments(segments, 0.01) {
		if len(chained) >= 3 {
			outlines = append(outlines, chained)
		}
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "no closed shapes found in DXF file")
		return result
	}

	partNum := 0
	for _, outline := range outlines {
		partNum++
		b := geom.Bounds(outline)
		normalized := geom.Translate(outline, -b.X, -b.Y)

		if b.Width < 0.01 || b.Height < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipped degenerate shape (%.2f x %.2f)", b.Width, b.Height))
			continue
		}

		result.Parts = append(result.Parts,
			model.NewPart(fmt.Sprintf("DXF Part %d", partNum), normalized, 1))
	}

	return result
}

// lwPolylineToPolygon converts a DXF LWPOLYLINE to a polygon. Bulge values
// on vertices produce interpolated arc segments.
func lwPolylineToPolygon(lw *entity.LwPolyline) geom.Polygon {
	var outline geom.Polygon

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := geom.Point{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := geom.Point{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex is appended by its own iteration.
			outline = append(outline, arcPts[:len(arcPts)-1]...)
		} else {
			outline = append(outline, current)
		}
	}

	return outline
}

// bulgeArcPoints generates points along an arc defined by two endpoints and
// a DXF bulge factor (the tangent of a quarter of the included angle).
func bulgeArcPoints(p1, p2 geom.Point, bulge float64, numSegments int) geom.Polygon {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return geom.Polygon{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)

	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make(geom.Polygon, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, geom.Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToPolygonDXF approximates a circle as a regular polygon.
func circleToPolygonDXF(c *entity.Circle, numSegments int) geom.Polygon {
	outline := make(geom.Polygon, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		outline[i] = geom.Point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return outline
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []geom.Point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]geom.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = geom.Point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// pointsToSegments converts a point sequence to connected segments.
func pointsToSegments(pts []geom.Point) []dxfSegment {
	segs := make([]dxfSegment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, dxfSegment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines; tolerance
// is the maximum endpoint distance still considered connected.
func chainSegments(segs []dxfSegment, tolerance float64) []geom.Polygon {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []geom.Polygon

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := geom.Polygon{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if geom.WithinDistance(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if geom.WithinDistance(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && geom.WithinDistance(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	// Largest first for consistent part numbering.
	sort.Slice(outlines, func(i, j int) bool {
		return math.Abs(geom.SignedArea(outlines[i])) > math.Abs(geom.SignedArea(outlines[j]))
	})

	return outlines
}
