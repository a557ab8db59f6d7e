package importer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// SVGParser converts SVG shape elements into polygon contours. Curved
// shapes (circles, ellipses) are flattened into segments; Tolerance is the
// maximum sagitta error of that flattening.
type SVGParser struct {
	Tolerance float64
}

// NewSVGParser returns a parser with the default curve tolerance.
func NewSVGParser() *SVGParser {
	return &SVGParser{Tolerance: 2.0}
}

var (
	pathCommandRe = regexp.MustCompile(`[MmLlHhVvZz][^MmLlHhVvZz]*`)
	numberRe      = regexp.MustCompile(`-?\d*\.?\d+`)
	whitespaceRe  = regexp.MustCompile(`[,\s]+`)
)

// Parse extracts polygons from SVG document bytes. Elements it cannot
// convert are skipped silently; a malformed document returns an error.
func (p *SVGParser) Parse(data []byte) ([]geom.Polygon, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var polygons []geom.Polygon
	sawRoot := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid SVG: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		if polygon, ok := p.elementToPolygon(start); ok {
			polygons = append(polygons, polygon)
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("invalid SVG: no elements found")
	}
	return polygons, nil
}

// ParseFile extracts polygons from an SVG file.
func (p *SVGParser) ParseFile(path string) ([]geom.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read SVG file: %w", err)
	}
	return p.Parse(data)
}

func (p *SVGParser) elementToPolygon(el xml.StartElement) (geom.Polygon, bool) {
	switch el.Name.Local {
	case "rect":
		return rectToPolygon(el)
	case "circle":
		return p.circleToPolygon(el)
	case "ellipse":
		return p.ellipseToPolygon(el)
	case "polygon", "polyline":
		return parsePointsAttr(attr(el, "points"))
	case "line":
		return lineToPolygon(el)
	case "path":
		return pathToPolygon(attr(el, "d"))
	default:
		return nil, false
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrFloat(el xml.StartElement, name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(attr(el, name)), 64)
	if err != nil {
		return 0
	}
	return v
}

func rectToPolygon(el xml.StartElement) (geom.Polygon, bool) {
	x := attrFloat(el, "x")
	y := attrFloat(el, "y")
	width := attrFloat(el, "width")
	height := attrFloat(el, "height")
	if width <= 0 || height <= 0 {
		return nil, false
	}
	return geom.Polygon{
		{X: x, Y: y},
		{X: x + width, Y: y},
		{X: x + width, Y: y + height},
		{X: x, Y: y + height},
	}, true
}

// arcSegments picks the segment count approximating a radius within the
// flattening tolerance, with a floor of 8.
func (p *SVGParser) arcSegments(radius float64) int {
	if p.Tolerance <= 0 || p.Tolerance >= radius {
		return 8
	}
	segments := int(math.Ceil(2 * math.Pi / math.Acos(1-p.Tolerance/radius)))
	if segments < 8 {
		segments = 8
	}
	return segments
}

func (p *SVGParser) circleToPolygon(el xml.StartElement) (geom.Polygon, bool) {
	cx := attrFloat(el, "cx")
	cy := attrFloat(el, "cy")
	r := attrFloat(el, "r")
	if r <= 0 {
		return nil, false
	}
	segments := p.arcSegments(r)
	points := make(geom.Polygon, segments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = geom.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return points, true
}

func (p *SVGParser) ellipseToPolygon(el xml.StartElement) (geom.Polygon, bool) {
	cx := attrFloat(el, "cx")
	cy := attrFloat(el, "cy")
	rx := attrFloat(el, "rx")
	ry := attrFloat(el, "ry")
	if rx <= 0 || ry <= 0 {
		return nil, false
	}
	segments := p.arcSegments(math.Max(rx, ry))
	points := make(geom.Polygon, segments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = geom.Point{X: cx + rx*math.Cos(angle), Y: cy + ry*math.Sin(angle)}
	}
	return points, true
}

func lineToPolygon(el xml.StartElement) (geom.Polygon, bool) {
	return geom.Polygon{
		{X: attrFloat(el, "x1"), Y: attrFloat(el, "y1")},
		{X: attrFloat(el, "x2"), Y: attrFloat(el, "y2")},
	}, true
}

func parsePointsAttr(raw string) (geom.Polygon, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	coords := strings.Fields(whitespaceRe.ReplaceAllString(raw, " "))
	if len(coords) < 4 || len(coords)%2 != 0 {
		return nil, false
	}

	points := make(geom.Polygon, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, errX := strconv.ParseFloat(coords[i], 64)
		y, errY := strconv.ParseFloat(coords[i+1], 64)
		if errX != nil || errY != nil {
			return nil, false
		}
		points = append(points, geom.Point{X: x, Y: y})
	}
	return points, true
}

// pathToPolygon flattens the linear subset of SVG path commands
// (M/m, L/l, H/h, V/v, Z/z) into a polygon. Curve commands are not
// supported and terminate the scan of their containing token.
func pathToPolygon(d string) (geom.Polygon, bool) {
	if d == "" {
		return nil, false
	}

	var points geom.Polygon
	var currentX, currentY, startX, startY float64

	for _, command := range pathCommandRe.FindAllString(d, -1) {
		cmd := command[0]
		params := parseNumbers(command[1:])

		switch cmd {
		case 'M':
			if len(params) >= 2 {
				currentX, currentY = params[0], params[1]
				startX, startY = currentX, currentY
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'm':
			if len(params) >= 2 {
				currentX += params[0]
				currentY += params[1]
				startX, startY = currentX, currentY
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'L':
			for i := 0; i+1 < len(params); i += 2 {
				currentX, currentY = params[i], params[i+1]
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'l':
			for i := 0; i+1 < len(params); i += 2 {
				currentX += params[i]
				currentY += params[i+1]
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'H':
			for _, v := range params {
				currentX = v
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'h':
			for _, v := range params {
				currentX += v
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'V':
			for _, v := range params {
				currentY = v
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'v':
			for _, v := range params {
				currentY += v
				points = append(points, geom.Point{X: currentX, Y: currentY})
			}
		case 'Z', 'z':
			// Polygons are implicitly closed, so Z only moves the pen.
			currentX, currentY = startX, startY
		}
	}

	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return nil, false
	}
	return points, true
}

func parseNumbers(s string) []float64 {
	matches := numberRe.FindAllString(s, -1)
	numbers := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, v)
	}
	return numbers
}

// ImportSVG imports each shape in an SVG file as a separate part.
func ImportSVG(path string) ImportResult {
	return importSVGWith(NewSVGParser(), path)
}

// ImportSVGWithTolerance imports an SVG file using a custom curve tolerance.
func ImportSVGWithTolerance(path string, tolerance float64) ImportResult {
	parser := NewSVGParser()
	if tolerance > 0 {
		parser.Tolerance = tolerance
	}
	return importSVGWith(parser, path)
}

func importSVGWith(parser *SVGParser, path string) ImportResult {
	result := ImportResult{}

	polygons, err := parser.ParseFile(path)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if len(polygons) == 0 {
		result.Errors = append(result.Errors, "no shapes found in SVG file")
		return result
	}

	for i, polygon := range polygons {
		if len(polygon) < 3 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipped shape %d with fewer than 3 points", i+1))
			continue
		}
		result.Parts = append(result.Parts,
			model.NewPart(fmt.Sprintf("SVG Part %d", len(result.Parts)+1), polygon, 1))
	}

	if len(result.Parts) == 0 {
		result.Errors = append(result.Errors, "no usable shapes found in SVG file")
	}
	return result
}
