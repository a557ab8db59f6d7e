// Package export writes nesting results to various file formats: SVG and
// PNG layout drawings, PDF reports, QR-coded part labels, Excel placement
// reports, and raw JSON.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// partColor represents an RGB color for a placed part.
type partColor struct {
	R, G, B int
}

// partColors is the palette cycled through when drawing placements.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func (c partColor) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

const svgHeaderHeight = 40.0

// SVGOptions controls the decorations drawn around the layout.
type SVGOptions struct {
	ShowGrid       bool
	ShowDimensions bool
}

// DefaultSVGOptions enables the grid pattern and dimension labels.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{ShowGrid: true, ShowDimensions: true}
}

// RenderSVG produces an SVG document showing the container outline and all
// placed parts, with a stats banner above the sheet and default decorations.
func RenderSVG(result model.NestResult, container model.Container) string {
	return RenderSVGWithOptions(result, container, DefaultSVGOptions())
}

// RenderSVGWithOptions renders the layout with explicit decoration options.
// The sheet is surrounded by a margin of a tenth of its smaller dimension so
// the dimension labels have room to sit outside the outline.
func RenderSVGWithOptions(result model.NestResult, container model.Container, opts SVGOptions) string {
	var b strings.Builder

	margin := math.Min(container.Width, container.Height) / 10
	docW := container.Width + 2*margin
	docH := container.Height + 2*margin + svgHeaderHeight

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		docW, docH, docW, docH)

	fmt.Fprintf(&b,
		`  <text x="4" y="16" font-family="sans-serif" font-size="12">%s</text>`+"\n",
		escapeXML(result.Message))
	fmt.Fprintf(&b,
		`  <text x="4" y="32" font-family="sans-serif" font-size="10" fill="#666">Utilization: %.1f%% | Sheet: %g x %g %s</text>`+"\n",
		result.Utilization, container.Width, container.Height, container.Units)

	if opts.ShowGrid {
		gridSize := math.Min(container.Width, container.Height) / 20
		b.WriteString("  <defs>\n")
		fmt.Fprintf(&b,
			`    <pattern id="grid" width="%g" height="%g" patternUnits="userSpaceOnUse">`+"\n",
			gridSize, gridSize)
		fmt.Fprintf(&b,
			`      <path d="M %g 0 L 0 0 0 %g" fill="none" stroke="#e0e0e0" stroke-width="0.5"/>`+"\n",
			gridSize, gridSize)
		b.WriteString("    </pattern>\n  </defs>\n")
	}

	// Sheet area, shifted below the banner and inside the margin.
	fmt.Fprintf(&b, `  <g transform="translate(%g %g)">`+"\n", margin, svgHeaderHeight+margin)
	fmt.Fprintf(&b,
		`    <rect x="0" y="0" width="%g" height="%g" fill="#f5f0e8" stroke="#646464" stroke-width="1"/>`+"\n",
		container.Width, container.Height)
	if opts.ShowGrid {
		fmt.Fprintf(&b,
			`    <rect x="0" y="0" width="%g" height="%g" fill="url(#grid)"/>`+"\n",
			container.Width, container.Height)
	}

	if opts.ShowDimensions {
		fmt.Fprintf(&b,
			`    <text x="%g" y="%g" text-anchor="middle" font-family="sans-serif" font-size="%g" fill="#333">%g %s</text>`+"\n",
			container.Width/2, -margin/3, margin/4, container.Width, container.Units)
		fmt.Fprintf(&b,
			`    <text x="%g" y="%g" text-anchor="middle" font-family="sans-serif" font-size="%g" fill="#333" transform="rotate(-90, %g, %g)">%g %s</text>`+"\n",
			-margin/3, container.Height/2, margin/4,
			-margin/3, container.Height/2, container.Height, container.Units)
	}

	for i, p := range result.Placements {
		color := partColors[i%len(partColors)]
		fmt.Fprintf(&b,
			`    <polygon points="%s" fill="%s" fill-opacity="0.8" stroke="#1e1e1e" stroke-width="0.5"/>`+"\n",
			polygonPoints(p.Polygon), color.hex())

		center := polygonCenter(p.Polygon)
		fmt.Fprintf(&b,
			`    <text x="%g" y="%g" font-family="sans-serif" font-size="8" text-anchor="middle">%d.%d</text>`+"\n",
			center.X, center.Y, p.OriginalIndex+1, p.CopyNumber+1)
	}

	b.WriteString("  </g>\n</svg>\n")
	return b.String()
}

// ExportSVG writes the layout SVG to a file.
func ExportSVG(path string, result model.NestResult, container model.Container) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}
	if err := os.WriteFile(path, []byte(RenderSVG(result, container)), 0644); err != nil {
		return fmt.Errorf("cannot write SVG file: %w", err)
	}
	return nil
}

func polygonPoints(p geom.Polygon) string {
	parts := make([]string, len(p))
	for i, pt := range p {
		parts[i] = fmt.Sprintf("%g,%g", pt.X, pt.Y)
	}
	return strings.Join(parts, " ")
}

func polygonCenter(p geom.Polygon) geom.Point {
	b := geom.Bounds(p)
	return geom.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
