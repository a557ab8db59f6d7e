package export

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// DefaultImageWidth is the pixel width of exported PNG layouts.
const DefaultImageWidth = 1200

// ExportPNG rasterizes the nested layout and writes it as a PNG image. The
// image is scaled so that the sheet fills the given pixel width.
func ExportPNG(path string, result model.NestResult, container model.Container, widthPx int) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}
	if widthPx <= 0 {
		widthPx = DefaultImageWidth
	}

	scale := float64(widthPx) / container.Width
	heightPx := int(math.Ceil(container.Height * scale))
	if heightPx < 1 {
		heightPx = 1
	}

	img := imaging.New(widthPx, heightPx, color.NRGBA{R: 245, G: 240, B: 232, A: 255})

	for i, p := range result.Placements {
		col := partColors[i%len(partColors)]
		fill := color.NRGBA{R: uint8(col.R), G: uint8(col.G), B: uint8(col.B), A: 255}
		fillPolygon(img, p.Polygon, scale, fill)
	}

	drawBorder(img, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("cannot write PNG file: %w", err)
	}
	return nil
}

// fillPolygon rasterizes a polygon with even-odd scanline filling.
func fillPolygon(img *image.NRGBA, polygon geom.Polygon, scale float64, fill color.NRGBA) {
	if len(polygon) < 3 {
		return
	}

	scaled := make(geom.Polygon, len(polygon))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, pt := range polygon {
		scaled[i] = geom.Point{X: pt.X * scale, Y: pt.Y * scale}
		minY = math.Min(minY, scaled[i].Y)
		maxY = math.Max(maxY, scaled[i].Y)
	}

	bounds := img.Bounds()
	yStart := int(math.Max(math.Floor(minY), float64(bounds.Min.Y)))
	yEnd := int(math.Min(math.Ceil(maxY), float64(bounds.Max.Y-1)))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		var crossings []float64
		j := len(scaled) - 1
		for i := range scaled {
			a, b := scaled[i], scaled[j]
			if (a.Y > scanY) != (b.Y > scanY) {
				x := a.X + (scanY-a.Y)/(b.Y-a.Y)*(b.X-a.X)
				crossings = append(crossings, x)
			}
			j = i
		}
		sort.Float64s(crossings)

		for c := 0; c+1 < len(crossings); c += 2 {
			xStart := int(math.Max(math.Ceil(crossings[c]-0.5), float64(bounds.Min.X)))
			xEnd := int(math.Min(math.Floor(crossings[c+1]-0.5), float64(bounds.Max.X-1)))
			for x := xStart; x <= xEnd; x++ {
				img.SetNRGBA(x, y, fill)
			}
		}
	}
}

// drawBorder outlines the image edge with a one-pixel frame.
func drawBorder(img *image.NRGBA, border color.NRGBA) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetNRGBA(x, b.Min.Y, border)
		img.SetNRGBA(x, b.Max.Y-1, border)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.SetNRGBA(b.Min.X, y, border)
		img.SetNRGBA(b.Max.X-1, y, border)
	}
}
