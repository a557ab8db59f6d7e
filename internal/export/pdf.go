package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document with the nested layout on the first
// page and a statistics summary on the second.
func ExportPDF(path string, result model.NestResult, container model.Container, parts []model.Part) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result, container, parts)

	pdf.AddPage()
	renderSummaryPage(pdf, result, container, parts)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the container and all placed polygons to scale.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.NestResult, container model.Container, parts []model.Part) {
	labels := partLabelIndex(parts)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Nested Layout: %s (%.0f x %.0f %s)",
		container.Label, container.Width, container.Height, container.Units)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Placed: %d of %d | Utilization: %.1f%% | Bounding area: %.0f",
		result.PlacedInstances, result.TotalInstances, result.Utilization, result.Fitness)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/container.Width, drawHeight/container.Height)
	canvasW := container.Width * scale
	canvasH := container.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background.
	pdf.SetFillColor(245, 240, 232)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range result.Placements {
		col := partColors[i%len(partColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(toPagePoints(p.Polygon, scale, offsetX, offsetY), "FD")

		b := geom.Bounds(p.Polygon)
		if b.Width*scale > 10 && b.Height*scale > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(b.Width*scale, b.Height*scale))
			pdf.SetTextColor(0, 0, 0)
			label := labels[p.PartID]
			if label == "" {
				label = fmt.Sprintf("#%d", p.OriginalIndex+1)
			}
			labelW := pdf.GetStringWidth(label)
			if labelW < b.Width*scale-2 {
				cx := offsetX + (b.X+b.Width/2)*scale
				cy := offsetY + (b.Y+b.Height/2)*scale
				pdf.SetXY(cx-labelW/2, cy-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, container, offsetX, offsetY, canvasW, canvasH)
	drawPartsLegend(pdf, result, labels, offsetY+canvasH+5)
}

// toPagePoints converts a polygon from sheet units into page coordinates.
func toPagePoints(p geom.Polygon, scale, offsetX, offsetY float64) []fpdf.PointType {
	pts := make([]fpdf.PointType, len(p))
	for i, pt := range p {
		pts[i] = fpdf.PointType{X: offsetX + pt.X*scale, Y: offsetY + pt.Y*scale}
	}
	return pts
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, container model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f %s", container.Width, container.Units)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f %s", container.Height, container.Units)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPartsLegend renders a compact legend of placed parts below the sheet.
func drawPartsLegend(pdf *fpdf.Fpdf, result model.NestResult, labels map[string]string, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Parts placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range result.Placements {
		col := partColors[i%len(partColors)]
		label := labels[p.PartID]
		if label == "" {
			label = fmt.Sprintf("Part %d", p.OriginalIndex+1)
		}
		if p.RotationDeg != 0 {
			label += fmt.Sprintf(" @%.0f", p.RotationDeg)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the statistics page.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.NestResult, container model.Container, parts []model.Part) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheet", fmt.Sprintf("%.0f x %.0f %s", container.Width, container.Height, container.Units)},
		{"Parts Placed", fmt.Sprintf("%d of %d", result.PlacedInstances, result.TotalInstances)},
		{"Utilization", fmt.Sprintf("%.1f%%", result.Utilization)},
		{"Bounding Box Area", fmt.Sprintf("%.0f", result.Fitness)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placements", "", 0, "L", false, 0, "")
	y += 9

	labels := partLabelIndex(parts)
	colWidths := []float64{15, 70, 40, 40, 40, 30}
	headers := []string{"#", "Part", "X", "Y", "Rotation", "Copy"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, p := range result.Placements {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}

		label := labels[p.PartID]
		if label == "" {
			label = fmt.Sprintf("Part %d", p.OriginalIndex+1)
		}

		rowData := []string{
			fmt.Sprintf("%d", i+1),
			label,
			fmt.Sprintf("%.1f", p.X),
			fmt.Sprintf("%.1f", p.Y),
			fmt.Sprintf("%.0f", p.RotationDeg),
			fmt.Sprintf("%d", p.CopyNumber+1),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SVGnest", "", 0, "C", false, 0, "")
}

// labelFontSize returns a font size suited to the placement's drawn extent.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// partLabelIndex maps part IDs to their display labels.
func partLabelIndex(parts []model.Part) map[string]string {
	labels := make(map[string]string, len(parts))
	for _, p := range parts {
		labels[p.ID] = p.Label
	}
	return labels
}
