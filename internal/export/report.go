package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// ExportReport writes an Excel workbook with a placement table and a
// summary sheet.
func ExportReport(path string, result model.NestResult, container model.Container, parts []model.Part) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	placementsSheet := "Placements"
	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("cannot rename sheet: %w", err)
	}

	headers := []interface{}{"#", "Part", "Copy", "Width", "Height", "X", "Y", "Rotation"}
	if err := f.SetSheetRow(placementsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("cannot write header row: %w", err)
	}

	labels := partLabelIndex(parts)
	for i, p := range result.Placements {
		label := labels[p.PartID]
		if label == "" {
			label = fmt.Sprintf("Part %d", p.OriginalIndex+1)
		}
		b := geom.Bounds(p.Polygon)

		row := []interface{}{
			i + 1, label, p.CopyNumber + 1, b.Width, b.Height, p.X, p.Y, p.RotationDeg,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cannot compute cell name: %w", err)
		}
		if err := f.SetSheetRow(placementsSheet, cell, &row); err != nil {
			return fmt.Errorf("cannot write placement row: %w", err)
		}
	}

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("cannot create summary sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Sheet", fmt.Sprintf("%.0f x %.0f %s", container.Width, container.Height, container.Units)},
		{"Parts Placed", fmt.Sprintf("%d of %d", result.PlacedInstances, result.TotalInstances)},
		{"Utilization %", result.Utilization},
		{"Bounding Box Area", result.Fitness},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cannot compute cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("cannot write summary row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot write Excel file: %w", err)
	}
	return nil
}
