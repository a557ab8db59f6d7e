// Package nest ties the import, search, and result stages together: it
// expands part quantities, builds container sheets, runs the genetic
// placement search, and enriches the raw solver result with utilization
// statistics.
package nest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/soumyadeepsahu/SVGnest/internal/engine"
	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// DefaultSeed is the random seed used when the caller does not supply one.
const DefaultSeed = 42

// Nester orchestrates a nesting run.
type Nester struct {
	Config engine.Config
	Seed   int64

	parts     []model.Part
	instances []model.PartInstance
	container model.Container
	hasSheet  bool
}

// New returns a Nester with default configuration.
func New() *Nester {
	return &Nester{
		Config: engine.DefaultConfig(),
		Seed:   DefaultSeed,
	}
}

// SetParts replaces the part list and expands quantities into instances.
func (n *Nester) SetParts(parts []model.Part) {
	n.parts = parts
	n.instances = model.ExpandParts(parts)
}

// Parts returns the current part list.
func (n *Nester) Parts() []model.Part {
	return n.parts
}

// InstanceCount returns the number of expanded part instances.
func (n *Nester) InstanceCount() int {
	return len(n.instances)
}

// SetContainer sets the placement region.
func (n *Nester) SetContainer(c model.Container) {
	n.container = c
	n.hasSheet = true
}

// Nest runs the placement search and enriches the result with utilization
// and instance statistics. Parts and a container must have been set.
func (n *Nester) Nest(ctx context.Context) (model.NestResult, error) {
	if len(n.instances) == 0 || !n.hasSheet {
		return model.NestResult{}, errors.New("parts and container must be set before nesting")
	}

	solver, err := engine.NewSolver(n.Config, n.Seed)
	if err != nil {
		return model.NestResult{}, err
	}

	result := solver.Solve(ctx, n.instances, n.container.Outline)
	result.TotalInstances = len(n.instances)
	result.PlacedInstances = len(result.Placements)
	result.Utilization = n.utilization(result)
	result.Message = fmt.Sprintf("Placed %d out of %d part instances",
		result.PlacedInstances, result.TotalInstances)
	return result, nil
}

// utilization is the placed polygon area as a percentage of container area.
func (n *Nester) utilization(result model.NestResult) float64 {
	containerArea := n.container.Area()
	if len(result.Placements) == 0 || containerArea == 0 {
		return 0
	}
	return result.PlacedArea() / containerArea * 100
}

// EstimateMaxQuantity upper-bounds how many copies of the outline could fit
// on a sheet by tiling the best rotation's bounding box. Spacing is added to
// each bbox dimension.
func EstimateMaxQuantity(outline geom.Polygon, sheetWidth, sheetHeight, spacing float64, rotationAngles []float64) int {
	if len(rotationAngles) == 0 {
		rotationAngles = []float64{0, 90, 180, 270}
	}

	best := 0
	for _, angle := range rotationAngles {
		b := geom.Bounds(geom.Rotate(outline, angle))
		w := b.Width + spacing
		h := b.Height + spacing
		if w <= 0 || h <= 0 || w > sheetWidth || h > sheetHeight {
			continue
		}
		estimate := int(sheetWidth/w) * int(sheetHeight/h)
		if estimate > best {
			best = estimate
		}
	}
	return best
}

// MaxQuantityResult is the outcome of a NestMaxQuantity search.
type MaxQuantityResult struct {
	Result            model.NestResult `json:"result"`
	Sheet             model.Container  `json:"sheet"`
	EstimatedMax      int              `json:"estimated_max"`
	AttemptedQuantity int              `json:"attempted_quantity"`
	ActualQuantity    int              `json:"actual_quantity"`
	Efficiency        float64          `json:"efficiency"`
}

// NestMaxQuantity searches for the largest number of copies of a single
// outline that fit on a sheet. Candidate quantities are derived from the
// bbox estimate (fractions of it plus small powers of two), tried in
// descending order up to maxAttempts, keeping the attempt that placed the
// most copies and stopping early on a perfect fit.
func (n *Nester) NestMaxQuantity(ctx context.Context, outline geom.Polygon, sheetWidth, sheetHeight float64, maxAttempts int, units string) (MaxQuantityResult, error) {
	sheet := model.NewContainerSheet(sheetWidth, sheetHeight, units)
	n.SetContainer(sheet)

	estimated := EstimateMaxQuantity(outline, sheetWidth, sheetHeight, n.Config.Spacing, nil)
	out := MaxQuantityResult{Sheet: sheet, EstimatedMax: estimated}
	if estimated == 0 {
		return out, nil
	}

	quantities := candidateQuantities(estimated, maxAttempts)

	for _, qty := range quantities {
		n.SetParts([]model.Part{model.NewPart("part", outline, qty)})

		result, err := n.Nest(ctx)
		if err != nil {
			return out, err
		}

		placed := len(result.Placements)
		if placed > out.ActualQuantity {
			out.ActualQuantity = placed
			out.AttemptedQuantity = qty
			out.Result = result
		}
		if placed == qty {
			break
		}
	}

	if estimated > 0 {
		out.Efficiency = float64(out.ActualQuantity) / float64(estimated) * 100
	}
	return out, nil
}

// SheetSize is one candidate sheet in a sheet comparison.
type SheetSize struct {
	Name   string  `json:"name,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Units  string  `json:"units,omitempty"`
}

func (s SheetSize) label() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// SheetComparison records how one candidate sheet performed.
type SheetComparison struct {
	Sheet            SheetSize         `json:"sheet"`
	Attempt          MaxQuantityResult `json:"attempt"`
	SheetArea        float64           `json:"sheet_area"`
	PartsPerUnitArea float64           `json:"parts_per_unit_area"`
}

// SheetReport compares candidate sheet sizes for a single part.
type SheetReport struct {
	Results   []SheetComparison `json:"results"`
	BestSheet string            `json:"best_sheet"`
	Best      SheetComparison   `json:"best"`
}

// CompareSheets runs the max-quantity search on every candidate sheet and
// picks the one fitting the most parts per unit of sheet area. On a tie the
// earlier candidate wins.
func (n *Nester) CompareSheets(ctx context.Context, outline geom.Polygon, sheets []SheetSize, maxAttempts int) (SheetReport, error) {
	if len(sheets) == 0 {
		return SheetReport{}, errors.New("no sheet sizes to compare")
	}

	report := SheetReport{Results: make([]SheetComparison, 0, len(sheets))}
	for _, sheet := range sheets {
		units := sheet.Units
		if units == "" {
			units = "mm"
		}

		attempt, err := n.NestMaxQuantity(ctx, outline, sheet.Width, sheet.Height, maxAttempts, units)
		if err != nil {
			return report, err
		}

		comparison := SheetComparison{
			Sheet:     sheet,
			Attempt:   attempt,
			SheetArea: sheet.Width * sheet.Height,
		}
		if comparison.SheetArea > 0 {
			comparison.PartsPerUnitArea = float64(attempt.ActualQuantity) / comparison.SheetArea
		}
		report.Results = append(report.Results, comparison)

		if report.BestSheet == "" || comparison.PartsPerUnitArea > report.Best.PartsPerUnitArea {
			report.BestSheet = sheet.label()
			report.Best = comparison
		}
	}
	return report, nil
}

// candidateQuantities builds the descending list of quantities to attempt:
// fractions of the estimate first, then small powers of two below it.
func candidateQuantities(estimated, maxAttempts int) []int {
	seen := make(map[int]bool)
	var quantities []int

	for _, factor := range []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5} {
		qty := int(float64(estimated) * factor)
		if qty < 1 {
			qty = 1
		}
		if !seen[qty] {
			seen[qty] = true
			quantities = append(quantities, qty)
		}
	}
	for _, qty := range []int{1, 2, 4, 8, 16, 32} {
		if qty <= estimated && !seen[qty] {
			seen[qty] = true
			quantities = append(quantities, qty)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(quantities)))
	if maxAttempts > 0 && len(quantities) > maxAttempts {
		quantities = quantities[:maxAttempts]
	}
	return quantities
}
