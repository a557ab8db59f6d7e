package nest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

func rectOutline(w, h float64) geom.Polygon {
	return geom.Polygon{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
	}
}

func TestNestRequiresPartsAndContainer(t *testing.T) {
	n := New()
	_, err := n.Nest(context.Background())
	require.Error(t, err)

	n.SetParts([]model.Part{model.NewPart("A", rectOutline(10, 10), 1)})
	_, err = n.Nest(context.Background())
	require.Error(t, err, "container still missing")
}

func TestNestEnrichesResult(t *testing.T) {
	n := New()
	n.Config.PopulationSize = 4
	n.Config.MaxGenerations = 5
	n.Config.RotationCount = 1

	n.SetParts([]model.Part{model.NewPart("A", rectOutline(10, 10), 2)})
	n.SetContainer(model.NewContainerSheet(100, 100, "mm"))

	result, err := n.Nest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalInstances)
	assert.Equal(t, 2, result.PlacedInstances)
	// Two 10x10 parts on a 100x100 sheet: 200 / 10000 = 2%.
	assert.InDelta(t, 2.0, result.Utilization, 1e-9)
	assert.Contains(t, result.Message, "2 out of 2")
}

func TestNestInvalidConfig(t *testing.T) {
	n := New()
	n.Config.PopulationSize = 0
	n.SetParts([]model.Part{model.NewPart("A", rectOutline(10, 10), 1)})
	n.SetContainer(model.NewContainerSheet(100, 100, "mm"))

	_, err := n.Nest(context.Background())
	require.Error(t, err, "config violations fail fast")
}

func TestEstimateMaxQuantity(t *testing.T) {
	// 10x10 part on a 100x100 sheet tiles 10x10 = 100 copies.
	got := EstimateMaxQuantity(rectOutline(10, 10), 100, 100, 0, nil)
	assert.Equal(t, 100, got)

	// With 10mm spacing each tile is 20x20: 5x5 = 25 copies.
	got = EstimateMaxQuantity(rectOutline(10, 10), 100, 100, 10, nil)
	assert.Equal(t, 25, got)

	// Oversized part never fits.
	got = EstimateMaxQuantity(rectOutline(200, 200), 100, 100, 0, nil)
	assert.Equal(t, 0, got)
}

func TestEstimateMaxQuantityUsesBestRotation(t *testing.T) {
	// A 40x10 part on a 40x100 sheet: unrotated 1x10=10; rotated 90 degrees
	// the bbox is 10x40, tiling 4x2=8. The unrotated orientation wins.
	got := EstimateMaxQuantity(rectOutline(40, 10), 40, 100, 0, nil)
	assert.Equal(t, 10, got)
}

func TestCandidateQuantitiesDescendingAndCapped(t *testing.T) {
	quantities := candidateQuantities(100, 3)
	require.Len(t, quantities, 3)
	assert.Equal(t, 100, quantities[0])
	for i := 1; i < len(quantities); i++ {
		assert.Less(t, quantities[i], quantities[i-1])
	}
}

func TestNestMaxQuantityKeepsBestAttempt(t *testing.T) {
	n := New()
	n.Config.PopulationSize = 4
	n.Config.MaxGenerations = 3
	n.Config.RotationCount = 1

	// The coarse 20-unit grid caps placements below the bbox estimate, so
	// the search keeps the attempt that placed the most copies.
	out, err := n.NestMaxQuantity(context.Background(), rectOutline(20, 20), 100, 100, 3, "mm")
	require.NoError(t, err)

	assert.Equal(t, 25, out.EstimatedMax)
	assert.Greater(t, out.ActualQuantity, 0)
	assert.Equal(t, len(out.Result.Placements), out.ActualQuantity)
	assert.LessOrEqual(t, out.ActualQuantity, out.EstimatedMax)
}

func TestNestMaxQuantityOversizedPart(t *testing.T) {
	n := New()
	out, err := n.NestMaxQuantity(context.Background(), rectOutline(500, 500), 100, 100, 3, "mm")
	require.NoError(t, err)
	assert.Equal(t, 0, out.EstimatedMax)
	assert.Equal(t, 0, out.ActualQuantity)
}

func TestCompareSheetsPicksDensestSheet(t *testing.T) {
	n := New()
	n.Config.PopulationSize = 4
	n.Config.MaxGenerations = 2
	n.Config.RotationCount = 1

	// The coarse placement grid fits exactly one 10x10 part on either sheet,
	// so the smaller sheet wins on parts per unit area.
	sheets := []SheetSize{
		{Width: 20, Height: 20},
		{Name: "Wide", Width: 30, Height: 30},
	}

	report, err := n.CompareSheets(context.Background(), rectOutline(10, 10), sheets, 3)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.Equal(t, "20x20", report.BestSheet)
	assert.Equal(t, 1, report.Best.Attempt.ActualQuantity)
	assert.InDelta(t, 1.0/400, report.Best.PartsPerUnitArea, 1e-12)
	assert.InDelta(t, 400, report.Best.SheetArea, 1e-9)

	assert.Equal(t, "Wide", report.Results[1].Sheet.Name)
	assert.InDelta(t, 1.0/900, report.Results[1].PartsPerUnitArea, 1e-12)
}

func TestCompareSheetsOversizedSheetsScoreZero(t *testing.T) {
	n := New()
	n.Config.PopulationSize = 4
	n.Config.MaxGenerations = 2
	n.Config.RotationCount = 1

	sheets := []SheetSize{
		{Width: 5, Height: 5},
		{Width: 20, Height: 20},
	}

	report, err := n.CompareSheets(context.Background(), rectOutline(10, 10), sheets, 2)
	require.NoError(t, err)

	assert.Zero(t, report.Results[0].Attempt.ActualQuantity, "part cannot fit a 5x5 sheet")
	assert.Equal(t, "20x20", report.BestSheet)
}

func TestCompareSheetsNoCandidates(t *testing.T) {
	n := New()
	_, err := n.CompareSheets(context.Background(), rectOutline(10, 10), nil, 2)
	require.Error(t, err)
}
