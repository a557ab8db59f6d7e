package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
)

func TestFindBottomLeftFirstCell(t *testing.T) {
	container := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	x, y, ok := findBottomLeft(rectOutline(10, 10), nil, container)

	require.True(t, ok)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestFindBottomLeftSkipsOccupiedCells(t *testing.T) {
	container := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	placed := []geom.Rect{{X: 0, Y: 0, Width: 10, Height: 10}}

	x, y, ok := findBottomLeft(rectOutline(10, 10), placed, container)
	require.True(t, ok)

	// The grid step is 20 (the floor dominates a 10x10 part), so the next
	// free cell along the bottom row is x=20.
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 0.0, y)
}

func TestFindBottomLeftPrefersLowerRow(t *testing.T) {
	container := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	// Occupy the first two bottom cells; the third is still lower than any
	// cell in the next row.
	placed := []geom.Rect{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 20, Y: 0, Width: 10, Height: 10},
	}

	x, y, ok := findBottomLeft(rectOutline(10, 10), placed, container)
	require.True(t, ok)
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 0.0, y)
}

func TestFindBottomLeftNoRoom(t *testing.T) {
	container := geom.Rect{X: 0, Y: 0, Width: 50, Height: 50}
	_, _, ok := findBottomLeft(rectOutline(60, 60), nil, container)
	assert.False(t, ok)
}

func TestFindBottomLeftStepRule(t *testing.T) {
	// A 200x120 part: step = max(20, floor(120/4)) = 30. With the first cell
	// blocked, the next candidate x is one step over.
	container := geom.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	placed := []geom.Rect{{X: 0, Y: 0, Width: 10, Height: 1000}}

	x, y, ok := findBottomLeft(rectOutline(200, 120), placed, container)
	require.True(t, ok)
	assert.Equal(t, 30.0, x)
	assert.Equal(t, 0.0, y)
}

func TestFindBottomLeftOffsetContainer(t *testing.T) {
	// Scanning starts at the container's own bottom-left corner.
	container := geom.Rect{X: 50, Y: 40, Width: 100, Height: 100}
	x, y, ok := findBottomLeft(rectOutline(10, 10), nil, container)

	require.True(t, ok)
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 40.0, y)
}
