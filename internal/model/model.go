// Package model defines the data types shared across the nesting pipeline:
// parts and their expanded instances, the container sheet, and placement
// results.
package model

import (
	"math"

	"github.com/google/uuid"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
)

// Part represents one part type to nest, with a requested quantity.
type Part struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Quantity int          `json:"quantity"`
	Outline  geom.Polygon `json:"outline"`
}

// NewPart creates a part with a generated short ID.
func NewPart(label string, outline geom.Polygon, qty int) Part {
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Quantity: qty,
		Outline:  outline,
	}
}

// Area returns the absolute outline area.
func (p Part) Area() float64 {
	return math.Abs(geom.SignedArea(p.Outline))
}

// Bounds returns the outline's axis-aligned bounding box.
func (p Part) Bounds() geom.Rect {
	return geom.Bounds(p.Outline)
}

// PartInstance is a single copy of a part, created when a requested quantity
// is expanded. Instances are immutable once created; the InstanceID is dense
// across the whole expansion and doubles as the placement attempt identity.
type PartInstance struct {
	InstanceID    int          `json:"instance_id"`
	PartID        string       `json:"part_id"`
	OriginalIndex int          `json:"original_index"`
	CopyNumber    int          `json:"copy_number"`
	Outline       geom.Polygon `json:"outline"`
}

// ExpandParts expands each part's quantity into individual instances.
// Quantities below 1 are treated as 1.
func ExpandParts(parts []Part) []PartInstance {
	var instances []PartInstance
	for i, part := range parts {
		qty := part.Quantity
		if qty < 1 {
			qty = 1
		}
		for copyNum := 0; copyNum < qty; copyNum++ {
			instances = append(instances, PartInstance{
				InstanceID:    len(instances),
				PartID:        part.ID,
				OriginalIndex: i,
				CopyNumber:    copyNum,
				Outline:       part.Outline,
			})
		}
	}
	return instances
}

// Container is the single bounding region parts are placed into.
type Container struct {
	Label   string       `json:"label"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Units   string       `json:"units"`
	Outline geom.Polygon `json:"outline"`
}

// NewContainerSheet builds a rectangular container anchored at the origin.
func NewContainerSheet(width, height float64, units string) Container {
	return Container{
		Label:  "Sheet",
		Width:  width,
		Height: height,
		Units:  units,
		Outline: geom.Polygon{
			{X: 0, Y: 0},
			{X: width, Y: 0},
			{X: width, Y: height},
			{X: 0, Y: height},
		},
	}
}

// Area returns the absolute container area.
func (c Container) Area() float64 {
	return math.Abs(geom.SignedArea(c.Outline))
}

// Placement records where one part instance ended up. Polygon is the
// instance outline after rotation and translation.
type Placement struct {
	InstanceID    int          `json:"instance_id"`
	PartID        string       `json:"part_id"`
	OriginalIndex int          `json:"original_index"`
	CopyNumber    int          `json:"copy_number"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	RotationDeg   float64      `json:"rotation_degrees"`
	Polygon       geom.Polygon `json:"polygon"`
}

// NestResult holds the best solution found by the placement search.
// A Fitness of +Inf with no placements means nothing could be placed.
type NestResult struct {
	Fitness         float64     `json:"fitness"`
	Placements      []Placement `json:"placements"`
	Utilization     float64     `json:"utilization"`
	TotalInstances  int         `json:"total_instances"`
	PlacedInstances int         `json:"placed_instances"`
	Message         string      `json:"message,omitempty"`
}

// Placed reports whether at least one instance was placed.
func (r NestResult) Placed() bool {
	return len(r.Placements) > 0 && !math.IsInf(r.Fitness, 1)
}

// PlacedArea returns the total absolute area of all placed polygons.
func (r NestResult) PlacedArea() float64 {
	var total float64
	for _, p := range r.Placements {
		total += math.Abs(geom.SignedArea(p.Polygon))
	}
	return total
}
