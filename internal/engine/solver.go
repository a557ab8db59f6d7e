// Package engine implements the genetic placement search: candidate part
// orderings and rotations are evolved across generations, each candidate
// evaluated with a bottom-left greedy placer.
package engine

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// gene is one atomic placement decision: which part instance to place and
// which precomputed rotation variant to use. Gene order within an individual
// is the greedy placement attempt order.
type gene struct {
	part     int // index into the prepared parts slice
	rotation int // index into that part's rotation variants
}

// individual is one candidate solution.
type individual struct {
	genes      []gene
	fitness    float64
	placements []model.Placement
}

// rotationVariant is a part outline rotated about the origin.
type rotationVariant struct {
	angle   float64
	polygon geom.Polygon
}

// preparedPart pairs a part instance with its precomputed rotation variants.
type preparedPart struct {
	instance model.PartInstance
	variants []rotationVariant
}

// Solver evolves part placements inside a container. All randomness flows
// from the seeded source injected at construction, so runs are reproducible.
// A Solver must not be shared across concurrent Solve calls.
type Solver struct {
	config Config
	rng    *rand.Rand
}

// NewSolver validates the configuration and returns a solver whose random
// source is seeded with seed.
func NewSolver(config Config, seed int64) (*Solver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Config returns the solver's immutable configuration.
func (s *Solver) Config() Config {
	return s.config
}

// Solve searches for a placement of the part instances inside the container
// outline. Empty input yields the +Inf/empty sentinel rather than an error.
// Cancellation is checked once per generation boundary; on cancellation the
// best solution found so far is returned.
func (s *Solver) Solve(ctx context.Context, parts []model.PartInstance, container geom.Polygon) model.NestResult {
	if len(parts) == 0 || len(container) == 0 {
		return sentinelResult()
	}

	prepared := s.prepareParts(parts)
	containerBounds := geom.Bounds(container)
	population := s.initPopulation(prepared)

	bestFitness := math.Inf(1)
	var bestPlacements []model.Placement
	stagnation := 0

	for gen := 0; gen < s.config.MaxGenerations; gen++ {
		select {
		case <-ctx.Done():
			return resultFrom(bestFitness, bestPlacements)
		default:
		}

		s.evaluatePopulation(population, prepared, containerBounds)

		generationBest := math.Inf(1)
		generationBestIdx := -1
		for i := range population {
			if population[i].fitness < generationBest {
				generationBest = population[i].fitness
				generationBestIdx = i
			}
		}

		if generationBest < bestFitness {
			bestFitness = generationBest
			bestPlacements = clonePlacements(population[generationBestIdx].placements)
			stagnation = 0
		} else {
			stagnation++
			if stagnation >= patience {
				break
			}
		}

		population = s.nextGeneration(population)
	}

	return resultFrom(bestFitness, bestPlacements)
}

// prepareParts precomputes the rotation variants for every part instance.
func (s *Solver) prepareParts(parts []model.PartInstance) []preparedPart {
	prepared := make([]preparedPart, len(parts))
	for i, part := range parts {
		variants := make([]rotationVariant, s.config.RotationCount)
		for r := range variants {
			angle := (360.0 / float64(s.config.RotationCount)) * float64(r)
			variants[r] = rotationVariant{
				angle:   angle,
				polygon: geom.Rotate(part.Outline, angle),
			}
		}
		prepared[i] = preparedPart{instance: part, variants: variants}
	}
	return prepared
}

// initPopulation builds the initial random population: one gene per part
// with a uniformly random rotation variant, gene order shuffled per
// individual.
func (s *Solver) initPopulation(prepared []preparedPart) []individual {
	population := make([]individual, s.config.PopulationSize)
	for i := range population {
		genes := make([]gene, len(prepared))
		for j := range prepared {
			genes[j] = gene{
				part:     j,
				rotation: s.rng.Intn(len(prepared[j].variants)),
			}
		}
		s.rng.Shuffle(len(genes), func(a, b int) {
			genes[a], genes[b] = genes[b], genes[a]
		})
		population[i] = individual{genes: genes, fitness: math.Inf(1)}
	}
	return population
}

// evaluatePopulation computes fitness and placements for every individual.
// Evaluations are pure functions of immutable data, so they fan out over a
// worker pool; each worker writes only its own individuals, and the caller
// merges deterministically by sorting on fitness afterwards.
func (s *Solver) evaluatePopulation(population []individual, prepared []preparedPart, container geom.Rect) {
	workers := runtime.NumCPU()
	if workers > len(population) {
		workers = len(population)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				population[i].fitness, population[i].placements =
					evaluate(population[i].genes, prepared, container)
			}
		}()
	}
	for i := range population {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// evaluate greedily places the individual's genes in order against the parts
// already placed within the same individual. Genes without a feasible slot
// are dropped silently. Fitness is the area of the bounding box enclosing
// all placed polygons; no placements means +Inf.
func evaluate(genes []gene, prepared []preparedPart, container geom.Rect) (float64, []model.Placement) {
	var placements []model.Placement
	var placedBounds []geom.Rect

	for _, g := range genes {
		part := prepared[g.part]
		variant := part.variants[g.rotation]

		x, y, ok := findBottomLeft(variant.polygon, placedBounds, container)
		if !ok {
			continue
		}

		translated := geom.Translate(variant.polygon, x, y)
		placements = append(placements, model.Placement{
			InstanceID:    part.instance.InstanceID,
			PartID:        part.instance.PartID,
			OriginalIndex: part.instance.OriginalIndex,
			CopyNumber:    part.instance.CopyNumber,
			X:             x,
			Y:             y,
			RotationDeg:   variant.angle,
			Polygon:       translated,
		})
		placedBounds = append(placedBounds, geom.Bounds(translated))
	}

	if len(placements) == 0 {
		return math.Inf(1), nil
	}

	enclosing := placedBounds[0]
	for _, b := range placedBounds[1:] {
		enclosing = union(enclosing, b)
	}
	return enclosing.Area(), placements
}

// nextGeneration sorts ascending by fitness, keeps the best half unchanged,
// and refills the rest with mutated crossover children of parents sampled
// (with replacement) from the current top 5.
func (s *Solver) nextGeneration(population []individual) []individual {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness < population[j].fitness
	})

	next := make([]individual, 0, s.config.PopulationSize)
	next = append(next, population[:s.config.PopulationSize/2]...)

	parentPool := len(population)
	if parentPool > 5 {
		parentPool = 5
	}

	for len(next) < s.config.PopulationSize {
		parent1 := population[s.rng.Intn(parentPool)]
		parent2 := population[s.rng.Intn(parentPool)]
		child := s.crossover(parent1, parent2)
		s.mutate(&child)
		next = append(next, child)
	}
	return next
}

// crossover recombines two parents at a single random cut: the child takes
// parent1's genes before the cut and parent2's from the cut onward. The raw
// concatenation is kept deliberately -- the child always has the parents'
// gene count but its part ids need not form a permutation.
func (s *Solver) crossover(parent1, parent2 individual) individual {
	size := len(parent1.genes)
	if size < 2 {
		genes := make([]gene, size)
		copy(genes, parent1.genes)
		return individual{genes: genes, fitness: math.Inf(1)}
	}

	cut := 1 + s.rng.Intn(size-1)
	genes := make([]gene, 0, size)
	genes = append(genes, parent1.genes[:cut]...)
	genes = append(genes, parent2.genes[cut:]...)
	return individual{genes: genes, fitness: math.Inf(1)}
}

// mutate swaps two distinct gene positions with probability MutationRate/100.
func (s *Solver) mutate(ind *individual) {
	if s.rng.Intn(100)+1 > s.config.MutationRate {
		return
	}
	n := len(ind.genes)
	if n < 2 {
		return
	}
	i := s.rng.Intn(n)
	j := s.rng.Intn(n - 1)
	if j >= i {
		j++
	}
	ind.genes[i], ind.genes[j] = ind.genes[j], ind.genes[i]
}

func union(a, b geom.Rect) geom.Rect {
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.Right(), b.Right())
	maxY := math.Max(a.Top(), b.Top())
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func clonePlacements(placements []model.Placement) []model.Placement {
	out := make([]model.Placement, len(placements))
	copy(out, placements)
	return out
}

func sentinelResult() model.NestResult {
	return model.NestResult{
		Fitness:    math.Inf(1),
		Placements: []model.Placement{},
	}
}

func resultFrom(fitness float64, placements []model.Placement) model.NestResult {
	if len(placements) == 0 {
		return sentinelResult()
	}
	return model.NestResult{
		Fitness:         fitness,
		Placements:      placements,
		PlacedInstances: len(placements),
	}
}
