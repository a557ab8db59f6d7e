package engine

import "fmt"

// Config holds the genetic solver parameters. A Config is validated once at
// solver construction and never mutated afterwards.
type Config struct {
	// PopulationSize is the number of individuals per generation.
	PopulationSize int `json:"population_size"`
	// MutationRate is the swap-mutation probability in whole percent (0-100).
	MutationRate int `json:"mutation_rate"`
	// RotationCount is the number of equally spaced rotation variants over
	// 360 degrees precomputed per part.
	RotationCount int `json:"rotation_count"`
	// Spacing is the requested gap between parts. It is carried through the
	// configuration surface but not applied in the bounding-box placement
	// math.
	Spacing float64 `json:"spacing"`
	// MaxGenerations bounds the evolution loop.
	MaxGenerations int `json:"max_generations"`
}

// patience is the number of consecutive generations without improvement
// before the search stops early.
const patience = 10

// DefaultConfig returns the default solver parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 10,
		MutationRate:   10,
		RotationCount:  4,
		Spacing:        0,
		MaxGenerations: 50,
	}
}

// Validate reports the first configuration violation, if any.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.MutationRate < 0 || c.MutationRate > 100 {
		return fmt.Errorf("mutation rate must be between 0 and 100 percent, got %d", c.MutationRate)
	}
	if c.RotationCount < 1 {
		return fmt.Errorf("rotation count must be at least 1, got %d", c.RotationCount)
	}
	if c.MaxGenerations < 1 {
		return fmt.Errorf("max generations must be at least 1, got %d", c.MaxGenerations)
	}
	return nil
}
