package application

import (
	"fmt"
	"sync"

	"github.com/monsieurgui/climbinsight/infrastructure/calculators"
	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.CalculatorRegistry = (*DefaultCalculatorRegistry)(nil)

// DefaultCalculatorRegistry implements the CalculatorRegistry
// interface, resolving the score calculator for each discipline. It
// comes with the built-in lead, boulder, and speed calculators
// pre-registered under their default configurations.
type DefaultCalculatorRegistry struct {
	// calculators maps disciplines to their calculators.
	calculators map[domain.Discipline]ports.ScoreCalculator
	// mu protects concurrent access to the calculators map.
	mu sync.RWMutex
}

// NewDefaultCalculatorRegistry creates a registry with the standard
// discipline calculators pre-registered.
func NewDefaultCalculatorRegistry() (*DefaultCalculatorRegistry, error) {
	registry := &DefaultCalculatorRegistry{
		calculators: make(map[domain.Discipline]ports.ScoreCalculator),
	}

	lead, err := calculators.NewLeadCalculator("lead", calculators.DefaultLeadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create lead calculator: %w", err)
	}
	boulder, err := calculators.NewBoulderCalculator("boulder", calculators.DefaultBoulderConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create boulder calculator: %w", err)
	}
	speed, err := calculators.NewSpeedCalculator("speed", calculators.DefaultSpeedConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create speed calculator: %w", err)
	}

	for _, c := range []ports.ScoreCalculator{lead, boulder, speed} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// CalculatorFor returns the calculator registered for d.
func (r *DefaultCalculatorRegistry) CalculatorFor(d domain.Discipline) (ports.ScoreCalculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.calculators[d]
	if !ok {
		return nil, ports.NewRegistryError("calculator", string(d), ports.ErrCalculatorNotRegistered)
	}
	return c, nil
}

// Register adds or replaces the calculator for its discipline after
// validating it.
func (r *DefaultCalculatorRegistry) Register(c ports.ScoreCalculator) error {
	if c == nil {
		return fmt.Errorf("calculator cannot be nil")
	}
	if !c.Discipline().Valid() {
		return ports.NewRegistryError("calculator", string(c.Discipline()), ports.ErrCalculatorNotRegistered)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("calculator %q failed validation: %w", c.Name(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calculators[c.Discipline()] = c
	return nil
}
