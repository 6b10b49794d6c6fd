package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

func TestDefaultCalculatorRegistry(t *testing.T) {
	registry, err := NewDefaultCalculatorRegistry()
	require.NoError(t, err)

	for _, d := range []domain.Discipline{
		domain.DisciplineLead,
		domain.DisciplineBoulder,
		domain.DisciplineSpeed,
	} {
		calc, err := registry.CalculatorFor(d)
		require.NoError(t, err, "discipline %s", d)
		assert.Equal(t, d, calc.Discipline())
	}
}

func TestCalculatorForUnknownDiscipline(t *testing.T) {
	registry, err := NewDefaultCalculatorRegistry()
	require.NoError(t, err)

	_, err = registry.CalculatorFor("parkour")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrCalculatorNotRegistered)
}

func TestRegisterRejectsNil(t *testing.T) {
	registry, err := NewDefaultCalculatorRegistry()
	require.NoError(t, err)

	assert.Error(t, registry.Register(nil))
}

// staticCalculator returns a fixed score for every result.
type staticCalculator struct {
	discipline domain.Discipline
	value      float64
}

func (c *staticCalculator) Name() string                  { return "static" }
func (c *staticCalculator) Discipline() domain.Discipline { return c.discipline }
func (c *staticCalculator) Validate() error               { return nil }

func (c *staticCalculator) ComputeScore(_ context.Context, raw domain.RawResult, _ *domain.Ruleset) (domain.Score, error) {
	return domain.Score{AthleteID: raw.AthleteID, Discipline: c.discipline, Value: c.value}, nil
}

func TestRegisterReplacesCalculator(t *testing.T) {
	registry, err := NewDefaultCalculatorRegistry()
	require.NoError(t, err)

	custom := &staticCalculator{discipline: domain.DisciplineLead, value: 42}
	require.NoError(t, registry.Register(custom))

	calc, err := registry.CalculatorFor(domain.DisciplineLead)
	require.NoError(t, err)
	assert.Same(t, custom, calc)
}

func TestRegisterRejectsInvalidDiscipline(t *testing.T) {
	registry, err := NewDefaultCalculatorRegistry()
	require.NoError(t, err)

	err = registry.Register(&staticCalculator{discipline: "parkour"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrCalculatorNotRegistered)
}
