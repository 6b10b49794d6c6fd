package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultErrorWrapping(t *testing.T) {
	err := NewResultError("alice", "c1-final", "fqme@2024", "score", ErrInvalidPerformanceData)

	assert.ErrorIs(t, err, ErrInvalidPerformanceData)
	assert.Contains(t, err.Error(), "alice")
	assert.Contains(t, err.Error(), "stage=score")

	var re *ResultError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, AthleteID("alice"), re.AthleteID)
}

func TestValidationErrorAccumulates(t *testing.T) {
	verr := NewValidationError("ruleset fqme")
	assert.False(t, verr.HasErrors())

	verr.AddError("first problem")
	verr.AddError("second problem")

	assert.True(t, verr.HasErrors())
	assert.ErrorIs(t, verr, ErrInvalidConfiguration)
	assert.Contains(t, verr.Error(), "first problem")
	assert.Contains(t, verr.Error(), "second problem")
}
