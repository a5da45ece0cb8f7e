package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxJoints/internal/model"
)

func TestMaxFingerCount(t *testing.T) {
	n := MaxFingerCount(100, 0.1, 6.35)
	require.Greater(t, n, 2)

	fits, err := model.ComputeGeometry(100, n, 0.1, 6.35, "")
	require.NoError(t, err)
	assert.True(t, fits.IsToolFit)

	tooMany, err := model.ComputeGeometry(100, n+1, 0.1, 6.35, "")
	require.NoError(t, err)
	assert.False(t, tooMany.IsToolFit)

	assert.Zero(t, MaxFingerCount(10, 0.1, 6.35), "a 10mm board cannot take two 6.35mm slots")
}

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultParameters()
	scenarios := BuildDefaultScenarios(base)

	require.NotEmpty(t, scenarios)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, base, scenarios[0].Params)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
		assert.NoError(t, s.Params.Validate(), s.Name)
	}
	assert.Contains(t, names, "3 Fingers")
	assert.Contains(t, names, "5 Fingers")
	assert.Contains(t, names, "Bit 12.7mm")
	assert.NotContains(t, names, "Bit 6.35mm", "the current bit is not an alternative")
}

func TestBuildDefaultScenarios_MinimumFingers(t *testing.T) {
	base := model.DefaultParameters()
	base.FingerCount = 2
	for _, s := range BuildDefaultScenarios(base) {
		assert.GreaterOrEqual(t, s.Params.FingerCount, 2, s.Name)
	}
}

func TestCompareScenarios(t *testing.T) {
	base := model.DefaultParameters()
	tooMany := base
	tooMany.FingerCount = 20
	both := base
	both.PieceSelection = model.SelectBoth

	results := CompareScenarios([]ComparisonScenario{
		{Name: "base", Params: base},
		{Name: "too many", Params: tooMany},
		{Name: "both", Params: both},
	}, 5000)
	require.Len(t, results, 3)

	r := results[0]
	assert.True(t, r.Fits())
	assert.Equal(t, 3, r.Slots)
	assert.Equal(t, 7, r.Passes)
	assert.Equal(t, 3*7, r.Stats.Plunges)
	assert.Positive(t, r.Stats.Time)

	assert.False(t, results[1].Fits())
	assert.True(t, errors.Is(results[1].Err, model.ErrToolTooLarge))
	assert.False(t, results[1].Geometry.IsToolFit)
	assert.Zero(t, results[1].Stats.Moves)

	assert.Equal(t, 7, results[2].Slots)
	assert.Greater(t, results[2].Stats.Time, r.Stats.Time)
}
