package engine

import (
	"testing"

	"github.com/piwi3910/gridstash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultPackSettings()
	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, base, scenarios[0].Settings)
	assert.Equal(t, model.StrategyInsertion, scenarios[1].Settings.Strategy)
	assert.Equal(t, "No Rotation", scenarios[2].Name)
	assert.False(t, scenarios[2].Settings.AllowRotation)

	scenarios = BuildDefaultScenarios(model.PackSettings{Strategy: model.StrategyInsertion})
	assert.Equal(t, model.StrategyLargestFirst, scenarios[1].Settings.Strategy)
	assert.Equal(t, "With Rotation", scenarios[2].Name)
}

func TestCompareScenarios(t *testing.T) {
	descs := []model.ItemDescriptor{
		{Name: "s1", Width: 1, Height: 1},
		{Name: "s2", Width: 1, Height: 1},
		{Name: "s3", Width: 1, Height: 1},
		{Name: "big", Width: 2, Height: 2},
	}
	scenarios := []ComparisonScenario{
		{Name: "insertion", Settings: model.PackSettings{Strategy: model.StrategyInsertion}},
		{Name: "largest", Settings: model.PackSettings{Strategy: model.StrategyLargestFirst}},
	}

	results, err := CompareScenarios(3, 2, descs, scenarios)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.InDelta(t, 50.0, results[0].FillPercent, 1e-9)
	assert.InDelta(t, 100.0, results[1].FillPercent, 1e-9)
	assert.Equal(t, 1, results[0].UnplacedCount)
	assert.Equal(t, 1, Best(results))
	for _, r := range results {
		require.NoError(t, r.Grid.CheckInvariants())
	}
}

func TestCompareScenarios_Errors(t *testing.T) {
	_, err := CompareScenarios(0, 2, nil, []ComparisonScenario{{Name: "x"}})
	assert.Error(t, err)

	_, err = CompareScenarios(2, 2, []model.ItemDescriptor{{Name: "bad"}}, []ComparisonScenario{{Name: "x"}})
	assert.Error(t, err)
}

func TestBest_Empty(t *testing.T) {
	assert.Equal(t, -1, Best(nil))
}
