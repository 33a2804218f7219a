package engine

import (
	"fmt"

	"github.com/piwi3910/gridstash/internal/grid"
	"github.com/piwi3910/gridstash/internal/model"
)

// ComparisonScenario defines a named set of pack settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the pack result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Grid          *grid.Grid
	Result        Result
	FillPercent   float64
	UnplacedCount int
}

// CompareScenarios packs the same descriptors into a fresh width x height
// grid per scenario, so different strategies can be compared side by side.
func CompareScenarios(width, height int, descs []model.ItemDescriptor, scenarios []ComparisonScenario) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		g, err := grid.New(width, height)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		res, errs := New(scenario.Settings).PackDescriptors(g, descs)
		if len(errs) > 0 {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, errs[0])
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Grid:          g,
			Result:        res,
			FillPercent:   g.FillRatio() * 100,
			UnplacedCount: len(res.Unplaced),
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates what-if alternatives around the base
// settings: the other strategy, and the base with rotation toggled.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	alt := base
	if base.Strategy == model.StrategyLargestFirst {
		alt.Strategy = model.StrategyInsertion
	} else {
		alt.Strategy = model.StrategyLargestFirst
	}
	scenarios = append(scenarios, ComparisonScenario{Name: alt.Strategy.String(), Settings: alt})

	rot := base
	rot.AllowRotation = !base.AllowRotation
	name := "No Rotation"
	if rot.AllowRotation {
		name = "With Rotation"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: rot})

	return scenarios
}

// Best returns the index of the result with the fewest unplaced items,
// breaking ties by higher fill. It returns -1 for no results.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 ||
			r.UnplacedCount < results[best].UnplacedCount ||
			(r.UnplacedCount == results[best].UnplacedCount && r.FillPercent > results[best].FillPercent) {
			best = i
		}
	}
	return best
}
