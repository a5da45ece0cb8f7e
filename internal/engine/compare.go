// Package engine evaluates joint alternatives and runs batches of joints
// through the toolpath generator.
package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// maxFingerSearch bounds the finger count search in MaxFingerCount.
const maxFingerSearch = 200

// commonBits are the tool diameters offered as alternatives, in mm.
var commonBits = []float64{3.175, 6.0, 6.35, 8.0, 12.7}

// ComparisonScenario defines a named set of parameters to compare.
type ComparisonScenario struct {
	Name   string
	Params model.JointParameters
}

// ComparisonResult holds the geometry and program statistics computed
// for a single scenario. Err is set when the scenario cannot be cut; the
// statistics are then zero.
type ComparisonResult struct {
	Scenario ComparisonScenario
	Geometry model.JointGeometry
	Err      error
	Slots    int
	Passes   int
	Stats    gcode.Stats
}

// Fits reports whether the scenario produced a program.
func (r ComparisonResult) Fits() bool { return r.Err == nil }

// CompareScenarios generates the program for each scenario and returns
// the results in scenario order. rapidRate (mm/min) feeds the cycle time
// estimate.
func CompareScenarios(scenarios []ComparisonScenario, rapidRate float64) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res := ComparisonResult{Scenario: scenario}
		prog, geom, err := gcode.Generate(scenario.Params)
		res.Geometry = geom
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		for _, piece := range scenario.Params.PieceSelection.Pieces() {
			res.Slots += geom.SlotCount(piece)
		}
		res.Passes = scenario.Params.PassCount()
		res.Stats = gcode.Analyze(gcode.ParseGCode(prog.String()), rapidRate)
		results = append(results, res)
	}

	return results
}

// MaxFingerCount returns the largest finger count whose slots still fit
// the tool, or 0 when not even two fingers fit.
func MaxFingerCount(boardWidth, fitTolerance, toolDiameter float64) int {
	best := 0
	for n := 2; n <= maxFingerSearch; n++ {
		g, err := model.ComputeGeometry(boardWidth, n, fitTolerance, toolDiameter, "")
		if err != nil || !g.IsToolFit {
			break
		}
		best = n
	}
	return best
}

// BuildDefaultScenarios generates a set of comparison scenarios around
// base: one finger fewer and more, the most fingers the tool allows, and
// the common bit sizes that differ from the current one.
func BuildDefaultScenarios(base model.JointParameters) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Params: base},
	}

	if base.FingerCount > 2 {
		fewer := base
		fewer.FingerCount--
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("%d Fingers", fewer.FingerCount),
			Params: fewer,
		})
	}

	more := base
	more.FingerCount++
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("%d Fingers", more.FingerCount),
		Params: more,
	})

	if limit := MaxFingerCount(base.BoardWidth, base.FitTolerance, base.ToolDiameter); limit > 0 &&
		limit != base.FingerCount && limit != base.FingerCount+1 && limit != base.FingerCount-1 {
		most := base
		most.FingerCount = limit
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Max Fingers (%d)", limit),
			Params: most,
		})
	}

	for _, d := range commonBits {
		if math.Abs(d-base.ToolDiameter) < 0.01 {
			continue
		}
		bit := base
		bit.ToolDiameter = d
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Bit %gmm", d),
			Params: bit,
		})
	}

	return scenarios
}
