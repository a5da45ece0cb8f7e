package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitsRoundTrip(t *testing.T) {
	p := DefaultParameters()
	d := UnitsImperial.ToDisplay(p)

	assert.InDelta(t, 0.748, d.BoardThickness, 1e-3)
	assert.InDelta(t, 0.25, d.ToolDiameter, 1e-9)
	assert.InDelta(t, 39.37, d.FeedRate, 1e-2)
	assert.Equal(t, p.FingerCount, d.FingerCount)
	assert.Equal(t, p.SpindleSpeed, d.SpindleSpeed)
	assert.Equal(t, p.SpindleStartDelay, d.SpindleStartDelay)

	back := UnitsImperial.ToCanonical(d)
	assert.InDelta(t, p.BoardWidth, back.BoardWidth, 1e-9)
	assert.InDelta(t, p.FitTolerance, back.FitTolerance, 1e-12)

	assert.Equal(t, p, UnitsMetric.ToDisplay(p))
}

func TestUnitLabels(t *testing.T) {
	assert.Equal(t, "mm", UnitsMetric.DistanceLabel())
	assert.Equal(t, "in/min", UnitsImperial.FeedLabel())
	assert.Equal(t, 25.4, UnitsImperial.ToMM(1))
	assert.Equal(t, 1.0, UnitsMetric.FromMM(1))
}

func TestFieldRuleCheck(t *testing.T) {
	r, ok := UnitsMetric.Rule("board_thickness")
	assert.True(t, ok)
	assert.Nil(t, r.Check(19))
	fe := r.Check(2)
	if assert.NotNil(t, fe) {
		assert.Equal(t, "Board Thickness must be between 3 and 100", fe.Message)
		assert.Equal(t, "board_thickness", fe.Field)
	}

	fc, _ := UnitsImperial.Rule("finger_count")
	fe = fc.Check(4.5)
	if assert.NotNil(t, fe) {
		assert.Equal(t, "Finger Count must be a whole number", fe.Error())
	}

	_, ok = UnitsMetric.Rule("nope")
	assert.False(t, ok)
}

func TestValidateDisplay(t *testing.T) {
	assert.Empty(t, UnitsMetric.ValidateDisplay(DefaultParameters()))

	d := UnitsImperial.ToDisplay(DefaultParameters())
	assert.Empty(t, UnitsImperial.ValidateDisplay(d))

	// Metric values read as inches are far out of range.
	errs := UnitsImperial.ValidateDisplay(DefaultParameters())
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Contains(t, fields, "board_thickness")
	assert.Contains(t, fields, "board_width")
	assert.Contains(t, fields, "feed_rate")
	assert.NotContains(t, fields, "finger_count")
}
