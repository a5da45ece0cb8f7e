package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxJoints/internal/model"
)

func formText(p model.JointParameters) map[string]string {
	text := map[string]string{}
	for _, f := range formFields {
		text[f.key] = fieldText(p, f.key)
	}
	return text
}

func TestParseForm_RoundTrip(t *testing.T) {
	p := model.DefaultParameters()
	p.PieceSelection = model.SelectBoth
	p.Orientation = model.OrientationY
	p.MistCoolant = true

	v := formValues{text: formText(p), piece: "Both", orientation: "Along Y", mist: true}
	got, errs := parseForm(v, model.JointParameters{})
	require.Empty(t, errs)
	assert.Equal(t, p, got)
}

func TestParseForm_Errors(t *testing.T) {
	base := model.DefaultParameters()
	text := formText(base)
	text["board_width"] = "wide"
	text["finger_count"] = "4.5"
	text["spindle_start_delay"] = "-1"

	got, errs := parseForm(formValues{text: text, piece: "Piece A", orientation: "Along X"}, base)
	require.Len(t, errs, 3)
	assert.Equal(t, "Board Width must be a number", errs[0].Message)
	assert.Equal(t, "finger_count", errs[1].Field)
	assert.Contains(t, errs[1].Message, "whole number")
	assert.Contains(t, errs[2].Message, "must not be negative")

	// Fields that failed keep the base value.
	assert.Equal(t, base.BoardWidth, got.BoardWidth)
	assert.Equal(t, base.FingerCount, got.FingerCount)
}

func TestParseForm_TrimsSpace(t *testing.T) {
	base := model.DefaultParameters()
	text := formText(base)
	text["board_thickness"] = " 12.5 "

	got, errs := parseForm(formValues{text: text, piece: "Piece B", orientation: "Along X"}, base)
	require.Empty(t, errs)
	assert.Equal(t, 12.5, got.BoardThickness)
	assert.Equal(t, model.SelectB, got.PieceSelection)
}

func TestFieldText_Imperial(t *testing.T) {
	d := model.UnitsImperial.ToDisplay(model.DefaultParameters())
	assert.Equal(t, "0.25", fieldText(d, "tool_diameter"))
	assert.Equal(t, "4", fieldText(d, "finger_count"))
	assert.Equal(t, "18000", fieldText(d, "spindle_speed"))
	assert.Equal(t, "", fieldText(d, "unknown"))
}

func TestFormFieldCaption(t *testing.T) {
	byKey := map[string]formField{}
	for _, f := range formFields {
		byKey[f.key] = f
	}
	assert.Equal(t, "Board Width (in)", byKey["board_width"].caption(model.UnitsImperial))
	assert.Equal(t, "Finger Count", byKey["finger_count"].caption(model.UnitsMetric))
	assert.Equal(t, "Spindle Delay (s)", byKey["spindle_start_delay"].caption(model.UnitsMetric))
}

func TestGeometryMessage(t *testing.T) {
	msg, fits := geometryMessage(model.DefaultParameters(), model.UnitsMetric)
	assert.True(t, fits)
	assert.Contains(t, msg, "Finger 14.243")
	assert.Contains(t, msg, "7 passes")

	tight := model.DefaultParameters()
	tight.ToolDiameter = 20
	msg, fits = geometryMessage(tight, model.UnitsMetric)
	assert.False(t, fits)
	assert.Contains(t, msg, "at most 3 fingers")

	huge := model.DefaultParameters()
	huge.ToolDiameter = 60
	msg, fits = geometryMessage(huge, model.UnitsMetric)
	assert.False(t, fits)
	assert.Contains(t, msg, "Use a smaller bit.")
}

func TestToCanonical_ImperialKeepsUntouchedFields(t *testing.T) {
	current := model.DefaultParameters()
	shown := model.UnitsImperial.ToDisplay(current)
	text := formText(shown)
	text["finger_count"] = "5"

	display, errs := parseForm(formValues{text: text, piece: "Piece A", orientation: "Along X"}, shown)
	require.Empty(t, errs)
	got := toCanonical(display, text, current, model.UnitsImperial)

	want := current
	want.FingerCount = 5
	assert.Equal(t, want, got)
}

func TestToCanonical_ConvertsEditedField(t *testing.T) {
	current := model.DefaultParameters()
	shown := model.UnitsImperial.ToDisplay(current)
	text := formText(shown)
	text["board_width"] = "4"

	display, errs := parseForm(formValues{text: text, piece: "Piece A", orientation: "Along X"}, shown)
	require.Empty(t, errs)
	got := toCanonical(display, text, current, model.UnitsImperial)

	assert.InDelta(t, 101.6, got.BoardWidth, 1e-9)
	assert.Equal(t, current.FitTolerance, got.FitTolerance)
	assert.Equal(t, current.BoardThickness, got.BoardThickness)
}

func TestGeometryMessage_SuggestionWithinFormRange(t *testing.T) {
	p := model.DefaultParameters()
	p.BoardWidth = 1200
	p.ToolDiameter = 25
	p.FingerCount = 60

	msg, fits := geometryMessage(p, model.UnitsMetric)
	assert.False(t, fits)
	assert.Contains(t, msg, "at most 20 fingers")
}
