package model

import "fmt"

// Units is the user's display unit preference. The core always works in mm.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// MMPerInch converts display inches to canonical millimetres.
const MMPerInch = 25.4

func (u Units) IsImperial() bool { return u == UnitsImperial }

// DistanceLabel is the unit suffix shown next to length fields.
func (u Units) DistanceLabel() string {
	if u.IsImperial() {
		return "in"
	}
	return "mm"
}

// FeedLabel is the unit suffix shown next to the feed rate field.
func (u Units) FeedLabel() string {
	if u.IsImperial() {
		return "in/min"
	}
	return "mm/min"
}

// ToMM converts a display length to mm.
func (u Units) ToMM(v float64) float64 {
	if u.IsImperial() {
		return v * MMPerInch
	}
	return v
}

// FromMM converts a length in mm to display units.
func (u Units) FromMM(v float64) float64 {
	if u.IsImperial() {
		return v / MMPerInch
	}
	return v
}

// ToCanonical converts parameters entered in display units to mm.
// Counts, spindle speed and delay carry no length unit and pass through.
func (u Units) ToCanonical(p JointParameters) JointParameters {
	return u.convert(p, u.ToMM)
}

// ToDisplay converts canonical parameters to display units.
func (u Units) ToDisplay(p JointParameters) JointParameters {
	return u.convert(p, u.FromMM)
}

func (u Units) convert(p JointParameters, f func(float64) float64) JointParameters {
	p.BoardThickness = f(p.BoardThickness)
	p.BoardWidth = f(p.BoardWidth)
	p.ToolDiameter = f(p.ToolDiameter)
	p.FitTolerance = f(p.FitTolerance)
	p.DepthPerPass = f(p.DepthPerPass)
	p.FeedRate = f(p.FeedRate)
	return p
}

// FieldRule is the accepted range of one form field, in display units.
type FieldRule struct {
	Field   string
	Label   string
	Min     float64
	Max     float64
	Integer bool
}

// FieldError is a form validation failure for one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

var metricRules = []FieldRule{
	{Field: "board_thickness", Label: "Board Thickness", Min: 3, Max: 100},
	{Field: "board_width", Label: "Board Width", Min: 25, Max: 1200},
	{Field: "finger_count", Label: "Finger Count", Min: 2, Max: 20, Integer: true},
	{Field: "tool_diameter", Label: "Bit Diameter", Min: 3, Max: 25},
	{Field: "fit_tolerance", Label: "Fit Tolerance", Min: 0, Max: 2},
	{Field: "depth_per_pass", Label: "Depth Per Pass", Min: 0.5, Max: 100},
	{Field: "feed_rate", Label: "Feed Rate", Min: 100, Max: 10000},
	{Field: "spindle_speed", Label: "Spindle RPM", Min: 1000, Max: 30000, Integer: true},
}

var imperialRules = []FieldRule{
	{Field: "board_thickness", Label: "Board Thickness", Min: 0.1, Max: 4},
	{Field: "board_width", Label: "Board Width", Min: 1, Max: 48},
	{Field: "finger_count", Label: "Finger Count", Min: 2, Max: 20, Integer: true},
	{Field: "tool_diameter", Label: "Bit Diameter", Min: 0.1, Max: 1},
	{Field: "fit_tolerance", Label: "Fit Tolerance", Min: 0, Max: 0.1},
	{Field: "depth_per_pass", Label: "Depth Per Pass", Min: 0.01, Max: 4},
	{Field: "feed_rate", Label: "Feed Rate", Min: 10, Max: 500},
	{Field: "spindle_speed", Label: "Spindle RPM", Min: 1000, Max: 30000, Integer: true},
}

// FieldRules returns the form ranges for the unit system.
func (u Units) FieldRules() []FieldRule {
	if u.IsImperial() {
		return imperialRules
	}
	return metricRules
}

// Rule looks up the range of a single field.
func (u Units) Rule(field string) (FieldRule, bool) {
	for _, r := range u.FieldRules() {
		if r.Field == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

// Check validates one value against the rule.
func (r FieldRule) Check(v float64) *FieldError {
	if r.Integer && v != float64(int64(v)) {
		return &FieldError{Field: r.Field, Message: fmt.Sprintf("%s must be a whole number", r.Label)}
	}
	if v < r.Min || v > r.Max {
		return &FieldError{Field: r.Field, Message: fmt.Sprintf("%s must be between %g and %g", r.Label, r.Min, r.Max)}
	}
	return nil
}

// ValidateDisplay checks parameters in display units against the form
// ranges and returns one FieldError per offending field.
func (u Units) ValidateDisplay(p JointParameters) []FieldError {
	values := map[string]float64{
		"board_thickness": p.BoardThickness,
		"board_width":     p.BoardWidth,
		"finger_count":    float64(p.FingerCount),
		"tool_diameter":   p.ToolDiameter,
		"fit_tolerance":   p.FitTolerance,
		"depth_per_pass":  p.DepthPerPass,
		"feed_rate":       p.FeedRate,
		"spindle_speed":   float64(p.SpindleSpeed),
	}
	var errs []FieldError
	for _, r := range u.FieldRules() {
		if fe := r.Check(values[r.Field]); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}
