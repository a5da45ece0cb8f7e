package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/engine"
	"github.com/piwi3910/BoxJoints/internal/model"
)

type fieldUnit int

const (
	unitNone fieldUnit = iota
	unitDistance
	unitFeed
	unitSeconds
)

// formField is one numeric entry of the parameter form.
type formField struct {
	key     string // Matches model.FieldRule.Field
	label   string
	unit    fieldUnit
	integer bool
}

var formFields = []formField{
	{key: "board_thickness", label: "Board Thickness", unit: unitDistance},
	{key: "board_width", label: "Board Width", unit: unitDistance},
	{key: "finger_count", label: "Finger Count", integer: true},
	{key: "tool_diameter", label: "Bit Diameter", unit: unitDistance},
	{key: "fit_tolerance", label: "Fit Tolerance", unit: unitDistance},
	{key: "depth_per_pass", label: "Depth Per Pass", unit: unitDistance},
	{key: "feed_rate", label: "Feed Rate", unit: unitFeed},
	{key: "spindle_speed", label: "Spindle RPM", integer: true},
	{key: "spindle_start_delay", label: "Spindle Delay", unit: unitSeconds},
}

var (
	pieceOptions = []string{"Piece A", "Piece B", "Both"}
	pieceValues  = []model.PieceSelection{model.SelectA, model.SelectB, model.SelectBoth}

	orientationOptions = []string{"Along X", "Along Y"}
	orientationValues  = []model.Orientation{model.OrientationX, model.OrientationY}

	unitOptions = []string{"Metric (mm)", "Imperial (in)"}
	unitValues  = []model.Units{model.UnitsMetric, model.UnitsImperial}
)

// caption returns the field label with its unit suffix.
func (f formField) caption(u model.Units) string {
	switch f.unit {
	case unitDistance:
		return fmt.Sprintf("%s (%s)", f.label, u.DistanceLabel())
	case unitFeed:
		return fmt.Sprintf("%s (%s)", f.label, u.FeedLabel())
	case unitSeconds:
		return f.label + " (s)"
	}
	return f.label
}

// formValues is the raw state of the form widgets.
type formValues struct {
	text        map[string]string
	piece       string
	orientation string
	mist, flood bool
}

// parseForm reads display-unit parameters from raw form values. Fields
// that do not parse keep their base value and are reported.
func parseForm(v formValues, base model.JointParameters) (model.JointParameters, []model.FieldError) {
	p := base
	var errs []model.FieldError

	for _, f := range formFields {
		raw := strings.TrimSpace(v.text[f.key])
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, model.FieldError{Field: f.key, Message: f.label + " must be a number"})
			continue
		}
		if f.integer && num != float64(int64(num)) {
			errs = append(errs, model.FieldError{Field: f.key, Message: f.label + " must be a whole number"})
			continue
		}
		switch f.key {
		case "board_thickness":
			p.BoardThickness = num
		case "board_width":
			p.BoardWidth = num
		case "finger_count":
			p.FingerCount = int(num)
		case "tool_diameter":
			p.ToolDiameter = num
		case "fit_tolerance":
			p.FitTolerance = num
		case "depth_per_pass":
			p.DepthPerPass = num
		case "feed_rate":
			p.FeedRate = num
		case "spindle_speed":
			p.SpindleSpeed = int(num)
		case "spindle_start_delay":
			if num < 0 {
				errs = append(errs, model.FieldError{Field: f.key, Message: f.label + " must not be negative"})
				continue
			}
			p.SpindleStartDelay = num
		}
	}

	for i, opt := range pieceOptions {
		if v.piece == opt {
			p.PieceSelection = pieceValues[i]
		}
	}
	for i, opt := range orientationOptions {
		if v.orientation == opt {
			p.Orientation = orientationValues[i]
		}
	}
	p.MistCoolant = v.mist
	p.FloodCoolant = v.flood
	return p, errs
}

// toCanonical converts parsed display values to mm. A field whose text
// still shows the current value keeps the current canonical value, so the
// rounding of displayed values never leaks back into the joint.
func toCanonical(display model.JointParameters, text map[string]string, current model.JointParameters, units model.Units) model.JointParameters {
	out := units.ToCanonical(display)
	shown := units.ToDisplay(current)
	for _, f := range formFields {
		if strings.TrimSpace(text[f.key]) == fieldText(shown, f.key) {
			copyField(&out, current, f.key)
		}
	}
	return out
}

func copyField(dst *model.JointParameters, src model.JointParameters, key string) {
	switch key {
	case "board_thickness":
		dst.BoardThickness = src.BoardThickness
	case "board_width":
		dst.BoardWidth = src.BoardWidth
	case "finger_count":
		dst.FingerCount = src.FingerCount
	case "tool_diameter":
		dst.ToolDiameter = src.ToolDiameter
	case "fit_tolerance":
		dst.FitTolerance = src.FitTolerance
	case "depth_per_pass":
		dst.DepthPerPass = src.DepthPerPass
	case "feed_rate":
		dst.FeedRate = src.FeedRate
	case "spindle_speed":
		dst.SpindleSpeed = src.SpindleSpeed
	case "spindle_start_delay":
		dst.SpindleStartDelay = src.SpindleStartDelay
	}
}

// fieldText formats a display value for its entry.
func fieldText(p model.JointParameters, key string) string {
	num := func(v float64) string { return strconv.FormatFloat(roundDisplay(v), 'f', -1, 64) }
	switch key {
	case "board_thickness":
		return num(p.BoardThickness)
	case "board_width":
		return num(p.BoardWidth)
	case "finger_count":
		return strconv.Itoa(p.FingerCount)
	case "tool_diameter":
		return num(p.ToolDiameter)
	case "fit_tolerance":
		return num(p.FitTolerance)
	case "depth_per_pass":
		return num(p.DepthPerPass)
	case "feed_rate":
		return num(p.FeedRate)
	case "spindle_speed":
		return strconv.Itoa(p.SpindleSpeed)
	case "spindle_start_delay":
		return num(p.SpindleStartDelay)
	}
	return ""
}

// roundDisplay drops conversion noise such as 0.7500000000000001.
func roundDisplay(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return r
}

// geometryMessage describes the joint for the status line. fits is false
// when the program cannot be generated.
func geometryMessage(p model.JointParameters, units model.Units) (msg string, fits bool) {
	geom, err := p.Geometry()
	if err != nil {
		return err.Error(), false
	}
	dist := func(v float64) string { return fmt.Sprintf("%.3f%s", units.FromMM(v), units.DistanceLabel()) }
	if err := geom.CheckToolFit(); err != nil {
		msg := fmt.Sprintf("Slot width %s is smaller than the %s bit.", dist(geom.SlotWidth), dist(geom.ToolDiameter))
		n := engine.MaxFingerCount(p.BoardWidth, p.FitTolerance, p.ToolDiameter)
		if rule, ok := units.Rule("finger_count"); ok && n > int(rule.Max) {
			n = int(rule.Max)
		}
		if n >= 2 {
			msg += fmt.Sprintf(" This bit fits at most %d fingers.", n)
		} else {
			msg += " Use a smaller bit."
		}
		return msg, false
	}
	return fmt.Sprintf("Finger %s, slot %s, %d passes", dist(geom.FingerWidth), dist(geom.SlotWidth), p.PassCount()), true
}

// buildForm creates the parameter entries. Edits flow into onFormChanged.
func (a *App) buildForm() fyne.CanvasObject {
	a.entries = map[string]*widget.Entry{}
	a.captions = map[string]*widget.Label{}

	grid := container.NewGridWithColumns(2)
	for _, f := range formFields {
		caption := widget.NewLabel(f.caption(a.units))
		entry := widget.NewEntry()
		entry.OnChanged = func(string) { a.onFormChanged() }
		a.captions[f.key] = caption
		a.entries[f.key] = entry
		grid.Add(caption)
		grid.Add(entry)
	}

	a.pieceSelect = widget.NewSelect(pieceOptions, func(string) { a.onFormChanged() })
	a.orientationSelect = widget.NewSelect(orientationOptions, func(string) { a.onFormChanged() })
	a.mistCheck = widget.NewCheck("Mist (M7)", func(bool) { a.onFormChanged() })
	a.floodCheck = widget.NewCheck("Flood (M8)", func(bool) { a.onFormChanged() })

	a.unitRadio = widget.NewRadioGroup(unitOptions, func(selected string) {
		for i, opt := range unitOptions {
			if opt == selected && unitValues[i] != a.units {
				a.setUnits(unitValues[i])
			}
		}
	})
	a.unitRadio.Horizontal = true
	a.unitRadio.Required = true

	a.statusLabel = widget.NewLabel("")
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.geometryLabel = widget.NewLabel("")
	a.geometryLabel.Wrapping = fyne.TextWrapWord

	jointCard := widget.NewCard("Joint", "", container.NewVBox(
		a.unitRadio,
		grid,
	))
	cutCard := widget.NewCard("Cut", "", container.NewGridWithColumns(2,
		widget.NewLabel("Pieces"), a.pieceSelect,
		widget.NewLabel("Slots Laid Out"), a.orientationSelect,
		widget.NewLabel("Coolant"), container.NewHBox(a.mistCheck, a.floodCheck),
	))

	return container.NewVBox(jointCard, cutCard, a.geometryLabel, a.statusLabel)
}

// fillForm shows canonical parameters in the current units without
// triggering change handling.
func (a *App) fillForm(p model.JointParameters) {
	a.filling = true
	defer func() { a.filling = false }()

	d := a.units.ToDisplay(p)
	for _, f := range formFields {
		a.entries[f.key].SetText(fieldText(d, f.key))
		a.captions[f.key].SetText(f.caption(a.units))
	}
	for i, v := range pieceValues {
		if v == p.PieceSelection {
			a.pieceSelect.SetSelected(pieceOptions[i])
		}
	}
	for i, v := range orientationValues {
		if v == p.Orientation {
			a.orientationSelect.SetSelected(orientationOptions[i])
		}
	}
	for i, v := range unitValues {
		if v == a.units {
			a.unitRadio.SetSelected(unitOptions[i])
		}
	}
	a.mistCheck.SetChecked(p.MistCoolant)
	a.floodCheck.SetChecked(p.FloodCoolant)
}

// readForm returns the canonical parameters entered in the form, or the
// messages explaining why they are not acceptable.
func (a *App) readForm() (model.JointParameters, []string) {
	values := formValues{
		text:        map[string]string{},
		piece:       a.pieceSelect.Selected,
		orientation: a.orientationSelect.Selected,
		mist:        a.mistCheck.Checked,
		flood:       a.floodCheck.Checked,
	}
	for key, e := range a.entries {
		values.text[key] = e.Text
	}

	display, parseErrs := parseForm(values, a.units.ToDisplay(a.params))
	var msgs []string
	for _, fe := range parseErrs {
		msgs = append(msgs, fe.Message)
	}
	if len(msgs) == 0 {
		for _, fe := range a.units.ValidateDisplay(display) {
			msgs = append(msgs, fe.Message)
		}
	}
	canonical := toCanonical(display, values.text, a.params, a.units)
	if len(msgs) == 0 {
		if err := canonical.Validate(); err != nil {
			msgs = append(msgs, strings.Split(err.Error(), "\n")...)
		}
	}
	return canonical, msgs
}

// onFormChanged validates the form and, when it is acceptable, makes it
// the current joint.
func (a *App) onFormChanged() {
	if a.filling {
		return
	}
	params, msgs := a.readForm()
	if len(msgs) > 0 {
		a.statusLabel.SetText(strings.Join(msgs, "\n"))
		a.statusLabel.Importance = widget.DangerImportance
		a.statusLabel.Refresh()
		a.setGenerateEnabled(false)
		return
	}
	a.statusLabel.SetText("")
	if params != a.params {
		a.history.Push(MakeSnapshot(a.params, a.units, "Edit"))
		a.params = params
	}
	a.refreshJoint()
}

// setUnits switches display units, converting the shown values from the
// canonical parameters so repeated toggling does not drift.
func (a *App) setUnits(u model.Units) {
	a.history.Push(MakeSnapshot(a.params, a.units, "Units"))
	a.units = u
	a.config.Units = u
	a.log.Info("units changed", "units", u)
	a.fillForm(a.params)
	a.refreshJoint()
}

// restore applies a history snapshot to the form.
func (a *App) restore(s Snapshot) {
	a.params = s.Params
	a.units = s.Units
	a.fillForm(a.params)
	a.refreshJoint()
}

// refreshJoint updates the geometry line and the profile preview, and
// drops any program generated for earlier parameters.
func (a *App) refreshJoint() {
	msg, fits := geometryMessage(a.params, a.units)
	a.geometryLabel.SetText(msg)
	if fits {
		a.geometryLabel.Importance = widget.MediumImportance
	} else {
		a.geometryLabel.Importance = widget.DangerImportance
	}
	a.geometryLabel.Refresh()

	if geom, err := a.params.Geometry(); err == nil {
		a.jointCanvas.SetJoint(a.params, geom)
	}
	a.clearProgram()
	a.setGenerateEnabled(fits)
}
