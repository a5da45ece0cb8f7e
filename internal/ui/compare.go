package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/engine"
)

// showCompareDialog lists alternatives to the current joint (finger
// counts and bit sizes) with their cut statistics. "Use" applies one.
func (a *App) showCompareDialog() {
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(a.params), a.config.RapidRate)

	bold := func(s string) *widget.Label {
		return widget.NewLabelWithStyle(s, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	table := container.NewVBox(
		container.NewGridWithColumns(7,
			bold("Scenario"), bold("Bit"), bold("Finger"), bold("Slots"),
			bold("Cut"), bold("Time"), bold(""),
		),
		widget.NewSeparator(),
	)

	var d dialog.Dialog
	for _, r := range results {
		r := r
		bit := fmt.Sprintf("%g %s", roundDisplay(a.units.FromMM(r.Scenario.Params.ToolDiameter)), a.units.DistanceLabel())
		finger := fmt.Sprintf("%g %s", roundDisplay(a.units.FromMM(r.Geometry.FingerWidth)), a.units.DistanceLabel())

		if !r.Fits() {
			table.Add(container.NewGridWithColumns(7,
				widget.NewLabel(r.Scenario.Name), widget.NewLabel(bit), widget.NewLabel(finger),
				widget.NewLabel("-"), widget.NewLabel("-"), widget.NewLabel("Does not fit"),
				widget.NewLabel(""),
			))
			continue
		}

		useBtn := widget.NewButtonWithIcon("Use", theme.ConfirmIcon(), func() {
			a.history.Push(MakeSnapshot(a.params, a.units, "Compare"))
			a.params = r.Scenario.Params
			a.fillForm(a.params)
			a.refreshJoint()
			if d != nil {
				d.Hide()
			}
		})
		if r.Scenario.Params == a.params {
			useBtn.Disable()
		}
		table.Add(container.NewGridWithColumns(7,
			widget.NewLabel(r.Scenario.Name),
			widget.NewLabel(bit),
			widget.NewLabel(finger),
			widget.NewLabel(fmt.Sprintf("%d", r.Slots)),
			widget.NewLabel(fmt.Sprintf("%g %s", roundDisplay(a.units.FromMM(r.Stats.CutLength)), a.units.DistanceLabel())),
			widget.NewLabel(r.Stats.Time.Round(time.Second).String()),
			useBtn,
		))
	}

	d = dialog.NewCustom("Compare Alternatives", "Close", container.NewVScroll(table), a.window)
	d.Resize(fyne.NewSize(900, 420))
	d.Show()
}
