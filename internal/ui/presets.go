package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/model"
	"github.com/piwi3910/BoxJoints/internal/project"
)

const noPreset = "(no preset)"

// buildPresetSelector returns the toolbar dropdown that applies a saved preset.
func (a *App) buildPresetSelector() fyne.CanvasObject {
	a.presetSelect = widget.NewSelect(nil, func(name string) {
		if name == noPreset {
			return
		}
		if p := a.presets.FindByName(name); p != nil {
			a.applyPreset(*p)
		}
	})
	a.presetSelect.PlaceHolder = "Presets"
	a.refreshPresetSelector()
	return container.NewHBox(widget.NewLabel("Preset:"), a.presetSelect)
}

func (a *App) refreshPresetSelector() {
	if a.presetSelect == nil {
		return
	}
	a.presetSelect.Options = append([]string{noPreset}, a.presets.Names()...)
	a.presetSelect.Refresh()
}

func (a *App) applyPreset(p model.JointPreset) {
	a.history.Push(MakeSnapshot(a.params, a.units, "Preset "+p.Name))
	a.params = p.Parameters
	a.fillForm(a.params)
	a.refreshJoint()
	a.log.Info("preset applied", "preset", p.Name)
}

func (a *App) persistPresets(w fyne.Window) {
	if err := project.SavePresets(project.DefaultPresetPath(), a.presets); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), w)
	}
}

// watchPresets reloads the preset file when it changes on disk, so that
// edits made by hand or by another instance show up in the selector.
func (a *App) watchPresets() {
	ctx, cancel := context.WithCancel(context.Background())
	path := project.DefaultPresetPath()
	err := project.Watch(ctx, path, func() {
		store, err := project.LoadPresets(path)
		if err != nil {
			a.log.Warn("preset reload failed", "err", err)
			return
		}
		fyne.Do(func() {
			a.presets = store
			a.refreshPresetSelector()
		})
	}, func(err error) {
		a.log.Warn("preset watcher", "err", err)
	})
	if err != nil {
		cancel()
		a.log.Info("preset file not watched", "err", err)
		return
	}
	a.stopWatch = cancel
}

// showPresetManager opens the preset management window where users can
// create, update, duplicate, delete, import and export presets.
func (a *App) showPresetManager() {
	w := fyne.CurrentApp().NewWindow("Preset Manager")
	w.Resize(fyne.NewSize(700, 480))

	selectedIdx := -1
	detail := container.NewVBox(widget.NewLabel("Select a preset to view details."))

	list := widget.NewList(
		func() int { return len(a.presets.Presets) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Preset Name"),
				layout.NewSpacer(),
				widget.NewLabel("fingers"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			p := a.presets.Presets[id]
			box.Objects[1].(*widget.Label).SetText(p.Name)
			box.Objects[3].(*widget.Label).SetText(fmt.Sprintf("%d fingers", p.Parameters.FingerCount))
		},
	)

	changed := func() {
		a.persistPresets(w)
		a.refreshPresetSelector()
		list.Refresh()
	}
	resetDetail := func() {
		selectedIdx = -1
		list.UnselectAll()
		detail.RemoveAll()
		detail.Add(widget.NewLabel("Select a preset to view details."))
		detail.Refresh()
	}
	selected := func(action string) (model.JointPreset, bool) {
		if selectedIdx < 0 || selectedIdx >= len(a.presets.Presets) {
			dialog.ShowInformation("No Selection", "Select a preset to "+action+".", w)
			return model.JointPreset{}, false
		}
		return a.presets.Presets[selectedIdx], true
	}

	list.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showPresetDetail(detail, a.presets.Presets[id])
	}

	newBtn := widget.NewButtonWithIcon("Save Current", theme.ContentAddIcon(), func() {
		a.promptPresetName(w, "New Preset", "", func(name, desc string) {
			a.presets.Add(model.NewJointPreset(name, desc, a.params))
			changed()
		})
	})
	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		if p, ok := selected("apply"); ok {
			a.applyPreset(p)
		}
	})
	updateBtn := widget.NewButtonWithIcon("Update", theme.DocumentSaveIcon(), func() {
		p, ok := selected("update")
		if !ok {
			return
		}
		dialog.ShowConfirm("Update Preset",
			fmt.Sprintf("Replace the values of %q with the current joint?", p.Name),
			func(ok bool) {
				if ok && a.presets.Update(p.ID, a.params) {
					changed()
					resetDetail()
				}
			}, w)
	})
	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		p, ok := selected("duplicate")
		if !ok {
			return
		}
		a.promptPresetName(w, "Duplicate Preset", p.Name+" (copy)", func(name, desc string) {
			a.presets.Add(model.NewJointPreset(name, desc, p.Parameters))
			changed()
		})
	})
	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			p, err := project.ImportPreset(path)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if a.presets.FindByID(p.ID) != nil {
				p = model.NewJointPreset(p.Name, p.Description, p.Parameters)
			}
			a.presets.Add(p)
			changed()
		}, w)
	})
	exportBtn := widget.NewButtonWithIcon("Export", theme.UploadIcon(), func() {
		p, ok := selected("export")
		if !ok {
			return
		}
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportPreset(path, p); err != nil {
				dialog.ShowError(err, w)
				return
			}
			dialog.ShowInformation("Export Complete", fmt.Sprintf("Preset saved to %s", path), w)
		}, w)
		d.SetFileName(strings.ReplaceAll(p.Name, " ", "_") + ".toml")
		d.Show()
	})
	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p, ok := selected("delete")
		if !ok {
			return
		}
		dialog.ShowConfirm("Delete Preset", fmt.Sprintf("Delete preset %q?", p.Name), func(ok bool) {
			if ok && a.presets.Remove(p.ID) {
				changed()
				resetDetail()
			}
		}, w)
	})

	toolbar := container.NewGridWithColumns(4, newBtn, applyBtn, updateBtn, duplicateBtn, importBtn, exportBtn, deleteBtn)
	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		toolbar, nil, nil,
		list,
	)
	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Preset Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detail),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.45)
	w.SetContent(split)
	w.Show()
}

// showPresetDetail lists a preset's values in the current display units.
func (a *App) showPresetDetail(c *fyne.Container, p model.JointPreset) {
	c.RemoveAll()
	d := a.units.ToDisplay(p.Parameters)

	grid := container.NewGridWithColumns(2)
	for _, f := range formFields {
		grid.Add(widget.NewLabelWithStyle(f.caption(a.units)+":", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		grid.Add(widget.NewLabel(fieldText(d, f.key)))
	}
	grid.Add(widget.NewLabelWithStyle("Pieces:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	grid.Add(widget.NewLabel(string(p.Parameters.PieceSelection)))
	grid.Add(widget.NewLabelWithStyle("Orientation:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	grid.Add(widget.NewLabel(string(p.Parameters.Orientation)))

	c.Add(widget.NewLabelWithStyle(p.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	if p.Description != "" {
		c.Add(widget.NewLabel(p.Description))
	}
	c.Add(widget.NewSeparator())
	c.Add(grid)
	c.Add(widget.NewSeparator())
	c.Add(widget.NewLabel("Updated " + p.UpdatedAt))
	c.Refresh()
}

// promptPresetName asks for a unique preset name and description.
func (a *App) promptPresetName(w fyne.Window, title, initial string, onOK func(name, desc string)) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(initial)
	descEntry := widget.NewEntry()

	form := dialog.NewForm(title, "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("preset name cannot be empty"), w)
				return
			}
			if a.presets.FindByName(name) != nil {
				dialog.ShowError(fmt.Errorf("a preset named %q already exists", name), w)
				return
			}
			onOK(name, strings.TrimSpace(descEntry.Text))
		}, w)
	form.Resize(fyne.NewSize(420, 220))
	form.Show()
}
