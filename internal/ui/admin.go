package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/model"
	"github.com/piwi3910/BoxJoints/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	unitSelect := widget.NewSelect(unitOptions, func(selected string) {
		for i, opt := range unitOptions {
			if opt == selected {
				cfg.Units = unitValues[i]
			}
		}
	})
	for i, v := range unitValues {
		if v == cfg.Units {
			unitSelect.SetSelected(unitOptions[i])
		}
	}

	rapidEntry := widget.NewEntry()
	rapidEntry.SetText(strconv.FormatFloat(cfg.RapidRate, 'f', -1, 64))

	outputEntry := widget.NewEntry()
	outputEntry.SetPlaceHolder(project.DefaultOutputDir())
	outputEntry.SetText(cfg.OutputDir)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Units", unitSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Rapid Rate (mm/min)", rapidEntry),
		widget.NewFormItem("Output Folder", outputEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			rate, err := strconv.ParseFloat(strings.TrimSpace(rapidEntry.Text), 64)
			if err != nil || rate <= 0 {
				dialog.ShowError(fmt.Errorf("rapid rate must be a positive number"), a.window)
				return
			}
			cfg.RapidRate = rate
			cfg.OutputDir = strings.TrimSpace(outputEntry.Text)
			a.applyConfig(cfg)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 320))
	d.Show()
}

// applyConfig makes cfg the active configuration, switching theme and
// units when they changed.
func (a *App) applyConfig(cfg model.AppConfig) {
	cfg.Normalize()
	unitsChanged := cfg.Units != a.units
	a.config = cfg
	a.theme.SetName(cfg.Theme)
	a.app.Settings().SetTheme(a.theme)
	if unitsChanged {
		a.setUnits(cfg.Units)
	}
}

// showImportExportDialog displays the backup dialog for settings and presets.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			a.config.Remember(a.params)
			if err := project.ExportAllData(path, a.config, a.presets); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("boxjoints-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current settings and presets.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					path := reader.URI().Path()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.applyConfig(backup.Config)
					a.presets = backup.Presets
					a.refreshPresetSelector()
					a.history.Push(MakeSnapshot(a.params, a.units, "Import"))
					a.params = a.config.LastParameters
					a.fillForm(a.params)
					a.refreshJoint()

					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					a.persistPresets(a.window)
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings, presets) to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
