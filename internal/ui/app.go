package ui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
	"github.com/piwi3910/BoxJoints/internal/project"
	"github.com/piwi3910/BoxJoints/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	log     *slog.Logger
	theme   *BoxJointsTheme
	config  model.AppConfig
	presets model.PresetStore
	history *History

	units   model.Units
	params  model.JointParameters // Canonical mm, always valid
	program *gcode.Program        // Generated for params, nil until Generate
	filling bool                  // Set while the form is filled programmatically

	// Form widgets
	entries           map[string]*widget.Entry
	captions          map[string]*widget.Label
	pieceSelect       *widget.Select
	orientationSelect *widget.Select
	unitRadio         *widget.RadioGroup
	mistCheck         *widget.Check
	floodCheck        *widget.Check
	statusLabel       *widget.Label
	geometryLabel     *widget.Label
	presetSelect      *widget.Select

	// Output widgets
	generateBtn *widget.Button
	jointCanvas *widgets.JointCanvas
	toolpath    *widgets.ToolpathPreview
	programText *widget.Entry
	statsLabel  *widget.Label
	tabs        *container.AppTabs

	stopWatch context.CancelFunc
}

// NewApp loads the saved configuration and presets and prepares the UI
// state. Missing or unreadable files fall back to defaults.
func NewApp(application fyne.App, window fyne.Window, logger *slog.Logger) *App {
	a := &App{
		app:     application,
		window:  window,
		log:     logger.With("component", "ui"),
		history: NewHistory(),
	}

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		a.log.Warn("using default settings", "err", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg
	a.units = cfg.Units
	a.params = cfg.LastParameters

	a.presets, err = project.LoadPresets(project.DefaultPresetPath())
	if err != nil {
		a.log.Warn("presets not loaded", "err", err)
		a.presets = model.NewPresetStore()
	}

	a.theme = NewBoxJointsTheme(cfg.Theme)
	application.Settings().SetTheme(a.theme)
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save Program...", a.saveProgram),
		fyne.NewMenuItem("Save to Output Folder", a.saveToOutputDir),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Batch Import...", a.importBatch),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset to Defaults", func() {
			a.history.Push(MakeSnapshot(a.params, a.units, "Reset"))
			a.params = model.DefaultParameters()
			a.fillForm(a.params)
			a.refreshJoint()
		}),
	)

	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("Setup Sheet (PDF)...", a.exportSetupSheet),
		fyne.NewMenuItem("Piece Labels (PDF)...", a.exportLabels),
		fyne.NewMenuItem("Slot Table (Excel)...", a.exportSlotTable),
		fyne.NewMenuItem("Finger Profile (DXF)...", a.exportDXF),
		fyne.NewMenuItem("3D Model (STL)...", a.exportSTL),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Generate", a.generate),
		fyne.NewMenuItem("Compare Alternatives...", a.showCompareDialog),
		fyne.NewMenuItem("Manage Presets...", a.showPresetManager),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, exportMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About BoxJoints",
		"BoxJoints: CNC Box Joint Generator\n\n"+
			"Computes finger and slot layouts for box joints and\n"+
			"generates G-code that clears every slot in depth passes.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	geom, _ := a.params.Geometry()
	a.jointCanvas = widgets.NewJointCanvas(a.params, geom, 520, 160)
	a.toolpath = widgets.NewToolpathPreview(nil, a.params, geom, 640, 420)

	a.programText = widget.NewMultiLineEntry()
	a.programText.TextStyle = fyne.TextStyle{Monospace: true}
	a.programText.Disable()
	a.statsLabel = widget.NewLabel("")

	form := a.buildForm()

	a.generateBtn = widget.NewButtonWithIcon("Generate", theme.MediaPlayIcon(), a.generate)
	a.generateBtn.Importance = widget.HighImportance
	toolbar := container.NewHBox(
		a.buildPresetSelector(),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save program", a.saveProgram),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export setup sheet", a.exportSetupSheet),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Compare alternatives", a.showCompareDialog),
		a.generateBtn,
	)

	a.tabs = container.NewAppTabs(
		container.NewTabItem("Toolpath", container.NewBorder(nil, a.statsLabel, nil, nil, container.NewScroll(a.toolpath))),
		container.NewTabItem("G-code", a.programText),
	)

	left := container.NewVScroll(container.NewVBox(form, widget.NewCard("Profile", "", a.jointCanvas)))
	split := container.NewHSplit(left, a.tabs)
	split.SetOffset(0.4)

	a.fillForm(a.params)
	a.refreshJoint()
	a.watchPresets()

	a.window.SetCloseIntercept(a.shutdown)
	return withToolTips(container.NewBorder(toolbar, nil, nil, nil, split), a.window.Canvas())
}

// shutdown stores the session state and closes the window.
func (a *App) shutdown() {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.config.Remember(a.params)
	a.config.Units = a.units
	if err := a.saveConfig(); err != nil {
		a.log.Error("failed to save settings", "err", err)
	}
	a.window.Close()
}

func (a *App) undo() {
	label := a.history.UndoLabel()
	if s, ok := a.history.Undo(MakeSnapshot(a.params, a.units, "")); ok {
		a.log.Debug("undo", "edit", label)
		a.restore(s)
	}
}

func (a *App) redo() {
	label := a.history.RedoLabel()
	if s, ok := a.history.Redo(MakeSnapshot(a.params, a.units, "")); ok {
		a.log.Debug("redo", "edit", label)
		a.restore(s)
	}
}

func (a *App) setGenerateEnabled(ok bool) {
	if a.generateBtn == nil {
		return
	}
	if ok {
		a.generateBtn.Enable()
	} else {
		a.generateBtn.Disable()
	}
}

// ─── Program ───────────────────────────────────────────────

// generate builds the program for the current parameters and shows it.
func (a *App) generate() {
	prog, geom, err := gcode.Generate(a.params)
	if err != nil {
		a.log.Warn("generation refused", "err", err)
		dialog.ShowError(err, a.window)
		return
	}
	a.program = prog
	a.toolpath.SetProgram(prog, a.params, geom)
	a.programText.SetText(prog.String())

	stats := a.programStats()
	a.statsLabel.SetText(fmt.Sprintf("%d lines, %d plunges, %.0f %s cut, about %s",
		len(prog.Records), stats.Plunges, a.units.FromMM(stats.CutLength), a.units.DistanceLabel(),
		stats.Time.Round(time.Second)))
	a.log.Info("program generated",
		"pieces", a.params.PieceSelection, "fingers", a.params.FingerCount, "lines", len(prog.Records))
}

// clearProgram drops a program generated for earlier parameters.
func (a *App) clearProgram() {
	a.program = nil
	if a.toolpath != nil {
		geom, _ := a.params.Geometry()
		a.toolpath.SetProgram(nil, a.params, geom)
		a.programText.SetText("")
		a.statsLabel.SetText("Press Generate to build the program.")
	}
}

// requireProgram generates on demand; false means an error was shown.
func (a *App) requireProgram() bool {
	if a.program == nil {
		a.generate()
	}
	return a.program != nil
}

func (a *App) programStats() gcode.Stats {
	return gcode.Analyze(gcode.ParseGCode(a.program.String()), a.config.RapidRate)
}

func (a *App) outputDir() string {
	if a.config.OutputDir != "" {
		return project.ExpandPath(a.config.OutputDir)
	}
	return project.DefaultOutputDir()
}

// saveProgram asks where to save the program, proposing the conventional
// file name in the output folder.
func (a *App) saveProgram() {
	if !a.requireProgram() {
		return
	}
	a.saveFile(gcode.Filename(a.params, a.units), func(path string) error {
		return project.WriteProgram(path, a.program)
	})
}

// saveToOutputDir writes the program straight into the output folder.
func (a *App) saveToOutputDir() {
	if !a.requireProgram() {
		return
	}
	path, err := project.SaveProgram(a.outputDir(), a.program, a.params, a.units)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.recordExport(path)
	dialog.ShowInformation("Program Saved", fmt.Sprintf("G-code saved to %s", path), a.window)
}

// saveFile runs a save dialog and hands the chosen path to write.
func (a *App) saveFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path); err != nil {
			a.log.Error("export failed", "path", path, "err", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.recordExport(path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	if lister, err := storage.ListerForURI(storage.NewFileURI(a.outputDir())); err == nil {
		d.SetLocation(lister)
	}
	d.Show()
}

func (a *App) recordExport(path string) {
	a.config.AddRecentExport(path)
	a.log.Info("file saved", "path", path)
	if err := a.saveConfig(); err != nil {
		a.log.Warn("failed to save settings", "err", err)
	}
}

// exportName derives an export file name from the program file name.
func (a *App) exportName(suffix, ext string) string {
	name := gcode.Filename(a.params, a.units)
	return strings.TrimSuffix(name, filepath.Ext(name)) + suffix + ext
}
