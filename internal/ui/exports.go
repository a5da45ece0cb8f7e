package ui

import (
	"github.com/piwi3910/BoxJoints/internal/export"
	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// currentGeometry returns the geometry of the current parameters, showing
// the refusal when the joint cannot be cut.
func (a *App) currentGeometry() (model.JointGeometry, bool) {
	if !a.requireProgram() {
		return model.JointGeometry{}, false
	}
	geom, err := a.params.Geometry()
	if err != nil {
		return model.JointGeometry{}, false
	}
	return geom, true
}

func (a *App) exportSetupSheet() {
	geom, ok := a.currentGeometry()
	if !ok {
		return
	}
	sheet := export.SetupSheet{
		Params:   a.params,
		Geometry: geom,
		Stats:    a.programStats(),
		Filename: gcode.Filename(a.params, a.units),
		Units:    a.units,
	}
	a.saveFile(a.exportName("_setup", ".pdf"), func(path string) error {
		return export.ExportSetupSheet(path, sheet)
	})
}

func (a *App) exportLabels() {
	geom, ok := a.currentGeometry()
	if !ok {
		return
	}
	jobs := []export.LabelJob{{Params: a.params, Geometry: geom}}
	a.saveFile(a.exportName("_labels", ".pdf"), func(path string) error {
		return export.ExportLabels(path, jobs)
	})
}

func (a *App) exportSlotTable() {
	geom, ok := a.currentGeometry()
	if !ok {
		return
	}
	params, units := a.params, a.units
	a.saveFile(a.exportName("_slots", ".xlsx"), func(path string) error {
		return export.ExportSlotTable(path, params, geom, units)
	})
}

func (a *App) exportDXF() {
	geom, ok := a.currentGeometry()
	if !ok {
		return
	}
	params := a.params
	a.saveFile(a.exportName("", ".dxf"), func(path string) error {
		return export.ExportDXF(path, params, geom)
	})
}

func (a *App) exportSTL() {
	geom, ok := a.currentGeometry()
	if !ok {
		return
	}
	params := a.params
	a.saveFile(a.exportName("", ".stl"), func(path string) error {
		return export.ExportSTL(path, params, geom, export.ModelOptions{})
	})
}
