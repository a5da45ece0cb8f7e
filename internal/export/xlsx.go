package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoxJoints/internal/model"
)

const parametersSheet = "Parameters"

// slotTableHeader is the first row of every piece sheet.
var slotTableHeader = []string{"Slot", "Start", "End", "Centre", "Width", "Depth"}

// ExportSlotTable writes a workbook with the joint parameters on the first
// sheet and one sheet per cut piece listing every slot. Positions are in
// program coordinates along the primary axis, converted to units.
func ExportSlotTable(path string, params model.JointParameters, geom model.JointGeometry, units model.Units) error {
	f, err := buildSlotTable(params, geom, units)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func buildSlotTable(params model.JointParameters, geom model.JointGeometry, units model.Units) (*excelize.File, error) {
	if err := checkJoint(params, geom); err != nil {
		return nil, fmt.Errorf("cannot build slot table: %w", err)
	}
	if units == "" {
		units = model.UnitsMetric
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), parametersSheet); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	sheet := SetupSheet{Params: params, Geometry: geom, Units: units}
	row := 1
	for _, item := range append(parameterItems(sheet), geometryItems(sheet)...) {
		if err := f.SetSheetRow(parametersSheet, cell(1, row), &[]any{item.label, item.value}); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}
	if err := f.SetCellStyle(parametersSheet, "A1", cell(1, row-1), bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(parametersSheet, "A", "B", 24); err != nil {
		f.Close()
		return nil, err
	}

	for _, l := range layouts(params, geom) {
		name := "Piece " + string(l.Piece)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
		header := make([]any, len(slotTableHeader))
		for i, h := range slotTableHeader {
			header[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(name, "A1", cell(len(header), 1), bold); err != nil {
			f.Close()
			return nil, err
		}

		depth := roundTo(units.FromMM(params.BoardThickness), 4)
		for i, s := range l.Slots {
			values := []any{
				i + 1,
				roundTo(units.FromMM(s.Start), 4),
				roundTo(units.FromMM(s.End), 4),
				roundTo(units.FromMM(s.Center()), 4),
				roundTo(units.FromMM(s.Width()), 4),
				depth,
			}
			if err := f.SetSheetRow(name, cell(1, i+2), &values); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

// cell converts 1-based coordinates to an A1 reference.
func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}
