package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// testJoint returns default parameters with edit applied and their geometry.
func testJoint(t *testing.T, edit func(*model.JointParameters)) (model.JointParameters, model.JointGeometry) {
	t.Helper()
	p := model.DefaultParameters()
	if edit != nil {
		edit(&p)
	}
	g, err := p.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	return p, g
}

func testSheet(t *testing.T, edit func(*model.JointParameters)) SetupSheet {
	t.Helper()
	p, g := testJoint(t, edit)
	prog, _, err := gcode.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return SetupSheet{
		Name:     "Drawer side",
		Params:   p,
		Geometry: g,
		Stats:    gcode.Analyze(gcode.ParseGCode(prog.String()), 5000),
		Filename: gcode.Filename(p, model.UnitsMetric),
		Units:    model.UnitsMetric,
	}
}

func TestExportSetupSheet_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.pdf")

	if err := ExportSetupSheet(path, testSheet(t, nil)); err != nil {
		t.Fatalf("ExportSetupSheet returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestWriteSetupSheet_BothPiecesImperial(t *testing.T) {
	sheet := testSheet(t, func(p *model.JointParameters) {
		p.PieceSelection = model.SelectBoth
		p.Orientation = model.OrientationY
		p.MistCoolant = true
	})
	sheet.Units = model.UnitsImperial

	var buf bytes.Buffer
	if err := WriteSetupSheet(&buf, sheet); err != nil {
		t.Fatalf("WriteSetupSheet returned error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestWriteSetupSheet_NoStats(t *testing.T) {
	sheet := testSheet(t, nil)
	sheet.Stats = gcode.Stats{}
	sheet.Name = ""
	sheet.Units = ""

	var buf bytes.Buffer
	if err := WriteSetupSheet(&buf, sheet); err != nil {
		t.Fatalf("WriteSetupSheet returned error: %v", err)
	}
}

func TestExportSetupSheet_ToolTooLarge(t *testing.T) {
	sheet := testSheet(t, nil)
	sheet.Params.FingerCount = 20
	g, err := sheet.Params.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	sheet.Geometry = g

	err = ExportSetupSheet(filepath.Join(t.TempDir(), "bad.pdf"), sheet)
	if !errors.Is(err, model.ErrToolTooLarge) {
		t.Fatalf("expected ErrToolTooLarge, got %v", err)
	}
}

func TestExportSetupSheet_MismatchedGeometry(t *testing.T) {
	sheet := testSheet(t, nil)
	sheet.Params.FingerCount = 3

	if err := WriteSetupSheet(&bytes.Buffer{}, sheet); err == nil {
		t.Fatal("expected error for geometry computed from other parameters")
	}

	bigTool := testSheet(t, nil)
	bigTool.Params.ToolDiameter = 20
	if err := WriteSetupSheet(&bytes.Buffer{}, bigTool); err == nil {
		t.Fatal("expected error for geometry computed for another tool")
	}

	looser := testSheet(t, nil)
	looser.Params.FitTolerance = 0.3
	if err := WriteSetupSheet(&bytes.Buffer{}, looser); err == nil {
		t.Fatal("expected error for geometry computed with another fit tolerance")
	}
}

func TestExportSetupSheet_InvalidPath(t *testing.T) {
	err := ExportSetupSheet("/nonexistent/directory/setup.pdf", testSheet(t, nil))
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
}

func TestParameterItems(t *testing.T) {
	sheet := testSheet(t, func(p *model.JointParameters) {
		p.SpindleSpeed = 0
		p.FloodCoolant = true
	})
	items := map[string]string{}
	for _, it := range parameterItems(sheet) {
		items[it.label] = it.value
	}

	want := map[string]string{
		"Pieces":          "A",
		"Board Thickness": "19 mm",
		"Finger Count":    "4",
		"Depth Per Pass":  "3 mm (7 passes)",
		"Spindle":         "Off",
		"Coolant":         "Flood",
	}
	for label, v := range want {
		if items[label] != v {
			t.Errorf("%s = %q, want %q", label, items[label], v)
		}
	}
}

func TestParameterItems_Imperial(t *testing.T) {
	sheet := testSheet(t, func(p *model.JointParameters) {
		p.BoardThickness = 19.05
		p.BoardWidth = 101.6
	})
	sheet.Units = model.UnitsImperial

	for _, it := range parameterItems(sheet) {
		switch it.label {
		case "Board Thickness":
			if it.value != "0.75 in" {
				t.Errorf("thickness = %q, want 0.75 in", it.value)
			}
		case "Board Width":
			if it.value != "4 in" {
				t.Errorf("width = %q, want 4 in", it.value)
			}
		}
	}
}

func TestGeometryItems_StatsOptional(t *testing.T) {
	sheet := testSheet(t, nil)
	if got := len(geometryItems(sheet)); got != 6 {
		t.Errorf("expected 6 geometry items with stats, got %d", got)
	}
	sheet.Stats = gcode.Stats{}
	if got := len(geometryItems(sheet)); got != 3 {
		t.Errorf("expected 3 geometry items without stats, got %d", got)
	}
}

func TestLayouts(t *testing.T) {
	p, g := testJoint(t, func(p *model.JointParameters) { p.PieceSelection = model.SelectBoth })
	ls := layouts(p, g)
	if len(ls) != 2 {
		t.Fatalf("expected 2 layouts, got %d", len(ls))
	}
	if ls[0].Piece != model.PieceA || ls[0].Offset != 0 {
		t.Errorf("first layout = %s at %g, want A at 0", ls[0].Piece, ls[0].Offset)
	}
	if ls[1].Piece != model.PieceB || ls[1].Offset != p.BoardWidth {
		t.Errorf("second layout = %s at %g, want B at %g", ls[1].Piece, ls[1].Offset, p.BoardWidth)
	}
	if len(ls[0].Slots) != 3 || len(ls[1].Slots) != 4 {
		t.Errorf("slot counts = %d/%d, want 3/4", len(ls[0].Slots), len(ls[1].Slots))
	}
}

func TestClip(t *testing.T) {
	board := model.Span{Start: 0, End: 100}
	tests := []struct {
		in   model.Span
		want model.Span
		ok   bool
	}{
		{model.Span{Start: 10, End: 20}, model.Span{Start: 10, End: 20}, true},
		{model.Span{Start: 95, End: 100.3}, model.Span{Start: 95, End: 100}, true},
		{model.Span{Start: -5, End: 5}, model.Span{Start: 0, End: 5}, true},
		{model.Span{Start: 100, End: 110}, model.Span{}, false},
	}
	for _, tt := range tests {
		got, ok := clip(tt.in, board)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("clip(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
