package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// fingerColor and slotColor mirror the joint preview widget.
var (
	fingerColor = rgb{R: 210, G: 180, B: 140}
	slotColor   = rgb{R: 255, G: 255, B: 255}
	pieceColors = []rgb{
		{R: 33, G: 150, B: 243}, // blue
		{R: 255, G: 152, B: 0},  // orange
	}
)

type rgb struct {
	R, G, B int
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	sheetQRSize  = 40.0
	diagramTop   = 118.0
)

// SetupSheet is everything printed on the operator setup sheet.
type SetupSheet struct {
	Name     string // Optional job name shown in the title
	Params   model.JointParameters
	Geometry model.JointGeometry
	Stats    gcode.Stats // From gcode.Analyze; zero values are omitted
	Filename string      // Program file name the sheet belongs to
	Units    model.Units // Units used for the parameter listing
}

// sheetQR is the payload encoded into the setup sheet QR code.
type sheetQR struct {
	Filename string                `json:"file"`
	Params   model.JointParameters `json:"params"`
}

// ExportSetupSheet writes the operator setup sheet for a joint to path.
func ExportSetupSheet(path string, sheet SetupSheet) error {
	pdf, err := buildSetupSheet(sheet)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteSetupSheet writes the setup sheet PDF to w.
func WriteSetupSheet(w io.Writer, sheet SetupSheet) error {
	pdf, err := buildSetupSheet(sheet)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildSetupSheet(sheet SetupSheet) (*fpdf.Fpdf, error) {
	if err := checkJoint(sheet.Params, sheet.Geometry); err != nil {
		return nil, fmt.Errorf("cannot build setup sheet: %w", err)
	}
	if sheet.Units == "" {
		sheet.Units = model.UnitsMetric
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("Box Joint Setup Sheet", false)
	pdf.SetCreator("BoxJoints", false)
	pdf.AddPage()

	renderTitle(pdf, sheet)
	renderParameters(pdf, sheet)
	if err := renderSheetQR(pdf, sheet); err != nil {
		return nil, err
	}
	renderDiagram(pdf, sheet.Params, sheet.Geometry)
	renderFooter(pdf)

	return pdf, pdf.Error()
}

func renderTitle(pdf *fpdf.Fpdf, sheet SetupSheet) {
	title := "Box Joint Setup Sheet"
	if sheet.Name != "" {
		title += ": " + sheet.Name
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, "Program: "+sheet.Filename, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight+7, pageWidth-marginRight, marginTop+headerHeight+7)
}

// setupItem is one label/value row of the setup sheet.
type setupItem struct {
	label string
	value string
}

func parameterItems(sheet SetupSheet) []setupItem {
	u := sheet.Units
	d := u.ToDisplay(sheet.Params)
	dist := func(v float64) string { return fmt.Sprintf("%g %s", roundTo(v, 4), u.DistanceLabel()) }

	return []setupItem{
		{"Pieces", pieceLabel(d.PieceSelection)},
		{"Board Thickness", dist(d.BoardThickness)},
		{"Board Width", dist(d.BoardWidth)},
		{"Finger Count", fmt.Sprintf("%d", d.FingerCount)},
		{"Bit Diameter", dist(d.ToolDiameter)},
		{"Fit Tolerance", dist(d.FitTolerance)},
		{"Orientation", orientationLabel(d.Orientation)},
		{"Depth Per Pass", fmt.Sprintf("%s (%d passes)", dist(d.DepthPerPass), d.PassCount())},
		{"Feed Rate", fmt.Sprintf("%g %s", roundTo(d.FeedRate, 1), u.FeedLabel())},
		{"Spindle", spindleLabel(d)},
		{"Coolant", coolantLabel(d)},
	}
}

func geometryItems(sheet SetupSheet) []setupItem {
	u := sheet.Units
	g := sheet.Geometry
	dist := func(v float64) string { return fmt.Sprintf("%.3f %s", u.FromMM(v), u.DistanceLabel()) }

	items := []setupItem{
		{"Finger Width", dist(g.FingerWidth)},
		{"Slot Width", dist(g.SlotWidth)},
		{"Tool Clearance", dist(g.SlotWidth - g.ToolDiameter)},
	}
	s := sheet.Stats
	if s.Moves > 0 {
		items = append(items,
			setupItem{"Plunges", fmt.Sprintf("%d", s.Plunges)},
			setupItem{"Cut Length", fmt.Sprintf("%.0f %s", u.FromMM(s.CutLength), u.DistanceLabel())},
			setupItem{"Estimated Time", s.Time.Round(1e9).String()},
		)
	}
	return items
}

func renderParameters(pdf *fpdf.Fpdf, sheet SetupSheet) {
	y := marginTop + headerHeight + 12
	renderItems(pdf, "Parameters", parameterItems(sheet), marginLeft, y)
	renderItems(pdf, "Geometry", geometryItems(sheet), marginLeft+105, y)

	if sheet.Params.PieceSelection == model.SelectBoth {
		axis := primaryAxis(sheet.Params.Orientation)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft+105, y+62)
		msg := fmt.Sprintf("Piece B is cut %g %s further along %s than piece A.",
			roundTo(sheet.Units.FromMM(sheet.Params.BoardWidth), 4), sheet.Units.DistanceLabel(), axis)
		pdf.MultiCell(100, 5, msg+" Clamp the second board against piece A's far edge.", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
}

func renderItems(pdf *fpdf.Fpdf, heading string, items []setupItem, x, y float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x, y)
	pdf.CellFormat(90, 7, heading, "", 0, "L", false, 0, "")
	y += 8

	for _, item := range items {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(x+3, y)
		pdf.CellFormat(35, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(55, 5, item.value, "", 0, "L", false, 0, "")
		y += 5.5
	}
}

func renderSheetQR(pdf *fpdf.Fpdf, sheet SetupSheet) error {
	png, err := qrPNG(sheetQR{Filename: sheet.Filename, Params: sheet.Params})
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader("qr_setup", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	x := pageWidth - marginRight - sheetQRSize
	y := marginTop + headerHeight + 12
	pdf.ImageOptions("qr_setup", x, y, sheetQRSize, sheetQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+sheetQRSize+1)
	pdf.CellFormat(sheetQRSize, 3, "Scan for job parameters", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// qrPNG encodes v as JSON into a QR code image.
func qrPNG(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// renderDiagram draws the board end of every piece as seen from above the
// machine: fingers standing, slots cleared to full board thickness.
func renderDiagram(pdf *fpdf.Fpdf, params model.JointParameters, geom model.JointGeometry) {
	pieces := layouts(params, geom)
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - diagramTop - marginBottom - 12

	total := float64(len(pieces)) * params.BoardWidth
	scale := math.Min(drawWidth/total, drawHeight/params.BoardThickness)
	canvasW := total * scale
	canvasH := params.BoardThickness * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := diagramTop + 6

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, diagramTop-2)
	pdf.CellFormat(drawWidth, 6, fmt.Sprintf("Layout along %s (sweeps along the board thickness)", primaryAxis(params.Orientation)), "", 0, "L", false, 0, "")

	for i, l := range pieces {
		board := l.boardSpan(params.BoardWidth)
		bx := offsetX + board.Start*scale
		col := pieceColors[i%len(pieceColors)]

		for _, f := range l.Fingers {
			f, ok := clip(f, board)
			if !ok {
				continue
			}
			pdf.SetFillColor(fingerColor.R, fingerColor.G, fingerColor.B)
			pdf.SetDrawColor(100, 100, 100)
			pdf.SetLineWidth(0.3)
			pdf.Rect(offsetX+f.Start*scale, offsetY, f.Width()*scale, canvasH, "FD")
		}
		for n, s := range l.Slots {
			sx := offsetX + s.Start*scale
			pdf.SetFillColor(slotColor.R, slotColor.G, slotColor.B)
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.3)
			pdf.SetDashPattern([]float64{1, 1}, 0)
			pdf.Rect(sx, offsetY, s.Width()*scale, canvasH, "FD")
			pdf.SetDashPattern([]float64{}, 0)

			if s.Width()*scale > 6 {
				label := fmt.Sprintf("%d", n+1)
				pdf.SetFont("Helvetica", "", 7)
				pdf.SetTextColor(200, 0, 0)
				lw := pdf.GetStringWidth(label)
				pdf.SetXY(sx+(s.Width()*scale-lw)/2, offsetY+canvasH/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}

		// Board outline and piece caption.
		pdf.SetDrawColor(col.R, col.G, col.B)
		pdf.SetLineWidth(0.6)
		pdf.Rect(bx, offsetY, params.BoardWidth*scale, canvasH, "D")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(col.R, col.G, col.B)
		caption := fmt.Sprintf("Piece %s: %d slots, starts with a %s", l.Piece, len(l.Slots), firstElement(l.Piece))
		pdf.SetXY(bx, offsetY+canvasH+1)
		pdf.CellFormat(params.BoardWidth*scale, 4, caption, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	// Work origin marker at the left board edge on the near face.
	pdf.SetDrawColor(0, 150, 0)
	pdf.SetLineWidth(0.4)
	pdf.Line(offsetX-4, offsetY+canvasH, offsetX+4, offsetY+canvasH)
	pdf.Line(offsetX, offsetY+canvasH-4, offsetX, offsetY+canvasH+4)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 150, 0)
	pdf.SetXY(offsetX-12, offsetY+canvasH+1)
	pdf.CellFormat(10, 3, "0,0", "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4,
		"Zero Z on the top face of the board. Work origin at the board edge on the near face.", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func firstElement(p model.Piece) string {
	if p == model.PieceB {
		return "slot"
	}
	return "finger"
}

func pieceLabel(s model.PieceSelection) string {
	if s == model.SelectBoth {
		return "A and B"
	}
	return string(s)
}

func primaryAxis(o model.Orientation) string {
	if o == model.OrientationY {
		return "Y"
	}
	return "X"
}

func orientationLabel(o model.Orientation) string {
	if o == model.OrientationY {
		return "Slots along Y, sweeps along X"
	}
	return "Slots along X, sweeps along Y"
}

func spindleLabel(p model.JointParameters) string {
	if p.SpindleSpeed <= 0 {
		return "Off"
	}
	return fmt.Sprintf("%d RPM, %gs delay", p.SpindleSpeed, p.SpindleStartDelay)
}

func coolantLabel(p model.JointParameters) string {
	switch {
	case p.MistCoolant && p.FloodCoolant:
		return "Mist + Flood"
	case p.MistCoolant:
		return "Mist"
	case p.FloodCoolant:
		return "Flood"
	}
	return "None"
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
