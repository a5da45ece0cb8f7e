package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// LabelJob is one joint whose cut pieces get labels.
type LabelJob struct {
	Name     string
	Params   model.JointParameters
	Geometry model.JointGeometry
}

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	Job         string      `json:"job"`
	Piece       model.Piece `json:"piece"`
	Thickness   float64     `json:"thickness_mm"`
	Width       float64     `json:"width_mm"`
	Fingers     int         `json:"fingers"`
	Slots       int         `json:"slots"`
	SlotWidth   float64     `json:"slot_width_mm"`
	Orientation string      `json:"orientation"`
	Program     string      `json:"program"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF with one QR-coded label per cut piece, so
// the boards can be matched to their program after machining.
func ExportLabels(path string, jobs []LabelJob) error {
	labels, err := CollectLabelInfos(jobs)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		return fmt.Errorf("no pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Box Joint Piece Labels", false)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q piece %s: %w", label.Job, label.Piece, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, index int, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	png, err := qrPNG(info)
	if err != nil {
		return err
	}
	imgName := fmt.Sprintf("qr_label_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, fmt.Sprintf("%s / %s", info.Job, info.Piece), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%g x %g mm, %d slots", roundTo(info.Width, 2), roundTo(info.Thickness, 2), info.Slots)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Slot %.2f mm, %s", info.SlotWidth, info.Orientation), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(textW, 3, truncate(pdf, info.Program, textW), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos lists one label per piece of every job, in cutting order.
func CollectLabelInfos(jobs []LabelJob) ([]LabelInfo, error) {
	var labels []LabelInfo
	for i, job := range jobs {
		if err := checkJoint(job.Params, job.Geometry); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i+1, job.Name, err)
		}
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("Joint %d", i+1)
		}
		program := gcode.Filename(job.Params, model.UnitsMetric)
		for _, piece := range job.Params.PieceSelection.Pieces() {
			labels = append(labels, LabelInfo{
				Job:         name,
				Piece:       piece,
				Thickness:   job.Params.BoardThickness,
				Width:       job.Params.BoardWidth,
				Fingers:     len(job.Geometry.Fingers(piece, 0)),
				Slots:       job.Geometry.SlotCount(piece),
				SlotWidth:   job.Geometry.SlotWidth,
				Orientation: "along " + primaryAxis(job.Params.Orientation),
				Program:     program,
			})
		}
	}
	return labels, nil
}
