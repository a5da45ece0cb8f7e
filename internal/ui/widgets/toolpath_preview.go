package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// Toolpath colors for different move types.
var (
	colorRapid   = color.NRGBA{R: 255, G: 60, B: 60, A: 200}   // Red for rapid moves
	colorFeed    = color.NRGBA{R: 30, G: 120, B: 255, A: 230}  // Blue for cutting moves
	colorPlunge  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}   // Green for plunge
	colorRetract = color.NRGBA{R: 180, G: 180, B: 0, A: 180}   // Yellow for retract
	colorBoard   = color.NRGBA{R: 230, G: 210, B: 175, A: 255} // Light wood for board ends
	colorSlotTop = color.NRGBA{R: 200, G: 220, B: 255, A: 120} // Light blue for slot areas
)

// previewMargin is the pixel border kept around the drawing.
const previewMargin = 10

// rect is an axis-aligned area in machine XY.
type rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b *rect) include(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// machineRect maps a primary span and a secondary range onto machine XY.
func machineRect(o model.Orientation, primary model.Span, s0, s1 float64) rect {
	if o == model.OrientationY {
		return rect{MinX: s0, MinY: primary.Start, MaxX: s1, MaxY: primary.End}
	}
	return rect{MinX: primary.Start, MinY: s0, MaxX: primary.End, MaxY: s1}
}

// boardRects returns the board end and slot areas of every cut piece as
// seen from above, in program coordinates.
func boardRects(params model.JointParameters, geom model.JointGeometry) (boards, slots []rect) {
	for _, piece := range params.PieceSelection.Pieces() {
		offset := params.PieceOffset(piece)
		board := model.Span{Start: offset, End: offset + params.BoardWidth}
		boards = append(boards, machineRect(params.Orientation, board, 0, params.BoardThickness))
		for _, s := range geom.Slots(piece, offset) {
			slots = append(slots, machineRect(params.Orientation, s, 0, params.BoardThickness))
		}
	}
	return boards, slots
}

// previewBounds covers the boards and every work-coordinate move.
func previewBounds(moves []gcode.GCodeMove, boards []rect) (rect, bool) {
	b := rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, r := range boards {
		b.include(r.MinX, r.MinY)
		b.include(r.MaxX, r.MaxY)
	}
	for _, m := range moves {
		if m.Machine {
			continue
		}
		b.include(m.FromX, m.FromY)
		b.include(m.ToX, m.ToY)
	}
	return b, b.MaxX > b.MinX && b.MaxY > b.MinY
}

// ToolpathPreview renders the parsed program over a top view of the board
// ends, with slot areas shaded.
type ToolpathPreview struct {
	widget.BaseWidget
	moves     []gcode.GCodeMove
	params    model.JointParameters
	geom      model.JointGeometry
	maxWidth  float32
	maxHeight float32
}

// NewToolpathPreview creates a toolpath preview limited to maxW x maxH.
func NewToolpathPreview(moves []gcode.GCodeMove, params model.JointParameters, geom model.JointGeometry, maxW, maxH float32) *ToolpathPreview {
	tp := &ToolpathPreview{
		moves:     moves,
		params:    params,
		geom:      geom,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	tp.ExtendBaseWidget(tp)
	return tp
}

// SetProgram replaces the previewed program and redraws. A nil program
// clears the preview.
func (tp *ToolpathPreview) SetProgram(prog *gcode.Program, params model.JointParameters, geom model.JointGeometry) {
	tp.moves = nil
	if prog != nil {
		tp.moves = gcode.ParseGCode(prog.String())
	}
	tp.params = params
	tp.geom = geom
	tp.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (tp *ToolpathPreview) CreateRenderer() fyne.WidgetRenderer {
	return newToolpathPreviewRenderer(tp)
}

type toolpathPreviewRenderer struct {
	tp      *ToolpathPreview
	objects []fyne.CanvasObject
}

func newToolpathPreviewRenderer(tp *ToolpathPreview) *toolpathPreviewRenderer {
	r := &toolpathPreviewRenderer{tp: tp}
	r.rebuild()
	return r
}

func (r *toolpathPreviewRenderer) layout() (bounds rect, scale float32, ok bool) {
	tp := r.tp
	if len(tp.moves) == 0 {
		return rect{}, 0, false
	}
	boards, _ := boardRects(tp.params, tp.geom)
	bounds, ok = previewBounds(tp.moves, boards)
	if !ok {
		return rect{}, 0, false
	}
	scaleX := (tp.maxWidth - previewMargin*2) / float32(bounds.MaxX-bounds.MinX)
	scaleY := (tp.maxHeight - previewMargin*2) / float32(bounds.MaxY-bounds.MinY)
	scale = scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale <= 0 {
		scale = 1
	}
	return bounds, scale, true
}

func (r *toolpathPreviewRenderer) rebuild() {
	r.objects = nil

	bounds, scale, ok := r.layout()
	if !ok {
		return
	}
	// Machine Y grows upwards; canvas Y grows downwards.
	pos := func(x, y float64) fyne.Position {
		return fyne.NewPos(
			previewMargin+float32(x-bounds.MinX)*scale,
			previewMargin+float32(bounds.MaxY-y)*scale,
		)
	}
	area := func(rc rect, fill color.Color, stroke color.Color) {
		obj := canvas.NewRectangle(fill)
		if stroke != nil {
			obj.StrokeColor = stroke
			obj.StrokeWidth = 1.5
		}
		obj.Resize(fyne.NewSize(float32(rc.MaxX-rc.MinX)*scale, float32(rc.MaxY-rc.MinY)*scale))
		obj.Move(pos(rc.MinX, rc.MaxY))
		r.objects = append(r.objects, obj)
	}

	boards, slots := boardRects(r.tp.params, r.tp.geom)
	for _, b := range boards {
		area(b, colorBoard, color.NRGBA{R: 80, G: 80, B: 80, A: 255})
	}
	for _, s := range slots {
		area(s, colorSlotTop, nil)
	}

	for _, m := range r.tp.moves {
		if m.Machine {
			continue
		}
		from := pos(m.FromX, m.FromY)
		to := pos(m.ToX, m.ToY)
		xyDist := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)

		switch m.Type {
		case gcode.MoveRapid:
			if xyDist < 0.01 {
				continue
			}
			r.line(from, to, colorRapid, 1)
		case gcode.MoveFeed:
			if xyDist < 0.01 {
				continue
			}
			r.line(from, to, colorFeed, 2)
		case gcode.MovePlunge:
			r.marker(from, colorPlunge, 4)
		case gcode.MoveRetract:
			if xyDist < 0.01 {
				r.marker(from, colorRetract, 3)
			} else {
				r.line(from, to, colorRetract, 1)
			}
		}
	}
}

func (r *toolpathPreviewRenderer) line(from, to fyne.Position, col color.Color, width float32) {
	l := canvas.NewLine(col)
	l.StrokeWidth = width
	l.Position1 = from
	l.Position2 = to
	r.objects = append(r.objects, l)
}

func (r *toolpathPreviewRenderer) marker(at fyne.Position, col color.Color, size float32) {
	c := canvas.NewCircle(col)
	c.Resize(fyne.NewSize(size, size))
	c.Move(fyne.NewPos(at.X-size/2, at.Y-size/2))
	r.objects = append(r.objects, c)
}

func (r *toolpathPreviewRenderer) Layout(size fyne.Size)        {}
func (r *toolpathPreviewRenderer) Refresh()                     { r.rebuild() }
func (r *toolpathPreviewRenderer) Destroy()                     {}
func (r *toolpathPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *toolpathPreviewRenderer) MinSize() fyne.Size {
	bounds, scale, ok := r.layout()
	if !ok {
		return fyne.NewSize(100, 100)
	}
	return fyne.NewSize(
		float32(bounds.MaxX-bounds.MinX)*scale+previewMargin*2,
		float32(bounds.MaxY-bounds.MinY)*scale+previewMargin*2,
	)
}
