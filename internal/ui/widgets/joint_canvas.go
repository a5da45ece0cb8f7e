package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// Piece colors, one per cut piece.
var pieceColors = []color.NRGBA{
	{R: 33, G: 150, B: 243, A: 255}, // blue
	{R: 255, G: 152, B: 0, A: 255},  // orange
}

var (
	colorWood    = color.NRGBA{R: 210, G: 180, B: 140, A: 255}
	colorSlot    = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	colorBadSlot = color.NRGBA{R: 255, G: 80, B: 80, A: 160} // slot narrower than the bit
	colorEdge    = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
)

// profileDepth is how much board is drawn below the slots, in thicknesses.
const profileDepth = 0.6

// jointElement is one finger or slot of a piece along the primary axis.
type jointElement struct {
	Piece model.Piece
	Span  model.Span
	Slot  bool
}

// jointElements lists fingers and slots of every selected piece in board
// coordinates (each piece starting at 0), slots clipped to the board.
func jointElements(params model.JointParameters, geom model.JointGeometry) []jointElement {
	var out []jointElement
	for _, piece := range params.PieceSelection.Pieces() {
		for _, f := range geom.Fingers(piece, 0) {
			out = append(out, jointElement{Piece: piece, Span: f})
		}
		for _, s := range geom.Slots(piece, 0) {
			if s.End > geom.BoardWidth {
				s.End = geom.BoardWidth
			}
			out = append(out, jointElement{Piece: piece, Span: s, Slot: true})
		}
	}
	return out
}

// JointCanvas draws the end of each selected board as it will look after
// cutting: fingers standing, slots removed to full board thickness.
type JointCanvas struct {
	widget.BaseWidget
	params    model.JointParameters
	geom      model.JointGeometry
	maxWidth  float32
	maxHeight float32
}

// NewJointCanvas creates a profile view limited to maxW x maxH.
func NewJointCanvas(params model.JointParameters, geom model.JointGeometry, maxW, maxH float32) *JointCanvas {
	jc := &JointCanvas{
		params:    params,
		geom:      geom,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	jc.ExtendBaseWidget(jc)
	return jc
}

// SetJoint replaces the drawn joint and redraws.
func (jc *JointCanvas) SetJoint(params model.JointParameters, geom model.JointGeometry) {
	jc.params = params
	jc.geom = geom
	jc.Refresh()
}

func (jc *JointCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newJointCanvasRenderer(jc)
}

type jointCanvasRenderer struct {
	jc      *JointCanvas
	objects []fyne.CanvasObject
}

func newJointCanvasRenderer(jc *JointCanvas) *jointCanvasRenderer {
	r := &jointCanvasRenderer{jc: jc}
	r.rebuild()
	return r
}

// scale fits all pieces side by side with a gap between them.
func (r *jointCanvasRenderer) scale() (scale, gap float32) {
	jc := r.jc
	n := float32(len(jc.params.PieceSelection.Pieces()))
	w := float32(jc.geom.BoardWidth)
	h := float32(jc.params.BoardThickness * (1 + profileDepth))
	if n == 0 || w <= 0 || h <= 0 {
		return 0, 0
	}
	gap = 20
	scale = (jc.maxWidth - gap*(n-1)) / (w * n)
	if s := (jc.maxHeight - 16) / h; s < scale {
		scale = s
	}
	if scale <= 0 {
		scale = 1
	}
	return scale, gap
}

func (r *jointCanvasRenderer) rebuild() {
	r.objects = nil

	jc := r.jc
	scale, gap := r.scale()
	if scale == 0 {
		return
	}
	boardW := float32(jc.geom.BoardWidth) * scale
	depth := float32(jc.params.BoardThickness) * scale
	boardH := float32(jc.params.BoardThickness*(1+profileDepth)) * scale

	pieceX := map[model.Piece]float32{}
	for i, piece := range jc.params.PieceSelection.Pieces() {
		x := float32(i) * (boardW + gap)
		pieceX[piece] = x

		bg := canvas.NewRectangle(colorWood)
		bg.Resize(fyne.NewSize(boardW, boardH))
		bg.Move(fyne.NewPos(x, 0))
		r.objects = append(r.objects, bg)
	}

	slotColor := colorSlot
	if !jc.geom.IsToolFit {
		slotColor = colorBadSlot
	}
	for _, e := range jointElements(jc.params, jc.geom) {
		if !e.Slot {
			continue
		}
		slot := canvas.NewRectangle(slotColor)
		slot.StrokeColor = colorEdge
		slot.StrokeWidth = 1
		slot.Resize(fyne.NewSize(float32(e.Span.Width())*scale, depth))
		slot.Move(fyne.NewPos(pieceX[e.Piece]+float32(e.Span.Start)*scale, 0))
		r.objects = append(r.objects, slot)
	}

	for i, piece := range jc.params.PieceSelection.Pieces() {
		col := pieceColors[i%len(pieceColors)]
		border := canvas.NewRectangle(color.Transparent)
		border.StrokeColor = col
		border.StrokeWidth = 2
		border.Resize(fyne.NewSize(boardW, boardH))
		border.Move(fyne.NewPos(pieceX[piece], 0))
		r.objects = append(r.objects, border)

		label := canvas.NewText(fmt.Sprintf("Piece %s: %d slots", piece, jc.geom.SlotCount(piece)), col)
		label.TextSize = 11
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.Move(fyne.NewPos(pieceX[piece], boardH+1))
		r.objects = append(r.objects, label)
	}
}

func (r *jointCanvasRenderer) Layout(size fyne.Size)        {}
func (r *jointCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *jointCanvasRenderer) Destroy()                     {}
func (r *jointCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *jointCanvasRenderer) MinSize() fyne.Size {
	scale, gap := r.scale()
	if scale == 0 {
		return fyne.NewSize(100, 60)
	}
	n := float32(len(r.jc.params.PieceSelection.Pieces()))
	w := float32(r.jc.geom.BoardWidth)*scale*n + gap*(n-1)
	h := float32(r.jc.params.BoardThickness*(1+profileDepth))*scale + 16
	return fyne.NewSize(w, h)
}
