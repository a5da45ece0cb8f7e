package export

import (
	"fmt"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// DXF layer names.
const (
	LayerProfile = "PROFILE"
	LayerSlots   = "SLOTS"
	LayerCenters = "CENTERLINES"
)

// profileLength is how far below the joint the board outline is drawn,
// as a multiple of the board thickness.
const profileLength = 2.0

// ExportDXF writes the end profile of every cut piece as seen facing the
// board: the primary axis runs along X, the cut depth along -Y with the
// board end at Y=0. Pieces keep their program offsets, so a Both joint
// shows piece B to the right of piece A.
//
// Each piece contributes one closed polyline on PROFILE, one closed
// rectangle per slot on SLOTS and one vertical centre line per slot on
// CENTERLINES.
func ExportDXF(path string, params model.JointParameters, geom model.JointGeometry) error {
	if err := checkJoint(params, geom); err != nil {
		return fmt.Errorf("cannot build DXF: %w", err)
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerSlots, color.Red, dxf.DefaultLineType, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerCenters, color.Green, table.LT_HIDDEN, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerProfile, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}

	depth := params.BoardThickness
	for _, l := range layouts(params, geom) {
		board := l.boardSpan(params.BoardWidth)

		if err := d.ChangeLayer(LayerProfile); err != nil {
			return err
		}
		if _, err := d.LwPolyline(true, profileVertices(l, board, depth)...); err != nil {
			return fmt.Errorf("piece %s profile: %w", l.Piece, err)
		}

		for _, s := range l.Slots {
			if err := d.ChangeLayer(LayerSlots); err != nil {
				return err
			}
			if _, err := d.LwPolyline(true,
				[]float64{s.Start, 0}, []float64{s.End, 0},
				[]float64{s.End, -depth}, []float64{s.Start, -depth},
			); err != nil {
				return fmt.Errorf("piece %s slot: %w", l.Piece, err)
			}
			if err := d.ChangeLayer(LayerCenters); err != nil {
				return err
			}
			if _, err := d.Line(s.Center(), 1, 0, s.Center(), -depth-1, 0); err != nil {
				return err
			}
		}
	}

	return d.SaveAs(path)
}

// profileVertices walks the board outline clockwise from the lower
// left corner: up the left edge, across the finger tops and slot bottoms,
// and down the right edge.
func profileVertices(l pieceLayout, board model.Span, depth float64) [][]float64 {
	type element struct {
		span model.Span
		y    float64
	}
	var elems []element
	for _, f := range l.Fingers {
		elems = append(elems, element{f, 0})
	}
	for _, s := range l.Slots {
		if s, ok := clip(s, board); ok {
			elems = append(elems, element{s, -depth})
		}
	}
	sort.Slice(elems, func(i, j int) bool { return elems[i].span.Start < elems[j].span.Start })

	bottom := -depth * profileLength
	verts := [][]float64{{board.Start, bottom}}
	for _, e := range elems {
		verts = append(verts, []float64{e.span.Start, e.y}, []float64{e.span.End, e.y})
	}
	verts = append(verts, []float64{board.End, bottom})
	return verts
}
