// Package export writes box joint documents: the operator setup sheet and
// piece labels (PDF), the slot table (Excel), the finger profile (DXF) and
// a 3D model of the cut pieces (STL).
package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// pieceLayout is the cut pattern of one piece along the primary axis,
// in program coordinates.
type pieceLayout struct {
	Piece   model.Piece
	Offset  float64 // Primary-axis shift of the piece's board edge
	Slots   []model.Span
	Fingers []model.Span
}

// boardSpan is the piece's board along the primary axis.
func (l pieceLayout) boardSpan(width float64) model.Span {
	return model.Span{Start: l.Offset, End: l.Offset + width}
}

// layouts returns the pattern of every piece the program cuts.
func layouts(params model.JointParameters, geom model.JointGeometry) []pieceLayout {
	var out []pieceLayout
	for _, piece := range params.PieceSelection.Pieces() {
		offset := params.PieceOffset(piece)
		out = append(out, pieceLayout{
			Piece:   piece,
			Offset:  offset,
			Slots:   geom.Slots(piece, offset),
			Fingers: geom.Fingers(piece, offset),
		})
	}
	return out
}

// checkJoint rejects parameters that do not describe a cuttable joint.
func checkJoint(params model.JointParameters, geom model.JointGeometry) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if !geom.Matches(params) {
		return fmt.Errorf("geometry does not match parameters")
	}
	return geom.CheckToolFit()
}

// clip limits s to board, reporting false when nothing is left.
func clip(s, board model.Span) (model.Span, bool) {
	out := model.Span{Start: math.Max(s.Start, board.Start), End: math.Min(s.End, board.End)}
	return out, out.End > out.Start
}
