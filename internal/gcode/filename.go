package gcode

import (
	"fmt"
	"strconv"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// Filename returns the conventional program file name, encoding piece
// selection, orientation and the key dimensions in display units.
//
//	BoxJoint_A_X_BT-19_BW-100_FC-4_DPP-3.nc
func Filename(params model.JointParameters, units model.Units) string {
	d := units.ToDisplay(params)
	return fmt.Sprintf("BoxJoint_%s_%s_BT-%s_BW-%s_FC-%d_DPP-%s.nc",
		params.PieceSelection.Code(), params.Orientation,
		trimNumber(d.BoardThickness), trimNumber(d.BoardWidth),
		params.FingerCount, trimNumber(d.DepthPerPass))
}

// trimNumber prints v with at most four decimals and no trailing zeros.
func trimNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = trimZeros(s)
	return s
}

func trimZeros(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
