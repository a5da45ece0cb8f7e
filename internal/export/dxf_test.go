package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BoxJoints/internal/model"
)

func TestExportDXF_Both(t *testing.T) {
	p, g := testJoint(t, func(p *model.JointParameters) { p.PieceSelection = model.SelectBoth })
	path := filepath.Join(t.TempDir(), "profile.dxf")

	require.NoError(t, ExportDXF(path, p, g))

	drawing, err := dxf.Open(path)
	require.NoError(t, err)

	var polylines, lines int
	maxX := 0.0
	for _, e := range drawing.Entities() {
		switch v := e.(type) {
		case *entity.LwPolyline:
			polylines++
			for _, vert := range v.Vertices {
				if vert[0] > maxX {
					maxX = vert[0]
				}
			}
		case *entity.Line:
			lines++
		}
	}
	// Two profiles plus one rectangle per slot (3 on A, 4 on B).
	assert.Equal(t, 2+7, polylines)
	assert.Equal(t, 7, lines)
	// B's last slot runs past the board; the profile stops at the board edge
	// but the slot rectangle does not.
	assert.InDelta(t, 200+p.FitTolerance, maxX, 1e-6)
}

func TestExportDXF_ToolTooLarge(t *testing.T) {
	p, g := testJoint(t, func(p *model.JointParameters) { p.ToolDiameter = 20 })
	err := ExportDXF(filepath.Join(t.TempDir(), "bad.dxf"), p, g)
	assert.ErrorIs(t, err, model.ErrToolTooLarge)
}

func TestProfileVertices(t *testing.T) {
	tests := []struct {
		name  string
		piece model.PieceSelection
		first float64 // Y of the first top vertex
		last  float64 // Y of the last top vertex
		verts int
	}{
		{"piece A starts and ends on fingers", model.SelectA, 0, 0, 2 + 2*7},
		{"piece B starts and ends on slots", model.SelectB, -19, -19, 2 + 2*7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, g := testJoint(t, func(p *model.JointParameters) { p.PieceSelection = tt.piece })
			l := layouts(p, g)[0]
			verts := profileVertices(l, l.boardSpan(p.BoardWidth), p.BoardThickness)

			require.Len(t, verts, tt.verts)
			assert.Equal(t, []float64{0, -38}, verts[0])
			assert.Equal(t, []float64{100, -38}, verts[len(verts)-1])
			assert.Equal(t, tt.first, verts[1][1])
			assert.Equal(t, tt.last, verts[len(verts)-2][1])
			assert.InDelta(t, 100, verts[len(verts)-2][0], 1e-9)
			for i := 2; i < len(verts)-1; i++ {
				assert.GreaterOrEqual(t, verts[i][0], verts[i-1][0]-1e-9, "vertex %d moves backwards", i)
			}
		})
	}
}
