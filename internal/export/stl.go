package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// defaultMeshCells controls marching cubes tessellation resolution along
// the longest side of the model.
const defaultMeshCells = 200

// slotOvercut extends slot solids past the board faces so the boolean
// difference leaves no zero-thickness skins.
const slotOvercut = 1.0

// ModelOptions tunes the STL export.
type ModelOptions struct {
	Cells int // Marching cubes cells along the longest side; 0 uses the default
}

// BuildModel returns a solid of the board ends after machining, in program
// coordinates: the board top at Z=0, the near face at secondary 0 and the
// board extending profileLength thicknesses below the joint.
func BuildModel(params model.JointParameters, geom model.JointGeometry) (sdf.SDF3, error) {
	if err := checkJoint(params, geom); err != nil {
		return nil, fmt.Errorf("cannot build model: %w", err)
	}

	t := params.BoardThickness
	length := t * profileLength
	swap := params.Orientation == model.OrientationY

	var parts []sdf.SDF3
	for _, l := range layouts(params, geom) {
		board := l.boardSpan(params.BoardWidth)
		solid, err := boxBetween(swap,
			v3.Vec{X: board.Start, Y: 0, Z: -length},
			v3.Vec{X: board.End, Y: t, Z: 0})
		if err != nil {
			return nil, err
		}

		var cuts []sdf.SDF3
		for _, s := range l.Slots {
			cut, err := boxBetween(swap,
				v3.Vec{X: s.Start, Y: -slotOvercut, Z: -t},
				v3.Vec{X: s.End, Y: t + slotOvercut, Z: slotOvercut})
			if err != nil {
				return nil, err
			}
			cuts = append(cuts, cut)
		}
		if len(cuts) > 0 {
			solid = sdf.Difference3D(solid, sdf.Union3D(cuts...))
		}
		parts = append(parts, solid)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return sdf.Union3D(parts...), nil
}

// boxBetween builds an axis-aligned box from its min and max corners given
// as (primary, secondary, z). swap maps primary to Y for OrientationY.
func boxBetween(swap bool, lo, hi v3.Vec) (sdf.SDF3, error) {
	if swap {
		lo.X, lo.Y = lo.Y, lo.X
		hi.X, hi.Y = hi.Y, hi.X
	}
	size := v3.Vec{X: hi.X - lo.X, Y: hi.Y - lo.Y, Z: hi.Z - lo.Z}
	box, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, fmt.Errorf("box %v: %w", size, err)
	}
	// Box3D is centred on the origin.
	centre := v3.Vec{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2, Z: (lo.Z + hi.Z) / 2}
	return sdf.Transform3D(box, sdf.Translate3d(centre)), nil
}

// ExportSTL renders the machined pieces to a binary STL file.
func ExportSTL(path string, params model.JointParameters, geom model.JointGeometry, opts ModelOptions) error {
	if err := checkJoint(params, geom); err != nil {
		return fmt.Errorf("cannot build model: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSTL(f, params, geom, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSTL renders the machined pieces as binary STL to w.
func WriteSTL(w io.Writer, params model.JointParameters, geom model.JointGeometry, opts ModelOptions) error {
	solid, err := BuildModel(params, geom)
	if err != nil {
		return err
	}
	cells := opts.Cells
	if cells <= 0 {
		cells = defaultMeshCells
	}
	triangles := render.ToTriangles(solid, render.NewMarchingCubesUniform(cells))
	if len(triangles) == 0 {
		return fmt.Errorf("model rendered no triangles")
	}

	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "BoxJoints machined pieces")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return err
	}

	// Each facet: normal, three vertices, attribute byte count.
	var facet [12]float32
	for _, tri := range triangles {
		n := tri.Normal()
		facet[0], facet[1], facet[2] = float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			facet[3+j*3] = float32(v.X)
			facet[4+j*3] = float32(v.Y)
			facet[5+j*3] = float32(v.Z)
		}
		if err := binary.Write(bw, binary.LittleEndian, facet); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
