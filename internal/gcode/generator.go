package gcode

import (
	"fmt"

	"github.com/piwi3910/BoxJoints/internal/model"
)

const (
	// stepOverRatio is the inward spiral step as a fraction of tool diameter.
	stepOverRatio = 0.4
	// faceClearance is how far past the board faces sweeps travel, on top
	// of the tool radius.
	faceClearance = 5.0
	// slotRetractZ is the work Z the tool lifts to between slots.
	slotRetractZ = 5.0
	// machineSafeZ is the machine-coordinate Z used as the safe height.
	machineSafeZ = 0.0
)

// Generate validates params, computes the joint geometry and synthesizes
// the program. It never returns a partial program: on any failure the
// program is nil and the error wraps model.ErrInvalidParameter,
// model.ErrDegenerateGeometry or model.ErrToolTooLarge. The geometry is
// returned whenever it could be computed so callers can show it.
func Generate(params model.JointParameters) (*Program, model.JointGeometry, error) {
	if err := params.Validate(); err != nil {
		return nil, model.JointGeometry{}, err
	}
	geom, err := params.Geometry()
	if err != nil {
		return nil, model.JointGeometry{}, err
	}
	if err := geom.CheckToolFit(); err != nil {
		return nil, geom, err
	}
	return Synthesize(params, geom), geom, nil
}

// Synthesize produces the box joint program for params using geom.
//
// The caller must have validated params and checked the tool fit; a
// geometry that is not tool-fit, or parameters that fail validation, are
// programming errors and cause a panic. Use Generate for user input.
func Synthesize(params model.JointParameters, geom model.JointGeometry) *Program {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("gcode: synthesize called with invalid parameters: %v", err))
	}
	if !geom.IsToolFit {
		panic(fmt.Sprintf("gcode: synthesize called with geometry that does not fit the tool: %v", geom.CheckToolFit()))
	}
	if !geom.Matches(params) {
		panic("gcode: synthesize called with geometry computed for other parameters")
	}

	g := &generator{
		params: params,
		geom:   geom,
		roles:  rolesFor(params.Orientation),
		prog:   NewProgram(),
	}
	g.writeHeader()
	g.writeSetup()
	g.prog.Rapid(g.safeHeight())
	for _, piece := range params.PieceSelection.Pieces() {
		g.writePiece(piece)
	}
	g.writeFooter()
	return g.prog
}

// generator carries the state of a single Synthesize call.
type generator struct {
	params model.JointParameters
	geom   model.JointGeometry
	roles  axisRoles
	prog   *Program
}

// axisRoles maps the primary axis (slot boundaries) and the secondary
// axis (clearing sweeps) onto machine axes.
type axisRoles struct {
	primary, secondary Axis
}

func rolesFor(o model.Orientation) axisRoles {
	if o == model.OrientationY {
		return axisRoles{primary: AxisY, secondary: AxisX}
	}
	return axisRoles{primary: AxisX, secondary: AxisY}
}

func (g *generator) toolRadius() float64 { return g.params.ToolDiameter / 2 }

func (g *generator) stepOver() float64 { return g.params.ToolDiameter * stepOverRatio }

// extraTravel is the overtravel past either board face on the secondary axis.
func (g *generator) extraTravel() float64 { return faceClearance + g.toolRadius() }

func (g *generator) safeHeight() Target {
	t := To(AxisZ, machineSafeZ)
	t.Machine = true
	return t
}

func (g *generator) writeHeader() {
	p := g.params
	if p.PieceSelection == model.SelectBoth {
		g.prog.Comment("Box Joints - Pieces A and B")
	} else {
		g.prog.Comment("Box Joints - Piece %s", p.PieceSelection)
	}
	g.prog.Comment("Board Thickness: %gmm", p.BoardThickness)
	g.prog.Comment("Board Width: %gmm", p.BoardWidth)
	g.prog.Comment("Finger Count: %d", p.FingerCount)
	g.prog.Comment("Bit Diameter: %gmm", p.ToolDiameter)
	g.prog.Comment("Fit Tolerance: %gmm", p.FitTolerance)
	g.prog.Comment("Orientation: slots along %s, sweeps along %s", g.roles.primary, g.roles.secondary)
	g.prog.Comment("Depth Per Pass: %gmm, %d passes", p.DepthPerPass, p.PassCount())
	g.prog.Comment("Feed Rate: %smm/min", FormatFeed(p.FeedRate))
	g.prog.Comment("Spindle: %d RPM, %gs delay", p.SpindleSpeed, p.SpindleStartDelay)
	g.prog.Comment("Calculated Finger Width: %.3fmm", g.geom.FingerWidth)
	g.prog.Comment("Calculated Slot Width: %.3fmm", g.geom.SlotWidth)
	if p.PieceSelection == model.SelectBoth {
		g.prog.Comment("Piece B is offset %gmm along %s from piece A", p.BoardWidth, g.roles.primary)
	}
}

func (g *generator) writeSetup() {
	p := g.params
	g.prog.Mode("G21") // mm
	g.prog.Mode("G90") // absolute positioning
	g.prog.Mode("G94") // feed per minute

	if p.MistCoolant {
		g.prog.CoolantOn(CoolantMist)
	}
	if p.FloodCoolant {
		g.prog.CoolantOn(CoolantFlood)
	}
	if p.SpindleSpeed > 0 {
		g.prog.SpindleOn(p.SpindleSpeed)
		g.prog.Dwell(p.SpindleStartDelay)
	}
}

func (g *generator) writeFooter() {
	p := g.params
	g.prog.Rapid(g.safeHeight())
	if p.MistCoolant || p.FloodCoolant {
		g.prog.CoolantOff()
	}
	if p.SpindleSpeed > 0 {
		g.prog.SpindleOff()
	}
	g.prog.End()
}

func (g *generator) writePiece(piece model.Piece) {
	slots := g.geom.Slots(piece, g.params.PieceOffset(piece))
	g.prog.Comment("=== Piece %s: %d slots ===", piece, len(slots))
	for i, slot := range slots {
		g.prog.Comment("Slot %d/%d %s %.3f to %.3f", i+1, len(slots), g.roles.primary, slot.Start, slot.End)
		g.clearSlot(slot)
	}
}

// clearSlot cuts one slot through all depth passes, then lifts clear.
func (g *generator) clearSlot(slot model.Span) {
	p := g.params
	bounds := slot.Inset(g.toolRadius())
	far := p.BoardThickness + g.extraTravel()
	near := -g.extraTravel()

	passes := p.PassCount()
	for pass := 0; pass < passes; pass++ {
		depth := -p.PassDepth(pass)
		g.prog.Comment("Layer %d/%d at depth %.3fmm", pass+1, passes, depth)

		g.prog.Rapid(g.at(bounds.Center(), far))
		g.prog.Rapid(To(AxisZ, depth))
		g.spiral(bounds, near, far)
	}

	g.prog.Rapid(To(AxisZ, slotRetractZ))
}

// at targets a point given in primary/secondary coordinates.
func (g *generator) at(primary, secondary float64) Target {
	return To(g.roles.primary, primary).With(g.roles.secondary, secondary)
}

// spiral clears the rectangle between bounds on the primary axis and
// near..far on the secondary axis at the current depth. The tool starts
// at far. Each loop sweeps the left edge far to near, crosses to the
// right edge and sweeps back, then both edges step inward by stepOver
// until they meet. A centre sweep closes any final gap wider than one
// stepOver.
func (g *generator) spiral(bounds model.Span, near, far float64) {
	prim, sec := g.roles.primary, g.roles.secondary
	step := g.stepOver()
	left, right := bounds.Start, bounds.End

	feed := To(sec, near)
	feed.Feed = g.params.FeedRate

	if left >= right {
		// Slot exactly as wide as the tool: a single sweep on the centre line.
		g.prog.Feed(feed)
		g.prog.Feed(To(sec, far))
		return
	}

	first := To(prim, left)
	first.Feed = g.params.FeedRate
	g.prog.Feed(first)

	var lastLeft, lastRight float64
	for {
		g.prog.Feed(To(sec, near))
		g.prog.Feed(To(prim, right))
		g.prog.Feed(To(sec, far))

		lastLeft, lastRight = left, right
		left += step
		right -= step
		if left >= right {
			break
		}
		g.prog.Feed(To(prim, left))
	}

	if lastRight-lastLeft > step {
		g.prog.Feed(To(prim, bounds.Center()))
		g.prog.Feed(To(sec, near))
		g.prog.Feed(To(sec, far))
	}
}
