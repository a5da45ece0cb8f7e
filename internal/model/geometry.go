package model

import "fmt"

// JointGeometry holds the finger layout derived from JointParameters.
// Both pieces use piece A's pattern as reference: 2n-1 alternating
// elements, n fingers and n-1 slots across BoardWidth.
type JointGeometry struct {
	BoardWidth   float64 `json:"board_width"`
	FingerCount  int     `json:"finger_count"`
	FitTolerance float64 `json:"fit_tolerance"`
	ToolDiameter float64 `json:"tool_diameter"`

	FingerWidth float64 `json:"finger_width"`
	SlotWidth   float64 `json:"slot_width"` // FingerWidth + FitTolerance
	IsToolFit   bool    `json:"is_tool_fit"`
}

// ComputeGeometry solves
//
//	(2n-1)*fingerWidth + (n-1)*fitTolerance = boardWidth
//
// for the finger width and checks the resulting slot against the tool.
// A tool that does not fit is reported through IsToolFit, not as an
// error; see CheckToolFit.
func ComputeGeometry(boardWidth float64, fingerCount int, fitTolerance, toolDiameter float64, selection PieceSelection) (JointGeometry, error) {
	elements := 2*fingerCount - 1
	if elements <= 0 {
		return JointGeometry{}, fmt.Errorf("%w: %d fingers give %d elements", ErrDegenerateGeometry, fingerCount, elements)
	}
	if fingerCount < 2 {
		return JointGeometry{}, invalidf("finger count must be >= 2, got %d", fingerCount)
	}
	if !(boardWidth > 0) {
		return JointGeometry{}, invalidf("board width must be > 0, got %g", boardWidth)
	}
	if !(fitTolerance >= 0) {
		return JointGeometry{}, invalidf("fit tolerance must be >= 0, got %g", fitTolerance)
	}
	if !(toolDiameter > 0) {
		return JointGeometry{}, invalidf("tool diameter must be > 0, got %g", toolDiameter)
	}
	if selection != "" && !selection.Valid() {
		return JointGeometry{}, invalidf("unknown piece selection %q", selection)
	}

	fingerWidth := (boardWidth - float64(fingerCount-1)*fitTolerance) / float64(elements)
	if !(fingerWidth > 0) {
		return JointGeometry{}, fmt.Errorf("%w: tolerance %g leaves no finger width on a %g board",
			ErrDegenerateGeometry, fitTolerance, boardWidth)
	}
	slotWidth := fingerWidth + fitTolerance

	return JointGeometry{
		BoardWidth:   boardWidth,
		FingerCount:  fingerCount,
		FitTolerance: fitTolerance,
		ToolDiameter: toolDiameter,
		FingerWidth:  fingerWidth,
		SlotWidth:    slotWidth,
		IsToolFit:    slotWidth >= toolDiameter,
	}, nil
}

// CheckToolFit returns a *ToolFitError when the slot is narrower than the tool.
func (g JointGeometry) CheckToolFit() error {
	if g.IsToolFit {
		return nil
	}
	return &ToolFitError{SlotWidth: g.SlotWidth, ToolDiameter: g.ToolDiameter}
}

// Matches reports whether g was computed from the layout inputs of p:
// board width, finger count, fit tolerance and tool diameter.
func (g JointGeometry) Matches(p JointParameters) bool {
	return g.BoardWidth == p.BoardWidth &&
		g.FingerCount == p.FingerCount &&
		g.FitTolerance == p.FitTolerance &&
		g.ToolDiameter == p.ToolDiameter
}

// Pitch is the distance between the starts of two neighbouring slots.
func (g JointGeometry) Pitch() float64 {
	return g.FingerWidth + g.SlotWidth
}

// Span is a closed interval along the primary axis, in mm.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s Span) Width() float64  { return s.End - s.Start }
func (s Span) Center() float64 { return (s.Start + s.End) / 2 }

// Inset shrinks the span by d on both sides.
func (s Span) Inset(d float64) Span {
	return Span{Start: s.Start + d, End: s.End - d}
}

// SlotCount returns how many slots the piece has: n-1 for A, n for B.
func (g JointGeometry) SlotCount(piece Piece) int {
	if piece == PieceB {
		return g.FingerCount
	}
	return g.FingerCount - 1
}

// SlotStart is the primary-axis position of the first slot of a piece.
func (g JointGeometry) SlotStart(piece Piece) float64 {
	if piece == PieceB {
		return 0
	}
	return g.FingerWidth
}

// Slots lists the slot spans of a piece, shifted by offset.
func (g JointGeometry) Slots(piece Piece, offset float64) []Span {
	n := g.SlotCount(piece)
	start := g.SlotStart(piece) + offset
	slots := make([]Span, n)
	for i := 0; i < n; i++ {
		s := start + float64(i)*g.Pitch()
		slots[i] = Span{Start: s, End: s + g.SlotWidth}
	}
	return slots
}

// Fingers lists the material left standing on a piece between 0 and
// BoardWidth, shifted by offset.
func (g JointGeometry) Fingers(piece Piece, offset float64) []Span {
	var fingers []Span
	cursor := offset
	end := offset + g.BoardWidth
	for _, s := range g.Slots(piece, offset) {
		if s.Start > cursor {
			fingers = append(fingers, Span{Start: cursor, End: s.Start})
		}
		cursor = s.End
	}
	if cursor < end {
		fingers = append(fingers, Span{Start: cursor, End: end})
	}
	return fingers
}
