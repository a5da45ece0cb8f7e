package model

import (
	"errors"
	"math"
)

// Piece identifies one half of a box joint.
type Piece string

const (
	PieceA Piece = "A" // Pins: starts and ends with a finger
	PieceB Piece = "B" // Tails: starts and ends with a slot
)

func (p Piece) String() string { return string(p) }

// PieceSelection chooses which pieces a program cuts.
type PieceSelection string

const (
	SelectA    PieceSelection = "A"
	SelectB    PieceSelection = "B"
	SelectBoth PieceSelection = "Both"
)

// Valid reports whether s is one of the known selections.
func (s PieceSelection) Valid() bool {
	switch s {
	case SelectA, SelectB, SelectBoth:
		return true
	}
	return false
}

// Pieces returns the pieces in cutting order.
func (s PieceSelection) Pieces() []Piece {
	switch s {
	case SelectA:
		return []Piece{PieceA}
	case SelectB:
		return []Piece{PieceB}
	case SelectBoth:
		return []Piece{PieceA, PieceB}
	}
	return nil
}

// Code is the short form used in file names.
func (s PieceSelection) Code() string {
	if s == SelectBoth {
		return "AB"
	}
	return string(s)
}

// Orientation selects the machine axis along which finger and slot
// boundaries are laid out. The tool sweeps along the other axis.
type Orientation string

const (
	OrientationX Orientation = "X" // Boundaries are X coordinates, sweeps move Y
	OrientationY Orientation = "Y" // Boundaries are Y coordinates, sweeps move X
)

func (o Orientation) Valid() bool {
	return o == OrientationX || o == OrientationY
}

// JointParameters is the full input of one program, in millimetres.
type JointParameters struct {
	BoardThickness float64        `json:"board_thickness" toml:"board_thickness" yaml:"board_thickness"` // Cut depth target
	BoardWidth     float64        `json:"board_width" toml:"board_width" yaml:"board_width"`         // Width divided into fingers and slots
	FingerCount    int            `json:"finger_count" toml:"finger_count" yaml:"finger_count"`       // Fingers on piece A
	ToolDiameter   float64        `json:"tool_diameter" toml:"tool_diameter" yaml:"tool_diameter"`
	FitTolerance   float64        `json:"fit_tolerance" toml:"fit_tolerance" yaml:"fit_tolerance"` // Added to slot width beyond finger width
	PieceSelection PieceSelection `json:"piece_selection" toml:"piece_selection" yaml:"piece_selection"`
	Orientation    Orientation    `json:"orientation" toml:"orientation" yaml:"orientation"`

	DepthPerPass      float64 `json:"depth_per_pass" toml:"depth_per_pass" yaml:"depth_per_pass"`
	FeedRate          float64 `json:"feed_rate" toml:"feed_rate" yaml:"feed_rate"`         // mm/min
	SpindleSpeed      int     `json:"spindle_speed" toml:"spindle_speed" yaml:"spindle_speed"` // RPM, 0 leaves the spindle off
	SpindleStartDelay float64 `json:"spindle_start_delay" toml:"spindle_start_delay" yaml:"spindle_start_delay"` // seconds
	MistCoolant       bool    `json:"mist_coolant" toml:"mist_coolant" yaml:"mist_coolant"`
	FloodCoolant      bool    `json:"flood_coolant" toml:"flood_coolant" yaml:"flood_coolant"`
}

// DefaultParameters returns the values a fresh install starts with.
func DefaultParameters() JointParameters {
	return JointParameters{
		BoardThickness:    19,
		BoardWidth:        100,
		FingerCount:       4,
		ToolDiameter:      6.35,
		FitTolerance:      0.1,
		PieceSelection:    SelectA,
		Orientation:       OrientationX,
		DepthPerPass:      3,
		FeedRate:          1000,
		SpindleSpeed:      18000,
		SpindleStartDelay: 3,
	}
}

// Validate checks every field against its domain. All violations are
// returned together; each one wraps ErrInvalidParameter.
func (p JointParameters) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, invalidf("%s must be > 0, got %g", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) || math.IsInf(v, 0) {
			errs = append(errs, invalidf("%s must be >= 0, got %g", name, v))
		}
	}

	positive("board thickness", p.BoardThickness)
	positive("board width", p.BoardWidth)
	if p.FingerCount < 2 {
		errs = append(errs, invalidf("finger count must be >= 2, got %d", p.FingerCount))
	}
	positive("tool diameter", p.ToolDiameter)
	nonNegative("fit tolerance", p.FitTolerance)
	if !p.PieceSelection.Valid() {
		errs = append(errs, invalidf("unknown piece selection %q", p.PieceSelection))
	}
	if !p.Orientation.Valid() {
		errs = append(errs, invalidf("unknown orientation %q", p.Orientation))
	}
	positive("depth per pass", p.DepthPerPass)
	positive("feed rate", p.FeedRate)
	if p.SpindleSpeed < 0 {
		errs = append(errs, invalidf("spindle speed must be >= 0, got %d", p.SpindleSpeed))
	}
	nonNegative("spindle start delay", p.SpindleStartDelay)

	return errors.Join(errs...)
}

// Geometry computes the finger layout for these parameters.
func (p JointParameters) Geometry() (JointGeometry, error) {
	return ComputeGeometry(p.BoardWidth, p.FingerCount, p.FitTolerance, p.ToolDiameter, p.PieceSelection)
}

// PassCount is the number of depth passes needed to reach BoardThickness.
func (p JointParameters) PassCount() int {
	return int(math.Ceil(p.BoardThickness / p.DepthPerPass))
}

// PassDepth returns the (positive) depth reached by pass index i.
// The last pass is clamped to BoardThickness.
func (p JointParameters) PassDepth(i int) float64 {
	return math.Min(float64(i+1)*p.DepthPerPass, p.BoardThickness)
}

// PieceOffset is the primary-axis shift applied to a piece. When both
// pieces share one program, piece B sits one board width past piece A.
func (p JointParameters) PieceOffset(piece Piece) float64 {
	if piece == PieceB && p.PieceSelection == SelectBoth {
		return p.BoardWidth
	}
	return 0
}
