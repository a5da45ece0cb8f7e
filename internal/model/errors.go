package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks an input outside its documented domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrToolTooLarge marks a slot narrower than the cutting tool.
	ErrToolTooLarge = errors.New("tool too large for slot")

	// ErrDegenerateGeometry marks a finger layout that cannot be solved.
	ErrDegenerateGeometry = errors.New("degenerate joint geometry")
)

// ToolFitError reports a slot that the selected tool cannot cut.
// It unwraps to ErrToolTooLarge.
type ToolFitError struct {
	SlotWidth    float64 // mm
	ToolDiameter float64 // mm
}

func (e *ToolFitError) Error() string {
	return fmt.Sprintf("slot width (%.2fmm) is smaller than tool diameter (%.2fmm); use fewer fingers or a smaller tool",
		e.SlotWidth, e.ToolDiameter)
}

func (e *ToolFitError) Unwrap() error { return ErrToolTooLarge }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
