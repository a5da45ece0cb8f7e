package ui

import "github.com/piwi3910/BoxJoints/internal/model"

const defaultMaxDepth = 50

// Snapshot is the form state before one edit.
type Snapshot struct {
	Params model.JointParameters // Canonical mm
	Units  model.Units
	Label  string // What the edit changed, e.g. "Preset Drawer"
}

// MakeSnapshot records params and units under label.
func MakeSnapshot(params model.JointParameters, units model.Units, label string) Snapshot {
	return Snapshot{Params: params, Units: units, Label: label}
}

func (s Snapshot) sameState(o Snapshot) bool {
	return s.Params == o.Params && s.Units == o.Units
}

// History is the undo/redo record of form edits. Snapshots are values,
// so no copying is needed on push or restore.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before an edit and forgets the redo branch.
// Pushing the state already on top is a no-op.
func (h *History) Push(s Snapshot) {
	if n := len(h.undoStack); n > 0 && h.undoStack[n-1].sameState(s) {
		return
	}
	h.undoStack = appendBounded(h.undoStack, s, h.maxDepth)
	h.redoStack = nil
}

// Undo returns the state to restore and keeps current for Redo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	return h.step(&h.undoStack, &h.redoStack, current)
}

// Redo reverses the last Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	return h.step(&h.redoStack, &h.undoStack, current)
}

func (h *History) step(from, to *[]Snapshot, current Snapshot) (Snapshot, bool) {
	n := len(*from)
	if n == 0 {
		return Snapshot{}, false
	}
	s := (*from)[n-1]
	*from = (*from)[:n-1]
	current.Label = s.Label
	*to = appendBounded(*to, current, h.maxDepth)
	return s, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoLabel names the edit Undo would revert, or "" when there is none.
func (h *History) UndoLabel() string { return topLabel(h.undoStack) }

// RedoLabel names the edit Redo would reapply, or "" when there is none.
func (h *History) RedoLabel() string { return topLabel(h.redoStack) }

func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func appendBounded(stack []Snapshot, s Snapshot, limit int) []Snapshot {
	stack = append(stack, s)
	if limit > 0 && len(stack) > limit {
		stack = stack[len(stack)-limit:]
	}
	return stack
}

func topLabel(stack []Snapshot) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1].Label
}
