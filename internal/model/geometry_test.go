package model

import (
	"errors"
	"math"
	"testing"
)

func TestComputeGeometry_Example(t *testing.T) {
	g, err := ComputeGeometry(100, 4, 0.1, 6.35, SelectA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(g.FingerWidth-14.2714) > 1e-4 {
		t.Errorf("expected finger width ~14.2714, got %.6f", g.FingerWidth)
	}
	if math.Abs(g.SlotWidth-14.3714) > 1e-4 {
		t.Errorf("expected slot width ~14.3714, got %.6f", g.SlotWidth)
	}
	if !g.IsToolFit {
		t.Error("expected 6.35mm tool to fit")
	}
	if err := g.CheckToolFit(); err != nil {
		t.Errorf("CheckToolFit: %v", err)
	}
}

func TestComputeGeometry_ToolTooLarge(t *testing.T) {
	g, err := ComputeGeometry(100, 20, 0.1, 6.35, SelectA)
	if err != nil {
		t.Fatalf("geometry itself is solvable, got %v", err)
	}
	if g.IsToolFit {
		t.Fatal("expected tool not to fit")
	}

	err = g.CheckToolFit()
	if !errors.Is(err, ErrToolTooLarge) {
		t.Fatalf("expected ErrToolTooLarge, got %v", err)
	}
	var fitErr *ToolFitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("expected *ToolFitError, got %T", err)
	}
	if fitErr.SlotWidth != g.SlotWidth || fitErr.ToolDiameter != 6.35 {
		t.Errorf("unexpected error fields: %+v", fitErr)
	}
	want := "slot width (2.62mm) is smaller than tool diameter (6.35mm); use fewer fingers or a smaller tool"
	if err.Error() != want {
		t.Errorf("got message %q", err.Error())
	}
}

func TestComputeGeometry_ExactFit(t *testing.T) {
	ref, err := ComputeGeometry(100, 4, 0.1, 1, SelectA)
	if err != nil {
		t.Fatal(err)
	}
	g, err := ComputeGeometry(100, 4, 0.1, ref.SlotWidth, SelectA)
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsToolFit {
		t.Error("a tool exactly as wide as the slot must fit")
	}
}

func TestComputeGeometry_Errors(t *testing.T) {
	tests := []struct {
		name      string
		width     float64
		fingers   int
		tolerance float64
		tool      float64
		selection PieceSelection
		want      error
	}{
		{"zero fingers", 100, 0, 0.1, 6, SelectA, ErrDegenerateGeometry},
		{"negative fingers", 100, -3, 0.1, 6, SelectA, ErrDegenerateGeometry},
		{"one finger", 100, 1, 0.1, 6, SelectA, ErrInvalidParameter},
		{"zero width", 0, 4, 0.1, 6, SelectA, ErrInvalidParameter},
		{"NaN width", math.NaN(), 4, 0.1, 6, SelectA, ErrInvalidParameter},
		{"negative tolerance", 100, 4, -0.1, 6, SelectA, ErrInvalidParameter},
		{"zero tool", 100, 4, 0.1, 0, SelectA, ErrInvalidParameter},
		{"bad selection", 100, 4, 0.1, 6, "C", ErrInvalidParameter},
		{"tolerance eats board", 10, 4, 5, 1, SelectA, ErrDegenerateGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeGeometry(tt.width, tt.fingers, tt.tolerance, tt.tool, tt.selection)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestComputeGeometry_Properties(t *testing.T) {
	for _, width := range []float64{25, 100, 333.3, 1200} {
		for n := 2; n <= 20; n++ {
			for _, tol := range []float64{0, 0.05, 0.1, 0.5} {
				g, err := ComputeGeometry(width, n, tol, 3, SelectBoth)
				if err != nil {
					t.Fatalf("w=%g n=%d tol=%g: %v", width, n, tol, err)
				}
				if math.Abs(g.SlotWidth-(g.FingerWidth+tol)) > 1e-9 {
					t.Errorf("slot != finger + tolerance for w=%g n=%d", width, n)
				}
				total := float64(2*n-1)*g.FingerWidth + float64(n-1)*tol
				if math.Abs(total-width) > 1e-9*width {
					t.Errorf("w=%g n=%d tol=%g: layout sums to %g", width, n, tol, total)
				}
				if g.IsToolFit != (g.SlotWidth >= 3) {
					t.Errorf("fit verdict disagrees with slot width %g", g.SlotWidth)
				}
			}
		}
	}
}

func TestComputeGeometry_MoreFingersNarrowerSlots(t *testing.T) {
	prev := math.Inf(1)
	for n := 2; n <= 20; n++ {
		g, err := ComputeGeometry(100, n, 0.1, 1, SelectA)
		if err != nil {
			t.Fatal(err)
		}
		if g.SlotWidth >= prev {
			t.Errorf("slot width did not shrink at n=%d: %g >= %g", n, g.SlotWidth, prev)
		}
		prev = g.SlotWidth
	}
}

func TestSlotsPerPiece(t *testing.T) {
	g, err := ComputeGeometry(100, 4, 0.1, 6.35, SelectBoth)
	if err != nil {
		t.Fatal(err)
	}

	a := g.Slots(PieceA, 0)
	if len(a) != 3 {
		t.Fatalf("piece A: expected 3 slots, got %d", len(a))
	}
	if a[0].Start != g.FingerWidth {
		t.Errorf("piece A starts with a finger; first slot at %g", a[0].Start)
	}
	for i, s := range a {
		if math.Abs(s.Width()-g.SlotWidth) > 1e-9 {
			t.Errorf("slot %d width %g", i, s.Width())
		}
	}
	// A ends with a full finger.
	if math.Abs((100-a[2].End)-g.FingerWidth) > 1e-9 {
		t.Errorf("expected trailing finger of %g, got %g", g.FingerWidth, 100-a[2].End)
	}

	b := g.Slots(PieceB, 100)
	if len(b) != 4 {
		t.Fatalf("piece B: expected 4 slots, got %d", len(b))
	}
	if b[0].Start != 100 {
		t.Errorf("offset piece B must start at 100, got %g", b[0].Start)
	}
	if math.Abs(b[1].Start-b[0].Start-g.Pitch()) > 1e-9 {
		t.Errorf("slots must be one pitch apart")
	}
}

func TestFingersComplementSlots(t *testing.T) {
	g, err := ComputeGeometry(100, 4, 0.1, 6.35, SelectBoth)
	if err != nil {
		t.Fatal(err)
	}

	a := g.Fingers(PieceA, 0)
	if len(a) != 4 {
		t.Fatalf("piece A: expected 4 fingers, got %d", len(a))
	}
	if a[0].Start != 0 || a[3].End != 100 {
		t.Errorf("piece A fingers must span the board: %+v", a)
	}

	// Piece B starts with a slot, and its last slot runs past the board edge.
	b := g.Fingers(PieceB, 0)
	if len(b) != 3 {
		t.Fatalf("piece B: expected 3 fingers, got %d", len(b))
	}
	for i, f := range b {
		if math.Abs(f.Width()-g.FingerWidth) > 1e-9 {
			t.Errorf("finger %d width %g, want %g", i, f.Width(), g.FingerWidth)
		}
	}
}

func TestSpan(t *testing.T) {
	s := Span{Start: 10, End: 20}
	if s.Width() != 10 || s.Center() != 15 {
		t.Errorf("unexpected width/center: %g %g", s.Width(), s.Center())
	}
	in := s.Inset(3)
	if in.Start != 13 || in.End != 17 {
		t.Errorf("unexpected inset: %+v", in)
	}
}

func TestJointGeometry_Matches(t *testing.T) {
	p := DefaultParameters()
	g, err := p.Geometry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Matches(p) {
		t.Fatal("geometry should match the parameters it was computed from")
	}

	// Fields outside the layout do not matter.
	other := p
	other.BoardThickness = 12
	other.PieceSelection = SelectBoth
	if !g.Matches(other) {
		t.Error("thickness and piece selection should not affect the match")
	}

	edits := map[string]func(*JointParameters){
		"width":     func(q *JointParameters) { q.BoardWidth = 120 },
		"fingers":   func(q *JointParameters) { q.FingerCount = 5 },
		"tolerance": func(q *JointParameters) { q.FitTolerance = 0.2 },
		"tool":      func(q *JointParameters) { q.ToolDiameter = 20 },
	}
	for name, edit := range edits {
		q := p
		edit(&q)
		if g.Matches(q) {
			t.Errorf("%s: geometry should not match changed parameters", name)
		}
	}
}
