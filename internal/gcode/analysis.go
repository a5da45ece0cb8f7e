package gcode

import (
	"math"
	"time"
)

// Bounds is an axis-aligned box in work coordinates.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Stats summarises a parsed toolpath.
type Stats struct {
	Moves       int
	FeedMoves   int
	Plunges     int // Z-only moves downward, rapid or feed
	CutLength   float64 // mm travelled at feed rate
	RapidLength float64 // mm travelled at rapid rate
	CutBounds   Bounds  // extent of feed moves
	Time        time.Duration
}

// Analyze walks the parsed moves and estimates travel and cycle time.
// Feed moves use their programmed feed rate, rapids use rapidRate (mm/min).
// Machine-coordinate moves are counted but not measured, since their
// distance depends on the work offset. Dwells are not included.
func Analyze(moves []GCodeMove, rapidRate float64) Stats {
	var s Stats
	var minutes float64
	first := true

	for _, m := range moves {
		s.Moves++
		if m.Machine {
			continue
		}
		dist := distance(m)
		if m.ToZ < m.FromZ && m.ToX == m.FromX && m.ToY == m.FromY {
			s.Plunges++
		}

		if m.Rapid {
			s.RapidLength += dist
			if rapidRate > 0 {
				minutes += dist / rapidRate
			}
			continue
		}

		s.FeedMoves++
		s.CutLength += dist
		if m.FeedRate > 0 {
			minutes += dist / m.FeedRate
		}

		if first {
			s.CutBounds = Bounds{
				MinX: math.Min(m.FromX, m.ToX), MaxX: math.Max(m.FromX, m.ToX),
				MinY: math.Min(m.FromY, m.ToY), MaxY: math.Max(m.FromY, m.ToY),
				MinZ: math.Min(m.FromZ, m.ToZ), MaxZ: math.Max(m.FromZ, m.ToZ),
			}
			first = false
			continue
		}
		s.CutBounds.include(m.FromX, m.FromY, m.FromZ)
		s.CutBounds.include(m.ToX, m.ToY, m.ToZ)
	}

	s.Time = time.Duration(minutes * float64(time.Minute))
	return s
}

func (b *Bounds) include(x, y, z float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
	b.MinZ = math.Min(b.MinZ, z)
	b.MaxZ = math.Max(b.MaxZ, z)
}

func distance(m GCodeMove) float64 {
	dx := m.ToX - m.FromX
	dy := m.ToY - m.FromY
	dz := m.ToZ - m.FromZ
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
