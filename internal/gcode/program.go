package gcode

import (
	"fmt"
	"strings"
)

// RecordKind is the kind of a single program line.
type RecordKind int

const (
	KindComment    RecordKind = iota // (text)
	KindMode                         // Modal setting word such as G21 or G90
	KindCoolantOn                    // M7 / M8
	KindCoolantOff                   // M9
	KindSpindleOn                    // M3 S<rpm>
	KindSpindleOff                   // M5
	KindDwell                        // G4 P<seconds>
	KindRapid                        // G0
	KindFeed                         // G1
	KindProgramEnd                   // M30
)

func (k RecordKind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindMode:
		return "mode"
	case KindCoolantOn:
		return "coolant-on"
	case KindCoolantOff:
		return "coolant-off"
	case KindSpindleOn:
		return "spindle-on"
	case KindSpindleOff:
		return "spindle-off"
	case KindDwell:
		return "dwell"
	case KindRapid:
		return "rapid"
	case KindFeed:
		return "feed"
	case KindProgramEnd:
		return "end"
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}

// Coolant selects the coolant type switched on by a record.
type Coolant int

const (
	CoolantMist  Coolant = iota // M7
	CoolantFlood                // M8
)

// Axis is a linear machine axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"X", "Y", "Z"}[a]
}

// Target is the destination of a move. Only axes marked in Has are
// written; the others keep their modal position.
type Target struct {
	Pos     [3]float64
	Has     [3]bool
	Feed    float64 // mm/min, 0 keeps the modal feed rate
	Machine bool    // G53: coordinates are machine, not work, coordinates
}

// With returns a copy of t that also moves axis a to v.
func (t Target) With(a Axis, v float64) Target {
	t.Pos[a] = v
	t.Has[a] = true
	return t
}

// Get returns the target value of axis a and whether it is set.
func (t Target) Get(a Axis) (float64, bool) {
	return t.Pos[a], t.Has[a]
}

// To is shorthand for a target on a single axis.
func To(a Axis, v float64) Target {
	return Target{}.With(a, v)
}

// Record is one line of a motion program.
type Record struct {
	Kind    RecordKind
	Text    string  // Comment text or mode word
	Coolant Coolant // KindCoolantOn
	Speed   int     // KindSpindleOn, RPM
	Seconds float64 // KindDwell
	Target  Target  // KindRapid, KindFeed
}

// Program is a flat, append-only list of records.
type Program struct {
	Records []Record
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

func (p *Program) add(r Record) {
	p.Records = append(p.Records, r)
}

// Comment appends a formatted comment line.
func (p *Program) Comment(format string, args ...any) {
	p.add(Record{Kind: KindComment, Text: fmt.Sprintf(format, args...)})
}

// Mode appends a modal setting word.
func (p *Program) Mode(word string) {
	p.add(Record{Kind: KindMode, Text: word})
}

func (p *Program) CoolantOn(c Coolant) {
	p.add(Record{Kind: KindCoolantOn, Coolant: c})
}

func (p *Program) CoolantOff() {
	p.add(Record{Kind: KindCoolantOff})
}

func (p *Program) SpindleOn(rpm int) {
	p.add(Record{Kind: KindSpindleOn, Speed: rpm})
}

func (p *Program) SpindleOff() {
	p.add(Record{Kind: KindSpindleOff})
}

func (p *Program) Dwell(seconds float64) {
	p.add(Record{Kind: KindDwell, Seconds: seconds})
}

// Rapid appends a G0 move.
func (p *Program) Rapid(t Target) {
	p.add(Record{Kind: KindRapid, Target: t})
}

// Feed appends a G1 move.
func (p *Program) Feed(t Target) {
	p.add(Record{Kind: KindFeed, Target: t})
}

func (p *Program) End() {
	p.add(Record{Kind: KindProgramEnd})
}

// Count returns how many records of kind k the program holds.
func (p *Program) Count(k RecordKind) int {
	n := 0
	for _, r := range p.Records {
		if r.Kind == k {
			n++
		}
	}
	return n
}

// Comments returns the text of every comment record whose text has the
// given prefix.
func (p *Program) Comments(prefix string) []string {
	var out []string
	for _, r := range p.Records {
		if r.Kind == KindComment && strings.HasPrefix(r.Text, prefix) {
			out = append(out, r.Text)
		}
	}
	return out
}
