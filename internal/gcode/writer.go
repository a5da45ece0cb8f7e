package gcode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Number formatting for emitted words.
const (
	coordDecimals = 3
	feedDecimals  = 1
)

// Line renders a single record as one line of G-code.
func (r Record) Line() string {
	switch r.Kind {
	case KindComment:
		return "(" + sanitizeComment(r.Text) + ")"
	case KindMode:
		return r.Text
	case KindCoolantOn:
		if r.Coolant == CoolantFlood {
			return "M8"
		}
		return "M7"
	case KindCoolantOff:
		return "M9"
	case KindSpindleOn:
		return fmt.Sprintf("M3 S%d", r.Speed)
	case KindSpindleOff:
		return "M5"
	case KindDwell:
		return "G4 P" + strconv.FormatFloat(r.Seconds, 'f', -1, 64)
	case KindRapid:
		return moveLine("G0", r.Target)
	case KindFeed:
		return moveLine("G1", r.Target)
	case KindProgramEnd:
		return "M30"
	}
	return ""
}

func moveLine(word string, t Target) string {
	var b strings.Builder
	if t.Machine {
		b.WriteString("G53 ")
	}
	b.WriteString(word)
	for a := AxisX; a <= AxisZ; a++ {
		if v, ok := t.Get(a); ok {
			b.WriteString(" ")
			b.WriteString(a.String())
			b.WriteString(FormatCoord(v))
		}
	}
	if t.Feed > 0 {
		b.WriteString(" F")
		b.WriteString(FormatFeed(t.Feed))
	}
	return b.String()
}

// sanitizeComment keeps nested parentheses from ending the comment early.
func sanitizeComment(s string) string {
	return strings.NewReplacer("(", "[", ")", "]", "\n", " ").Replace(s)
}

// FormatCoord formats a linear coordinate with fixed precision.
func FormatCoord(v float64) string {
	return formatFixed(v, coordDecimals)
}

// FormatFeed formats a feed rate with fixed precision.
func FormatFeed(v float64) string {
	return formatFixed(v, feedDecimals)
}

func formatFixed(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	// Values that round to zero from below print as "-0.000".
	if strings.TrimLeft(s, "-0.") == "" && strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	return s
}

// Lines renders every record.
func (p *Program) Lines() []string {
	lines := make([]string, len(p.Records))
	for i, r := range p.Records {
		lines[i] = r.Line()
	}
	return lines
}

// String renders the program as newline-joined G-code.
func (p *Program) String() string {
	return strings.Join(p.Lines(), "\n")
}

// WriteTo writes the program followed by a trailing newline.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String()+"\n")
	return int64(n), err
}
