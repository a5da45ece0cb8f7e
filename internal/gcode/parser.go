package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
)

func (t MoveType) String() string {
	switch t {
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	default:
		return "rapid"
	}
}

// GCodeMove represents a single parsed movement from GCode.
type GCodeMove struct {
	Type     MoveType
	Line     int  // 1-based source line
	Rapid    bool // Issued as G0
	Machine  bool // G53 machine-coordinate move
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// ParseGCode parses a GCode string into a slice of structured moves.
// It tracks absolute position state and classifies each G0/G1 command
// by its movement characteristics (rapid, feed, plunge, retract).
// G53 moves are reported with Machine set and their written machine
// coordinates as To. They leave the tracked work position unchanged,
// since the work offset is unknown; the next work move starts from the
// last work position.
func ParseGCode(code string) []GCodeMove {
	var moves []GCodeMove

	// Current machine state
	curX, curY, curZ := 0.0, 0.0, 0.0
	curFeed := 0.0

	for i, line := range strings.Split(code, "\n") {
		line = stripComments(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		isRapid, isFeed, isMachine := false, false, false
		for _, word := range strings.Fields(upper) {
			switch word {
			case "G0", "G00":
				isRapid = true
			case "G1", "G01":
				isFeed = true
			case "G53":
				isMachine = true
			}
		}
		if !isRapid && !isFeed {
			continue
		}

		// Parse coordinates from this line
		newX, newY, newZ, newFeed := curX, curY, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "Z":
				newZ = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, GCodeMove{
			Type:     classifyMove(isRapid, curZ, newZ, curX, curY, newX, newY),
			Line:     i + 1,
			Rapid:    isRapid,
			Machine:  isMachine,
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			FeedRate: newFeed,
		})

		curFeed = newFeed
		if !isMachine {
			curX, curY, curZ = newX, newY, newZ
		}
	}

	return moves
}

// stripComments removes semicolon and parenthetical comments.
func stripComments(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		// Z going down (more negative) without XY movement = plunge
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		// Z going up without XY movement = retract
		return MoveRetract
	default:
		return MoveFeed
	}
}
