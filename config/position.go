package config

import (
	"io"
	"strconv"
	"strings"

	"github.com/lvillar/pdffill"
)

// PositionDefaults fill the optional fields of a position entry.
type PositionDefaults struct {
	Width float64 // usually the output page width
	Style string
}

// ParsePosition parses "x,y[,width[,style]]".
func ParsePosition(raw string, d PositionDefaults) (pdffill.Position, error) {
	fields := strings.Split(raw, ",")
	if len(fields) < 2 {
		return pdffill.Position{}, pdffill.Valuef("at least x, y expected")
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if errX != nil || errY != nil {
		return pdffill.Position{}, pdffill.Valuef("x, y must be numbers, got %q", strings.TrimSpace(raw))
	}

	pos := pdffill.Position{X: x, Y: y, Width: d.Width, Style: d.Style}
	if pos.Style == "" {
		pos.Style = pdffill.DefaultStyle
	}
	if len(fields) >= 3 {
		if w := strings.TrimSpace(fields[2]); w != "" {
			width, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return pdffill.Position{}, pdffill.Valuef("width must be a number, got %q", w)
			}
			pos.Width = width
		}
	}
	if len(fields) >= 4 {
		if s := strings.TrimSpace(fields[3]); s != "" {
			pos.Style = s
		}
	}
	return pos, nil
}

func positionParser(d PositionDefaults) ParseFunc[pdffill.Position] {
	return func(raw string) (pdffill.Position, error) {
		return ParsePosition(raw, d)
	}
}

// ReadPositions reads a position table from the named file.
// Positions cannot be continued across lines.
func ReadPositions(path string, d PositionDefaults) (*Table[pdffill.Position], error) {
	return ReadFile(path, positionParser(d), nil)
}

// ReadPositionsFrom reads a position table from r.
func ReadPositionsFrom(r io.Reader, name string, d PositionDefaults) (*Table[pdffill.Position], error) {
	return Read(r, name, positionParser(d), nil)
}
