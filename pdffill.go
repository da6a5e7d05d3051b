// Package pdffill overlays dynamically supplied text and vector primitives
// onto a fixed background PDF page at absolute, pre-registered coordinates.
//
// A fill run reads two line-oriented tables: positions (name = x,y[,width[,style]])
// and contents (name = text, or name = <kind attr=val>p0,p1,p2,p3,...</kind>).
// Contents are joined with positions by name and drawn over the first page of
// a template document, stretched to the output page size.
//
// The root package holds the data model and the error taxonomy shared by the
// config, overlay and compose packages.
//
// Coordinates are PDF points with the origin in the lower-left corner of the
// page and y growing upwards.
package pdffill

import (
	"strconv"
	"strings"
)

// DefaultStyle is the paragraph style used when a position names none.
const DefaultStyle = "Normal"

// Position is a named absolute anchor on the output page.
type Position struct {
	X, Y  float64
	Width float64 // layout width for paragraphs
	Style string  // paragraph style name
}

// Content is a named payload placed at the position of the same name.
// It is one of Text, Primitive or Symbol.
type Content interface {
	content()
}

// Text is paragraph content. Dynamic tokens are already expanded.
type Text string

func (Text) content() {}

// Kind identifies a primitive drawing directive.
type Kind string

// Supported primitive kinds.
const (
	KindLine    Kind = "line"
	KindBox     Kind = "box"
	KindEllipse Kind = "ellipse"
)

// Kinds lists the supported primitive kinds.
var Kinds = []Kind{KindLine, KindBox, KindEllipse}

// Known reports whether k is a supported primitive kind.
func (k Kind) Known() bool {
	switch k {
	case KindLine, KindBox, KindEllipse:
		return true
	}
	return false
}

// Attrs holds tag attributes. Numeric attributes hold float64 values,
// all others hold strings.
type Attrs map[string]any

// Float returns the numeric value of key.
func (a Attrs) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String returns the value of key as text, or "" if it is not set.
func (a Attrs) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}

// Primitive is a batch of shapes of one kind. Every group of four points is
// one shape: two end points for a line, lower-left corner plus extents for a
// box, two bounding corners for an ellipse.
type Primitive struct {
	Kind   Kind
	Attrs  Attrs
	Points []float64
}

func (Primitive) content() {}

// LineWidth returns the stroke width set by the "width" attribute.
func (p Primitive) LineWidth() (float64, bool) {
	return p.Attrs.Float("width")
}

// SymbolKind identifies a barcode symbology.
type SymbolKind string

// Supported symbologies.
const (
	SymbolQR      SymbolKind = "qrcode"
	SymbolCode128 SymbolKind = "code128"
	SymbolPDF417  SymbolKind = "pdf417"
)

// SymbolKinds lists the supported symbologies.
var SymbolKinds = []SymbolKind{SymbolQR, SymbolCode128, SymbolPDF417}

// Known reports whether k is a supported symbology.
func (k SymbolKind) Known() bool {
	switch k {
	case SymbolQR, SymbolCode128, SymbolPDF417:
		return true
	}
	return false
}

// DefaultSymbolSize is the symbol width when no "size" attribute is given.
const DefaultSymbolSize = 50

// Symbol is barcode content, drawn with its lower-left corner at the position.
type Symbol struct {
	Kind    SymbolKind
	Attrs   Attrs
	Payload string
}

func (Symbol) content() {}

// Size returns the drawn width and height of the symbol.
func (s Symbol) Size() (w, h float64) {
	w = DefaultSymbolSize
	if v, ok := s.Attrs.Float("size"); ok && v > 0 {
		w = v
	}
	if v, ok := s.Attrs.Float("height"); ok && v > 0 {
		return w, v
	}
	if s.Kind == SymbolQR {
		return w, w
	}
	return w, w / 3
}
