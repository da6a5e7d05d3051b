// Package overlay draws a scaled background page plus absolutely positioned
// paragraphs, primitives and symbols.
//
// A PageTemplate collects placed items and replays them onto a Canvas for
// every page-render event. Rendering never changes the template, so a
// template can be rendered any number of times with identical results.
//
// All coordinates are PDF points, origin bottom-left, y up.
package overlay

import "github.com/lvillar/pdffill"

// Canvas is the drawing surface a PageTemplate renders onto.
type Canvas interface {
	// SaveState and RestoreState bracket changes to the graphics state.
	SaveState()
	RestoreState()

	// DrawBackground draws the first page of bg from the origin,
	// scaled by xscale and yscale.
	DrawBackground(bg *Background, xscale, yscale float64) error

	SetLineWidth(w float64)
	Line(x1, y1, x2, y2 float64)
	// Rect draws a rectangle with lower-left corner (x, y).
	Rect(x, y, w, h float64)
	// Ellipse draws the ellipse inscribed in the box with corners
	// (x1, y1) and (x2, y2).
	Ellipse(x1, y1, x2, y2 float64)

	// StringWidth measures s in style st.
	StringWidth(s string, st Style) float64
	// Text draws s with its baseline starting at (x, baseline).
	Text(s string, x, baseline float64, st Style)

	// Symbol draws a barcode with lower-left corner (x, y) and size w x h.
	Symbol(sym pdffill.Symbol, x, y, w, h float64) error
}
