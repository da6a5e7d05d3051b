package overlay

import (
	"fmt"

	"github.com/lvillar/pdffill"
)

// shapeFunc draws one group of four points relative to the anchor (x, y).
type shapeFunc func(c Canvas, x, y float64, q []float64)

func drawLine(c Canvas, x, y float64, q []float64) {
	c.Line(x+q[0], y+q[1], x+q[2], y+q[3])
}

func drawBox(c Canvas, x, y float64, q []float64) {
	c.Rect(x+q[0], y+q[1], q[2], q[3])
}

func drawEllipse(c Canvas, x, y float64, q []float64) {
	c.Ellipse(x+q[0], y+q[1], x+q[2], y+q[3])
}

func shapeOf(k pdffill.Kind) (shapeFunc, bool) {
	switch k {
	case pdffill.KindLine:
		return drawLine, true
	case pdffill.KindBox:
		return drawBox, true
	case pdffill.KindEllipse:
		return drawEllipse, true
	}
	return nil, false
}

// DrawPrimitive draws every shape of p anchored at (x, y). width is the
// declared layout width of the position; shapes carry their own extents.
func DrawPrimitive(c Canvas, p pdffill.Primitive, x, y, width float64) error {
	draw, ok := shapeOf(p.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", pdffill.ErrUnsupportedPrimitive, p.Kind)
	}
	if len(p.Points)%4 != 0 {
		return pdffill.Valuef("%s: %d points, must be a multiple of 4", p.Kind, len(p.Points))
	}
	if w, ok := p.LineWidth(); ok {
		c.SetLineWidth(w)
	}
	for i := 0; i < len(p.Points); i += 4 {
		draw(c, x, y, p.Points[i:i+4])
	}
	return nil
}
