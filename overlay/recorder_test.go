package overlay

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lvillar/pdffill"
)

// recorder is a Canvas that logs every call. Every rune is half the font
// size wide.
type recorder struct {
	ops   []string
	depth int
	bgErr error
}

func (r *recorder) log(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) SaveState() {
	r.depth++
	r.log("save")
}

func (r *recorder) RestoreState() {
	r.depth--
	r.log("restore")
}

func (r *recorder) DrawBackground(bg *Background, xscale, yscale float64) error {
	if r.bgErr != nil {
		return r.bgErr
	}
	r.log("background %s %g %g", bg.Path, xscale, yscale)
	return nil
}

func (r *recorder) SetLineWidth(w float64) { r.log("width %g", w) }

func (r *recorder) Line(x1, y1, x2, y2 float64) { r.log("line %g %g %g %g", x1, y1, x2, y2) }

func (r *recorder) Rect(x, y, w, h float64) { r.log("rect %g %g %g %g", x, y, w, h) }

func (r *recorder) Ellipse(x1, y1, x2, y2 float64) { r.log("ellipse %g %g %g %g", x1, y1, x2, y2) }

func (r *recorder) StringWidth(s string, st Style) float64 {
	return float64(utf8.RuneCountInString(s)) * st.Size / 2
}

func (r *recorder) Text(s string, x, baseline float64, st Style) {
	r.log("text %q %g %g %s", s, x, baseline, st.Name)
}

func (r *recorder) Symbol(sym pdffill.Symbol, x, y, w, h float64) error {
	r.log("symbol %s %s %g %g %g %g", sym.Kind, sym.Payload, x, y, w, h)
	return nil
}

// drawing returns the logged calls without state bracketing.
func (r *recorder) drawing() []string {
	var out []string
	for _, op := range r.ops {
		if op != "save" && op != "restore" {
			out = append(out, op)
		}
	}
	return out
}

func (r *recorder) String() string {
	return strings.Join(r.ops, "\n")
}

func formatG(v float64) string {
	return fmt.Sprintf("%g", v)
}
