package overlay

import (
	"fmt"
	"math"

	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	pdfbarcode "github.com/jung-kurt/gofpdf/contrib/barcode"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lvillar/pdffill"
)

// DefaultLineWidth is the stroke width in effect before any primitive sets one.
const DefaultLineWidth = 1.0

// unicodeFonts holds the embedded faces by family and font style.
var unicodeFonts = map[string]map[string][]byte{
	FontGo: {
		"":   goregular.TTF,
		"B":  gobold.TTF,
		"I":  goitalic.TTF,
		"BI": gobolditalic.TTF,
	},
	FontGoMono: {
		"":   gomono.TTF,
		"B":  gomonobold.TTF,
		"I":  gomonoitalic.TTF,
		"BI": gomonobolditalic.TTF,
	},
}

// PDFCanvas draws onto a gofpdf document whose unit is the point.
// It converts the bottom-left origin used by templates to the top-left
// origin used by gofpdf.
type PDFCanvas struct {
	pdf        *gofpdf.Fpdf
	pageH      float64
	imp        *gofpdi.Importer
	templates  map[string]int // background path to imported template id
	tr         func(string) string
	fonts      map[string]bool // registered Unicode faces
	lineWidth  float64
	lineWidths []float64 // saved by SaveState
}

// NewPDFCanvas returns a canvas for pdf. The document must use points.
func NewPDFCanvas(pdf *gofpdf.Fpdf) *PDFCanvas {
	_, h := pdf.GetPageSize()
	c := &PDFCanvas{
		pdf:       pdf,
		pageH:     h,
		imp:       gofpdi.NewImporter(),
		templates: make(map[string]int),
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		fonts:     make(map[string]bool),
		lineWidth: DefaultLineWidth,
	}
	pdf.SetLineWidth(DefaultLineWidth)
	return c
}

// Import makes the first page of bg available to DrawBackground.
// Call it before the first page is added.
func (c *PDFCanvas) Import(bg *Background) (err error) {
	if _, ok := c.templates[bg.Path]; ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("overlay: importing %s: %v", bg.Path, r)
		}
	}()
	id := c.imp.ImportPage(c.pdf, bg.Path, 1, "/MediaBox")
	if c.pdf.Err() {
		return fmt.Errorf("overlay: importing %s: %w", bg.Path, c.pdf.Error())
	}
	c.templates[bg.Path] = id
	return nil
}

func (c *PDFCanvas) y(y float64) float64 {
	return c.pageH - y
}

func (c *PDFCanvas) SaveState() {
	c.pdf.TransformBegin()
	c.lineWidths = append(c.lineWidths, c.lineWidth)
}

func (c *PDFCanvas) RestoreState() {
	c.pdf.TransformEnd()
	if n := len(c.lineWidths); n > 0 {
		c.SetLineWidth(c.lineWidths[n-1])
		c.lineWidths = c.lineWidths[:n-1]
	}
}

func (c *PDFCanvas) DrawBackground(bg *Background, xscale, yscale float64) error {
	if err := c.Import(bg); err != nil {
		return err
	}
	w, h := bg.Width*xscale, bg.Height*yscale
	c.imp.UseImportedTemplate(c.pdf, c.templates[bg.Path], 0, c.y(h), w, h)
	return nil
}

func (c *PDFCanvas) SetLineWidth(w float64) {
	c.lineWidth = w
	c.pdf.SetLineWidth(w)
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.y(y1), x2, c.y(y2))
}

func (c *PDFCanvas) Rect(x, y, w, h float64) {
	c.pdf.Rect(x, c.y(y+h), w, h, "D")
}

func (c *PDFCanvas) Ellipse(x1, y1, x2, y2 float64) {
	cx, cy := (x1+x2)/2, (y1+y2)/2
	c.pdf.Ellipse(cx, c.y(cy), math.Abs(x2-x1)/2, math.Abs(y2-y1)/2, 0, "D")
}

// setFont selects st, registering embedded faces on first use.
func (c *PDFCanvas) setFont(st Style) {
	if faces, ok := unicodeFonts[st.Font]; ok {
		key := st.Font + st.FontStyle
		if !c.fonts[key] {
			c.pdf.AddUTF8FontFromBytes(st.Font, st.FontStyle, faces[st.FontStyle])
			c.fonts[key] = true
		}
	}
	c.pdf.SetFont(st.Font, st.FontStyle, st.Size)
}

// encode converts s for the font of st. Core fonts use cp1252.
func (c *PDFCanvas) encode(s string, st Style) string {
	if st.Unicode() {
		return s
	}
	return c.tr(s)
}

func (c *PDFCanvas) StringWidth(s string, st Style) float64 {
	c.setFont(st)
	return c.pdf.GetStringWidth(c.encode(s, st))
}

func (c *PDFCanvas) Text(s string, x, baseline float64, st Style) {
	c.setFont(st)
	c.pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
	c.pdf.Text(x, c.y(baseline), c.encode(s, st))
}

func (c *PDFCanvas) Symbol(sym pdffill.Symbol, x, y, w, h float64) error {
	key, err := c.registerSymbol(sym)
	if err != nil {
		return err
	}
	pdfbarcode.Barcode(c.pdf, key, x, c.y(y+h), w, h, false)
	if c.pdf.Err() {
		return fmt.Errorf("overlay: drawing %s: %w", sym.Kind, c.pdf.Error())
	}
	return nil
}

func (c *PDFCanvas) registerSymbol(sym pdffill.Symbol) (string, error) {
	switch sym.Kind {
	case pdffill.SymbolQR:
		bc, err := qr.Encode(sym.Payload, qrLevel(sym.Attrs.String("level")), qr.Auto)
		if err != nil {
			return "", pdffill.Valuef("qrcode: %v", err)
		}
		return pdfbarcode.Register(bc), nil
	case pdffill.SymbolCode128:
		bc, err := code128.Encode(sym.Payload)
		if err != nil {
			return "", pdffill.Valuef("code128: %v", err)
		}
		return pdfbarcode.Register(bc), nil
	case pdffill.SymbolPDF417:
		columns := intAttr(sym.Attrs, "columns", 6)
		security := intAttr(sym.Attrs, "security", 2)
		return pdfbarcode.RegisterPdf417(c.pdf, sym.Payload, columns, security), nil
	}
	return "", pdffill.Valuef("unknown symbology %q", sym.Kind)
}

func qrLevel(s string) qr.ErrorCorrectionLevel {
	switch s {
	case "L":
		return qr.L
	case "Q":
		return qr.Q
	case "H":
		return qr.H
	}
	return qr.M
}

func intAttr(a pdffill.Attrs, key string, def int) int {
	if v, ok := a.Float(key); ok && v >= 1 {
		return int(v)
	}
	return def
}
