// Package compose joins position and content tables and builds the filled
// document.
//
// A run reads the position file, the content file and the template, places
// every content item at the position of the same name on an overlay page
// template, and renders that template twice: once into a scratch document to
// surface drawing errors, then into the real output.
//
//	c, err := compose.New(compose.WithPageSize("A4"))
//	if err != nil {
//	    return err
//	}
//	pages, err := c.FillFiles("tpl.dat", "tpl.pos", "tpl.pdf", "out.pdf")
package compose

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/pdffill"
	"github.com/lvillar/pdffill/config"
	"github.com/lvillar/pdffill/overlay"
)

// DefaultPageSize is the output page size used when none is configured.
const DefaultPageSize = "A4"

// Composer fills templates. It holds no state between runs and may be reused.
type Composer struct {
	pageW, pageH float64
	styles       *overlay.StyleSheet
	defaultStyle string
	expander     *config.Expander
	log          *slog.Logger
}

// New returns a Composer configured by opts.
// If no options are given, output pages are A4 with the built-in styles.
func New(opts ...Option) (*Composer, error) {
	cfg := &composerConfig{
		pageSize:     DefaultPageSize,
		defaultStyle: pdffill.DefaultStyle,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	w, h := cfg.custom[0], cfg.custom[1]
	if w == 0 && h == 0 {
		var err error
		if w, h, err = PageSize(cfg.pageSize); err != nil {
			return nil, err
		}
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("compose: invalid page size %gx%g", w, h)
	}

	c := &Composer{
		pageW:        w,
		pageH:        h,
		styles:       cfg.styles,
		defaultStyle: cfg.defaultStyle,
		expander:     config.NewExpander(cfg.now),
		log:          cfg.logger,
	}
	if c.styles == nil {
		c.styles = overlay.DefaultStyleSheet()
	}
	if _, ok := c.styles.Get(c.defaultStyle); !ok {
		return nil, fmt.Errorf("compose: default style %q is not defined", c.defaultStyle)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// PageSize returns the size in points of a named page format.
func PageSize(name string) (w, h float64, err error) {
	pdf := gofpdf.New("P", "pt", DefaultPageSize, "")
	size := pdf.GetPageSizeStr(name)
	if pdf.Err() || size.Wd <= 0 || size.Ht <= 0 {
		return 0, 0, fmt.Errorf("compose: unknown page size %q", name)
	}
	return size.Wd, size.Ht, nil
}

// PageSize returns the output page size in points.
func (c *Composer) PageSize() (w, h float64) {
	return c.pageW, c.pageH
}

// PositionDefaults returns the values used for omitted position fields:
// the page width and the default style.
func (c *Composer) PositionDefaults() config.PositionDefaults {
	return config.PositionDefaults{Width: c.pageW, Style: c.defaultStyle}
}

// Expander returns the dynamic token expander used for content files.
func (c *Composer) Expander() *config.Expander {
	return c.expander
}

// Styles returns the style sheet positions refer to.
func (c *Composer) Styles() *overlay.StyleSheet {
	return c.styles
}

// Annotation reports whether name is a free-form annotation that takes no
// part in composition.
func Annotation(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Compose places every content item at the position of the same name on a
// new page template over bg. Items are registered in content file order.
// It fails on the first content item without a position.
func (c *Composer) Compose(bg *overlay.Background, positions *config.Table[pdffill.Position], contents *config.Table[pdffill.Content]) (*overlay.PageTemplate, error) {
	tpl, err := overlay.NewPageTemplate(bg, c.pageW, c.pageH)
	if err != nil {
		return nil, pdffill.NewError("compose", err)
	}
	for name, content := range contents.All() {
		if Annotation(name) {
			continue
		}
		if err := c.place(tpl, name, content, positions, contents); err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

// Check joins the tables like Compose without rendering and returns every
// join error, in content file order.
func (c *Composer) Check(positions *config.Table[pdffill.Position], contents *config.Table[pdffill.Content]) []error {
	tpl, err := overlay.NewPageTemplate(overlay.NewBackground("", c.pageW, c.pageH), c.pageW, c.pageH)
	if err != nil {
		return []error{err}
	}
	var errs []error
	for name, content := range contents.All() {
		if Annotation(name) {
			continue
		}
		if err := c.place(tpl, name, content, positions, contents); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Composer) place(tpl *overlay.PageTemplate, name string, content pdffill.Content, positions *config.Table[pdffill.Position], contents *config.Table[pdffill.Content]) error {
	locate := func(err error) error {
		return &pdffill.ConfigError{File: contents.File, Line: contents.Line(name), Name: name, Err: err}
	}
	pos, ok := positions.Get(name)
	if !ok {
		return locate(pdffill.ErrReference)
	}

	switch v := content.(type) {
	case pdffill.Text:
		st, ok := c.styles.Get(pos.Style)
		if !ok {
			return &pdffill.ConfigError{
				File: positions.File,
				Line: positions.Line(name),
				Name: name,
				Err:  pdffill.Valuef("position %s uses unknown style %q", name, pos.Style),
			}
		}
		tpl.AddParagraph(overlay.Paragraph{Name: name, Text: string(v), X: pos.X, Y: pos.Y, Width: pos.Width, Style: st})
		c.log.Debug("placed paragraph", "name", name, "x", pos.X, "y", pos.Y, "style", st.Name)
	case pdffill.Primitive:
		tpl.AddPrimitive(overlay.Batch{
			Name: name, File: contents.File, Line: contents.Line(name),
			Primitive: v, X: pos.X, Y: pos.Y, Width: pos.Width,
		})
		c.log.Debug("placed primitive", "name", name, "kind", v.Kind, "points", len(v.Points))
	case pdffill.Symbol:
		tpl.AddSymbol(overlay.PlacedSymbol{
			Name: name, File: contents.File, Line: contents.Line(name),
			Symbol: v, X: pos.X, Y: pos.Y,
		})
		c.log.Debug("placed symbol", "name", name, "kind", v.Kind)
	default:
		return locate(pdffill.Valuef("unexpected content %T", content))
	}
	return nil
}

// Build renders tpl and writes the document to w. The template is rendered
// into a scratch document first; w is written only if both passes succeed.
// It returns the number of pages written.
func (c *Composer) Build(w io.Writer, tpl *overlay.PageTemplate) (int, error) {
	if _, err := c.render(io.Discard, tpl); err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	pages, err := c.render(&buf, tpl)
	if err != nil {
		return 0, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return 0, pdffill.NewError("build", err)
	}
	c.log.Info("built document", "pages", pages, "background", tpl.Background().Path)
	return pages, nil
}

// render runs one pass. Each page is drawn from the header callback, so a
// drawing error is stored as the document error and returned by Output.
func (c *Composer) render(w io.Writer, tpl *overlay.PageTemplate) (int, error) {
	pageW, pageH := tpl.PageSize()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("pdffill", true)

	canvas := overlay.NewPDFCanvas(pdf)
	if err := canvas.Import(tpl.Background()); err != nil {
		return 0, pdffill.NewError("background", err)
	}
	pages := 0
	pdf.SetHeaderFunc(func() {
		pages++
		if err := tpl.Render(canvas); err != nil {
			pdf.SetError(err)
		}
	})
	pdf.AddPage()
	if err := pdf.Output(w); err != nil {
		return 0, pdffill.NewError("build", err)
	}
	return pages, nil
}

// Fill composes and builds in one step.
func (c *Composer) Fill(w io.Writer, bg *overlay.Background, positions *config.Table[pdffill.Position], contents *config.Table[pdffill.Content]) (int, error) {
	tpl, err := c.Compose(bg, positions, contents)
	if err != nil {
		return 0, err
	}
	return c.Build(w, tpl)
}

// FillFiles fills the template at templatePath with the content file and
// position file and writes the result to outputPath. The output file is
// created only after the document has been built.
func (c *Composer) FillFiles(contentPath, positionPath, templatePath, outputPath string) (int, error) {
	bg, err := overlay.OpenBackground(templatePath)
	if err != nil {
		return 0, pdffill.NewError("background", err)
	}
	if bg.Pages > 1 {
		c.log.Debug("using first template page only", "template", templatePath, "pages", bg.Pages)
	}
	positions, err := config.ReadPositions(positionPath, c.PositionDefaults())
	if err != nil {
		return 0, err
	}
	contents, err := config.ReadContents(contentPath, c.expander)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	pages, err := c.Fill(&buf, bg, positions, contents)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return 0, pdffill.NewError("build", err)
	}
	return pages, nil
}
