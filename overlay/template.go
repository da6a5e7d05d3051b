package overlay

import (
	"fmt"
	"slices"

	"github.com/lvillar/pdffill"
)

// Paragraph is text placed at an absolute position.
type Paragraph struct {
	Name  string
	Text  string
	X, Y  float64
	Width float64
	Style Style
}

// Batch is a primitive placed at an absolute position. File and Line locate
// the content entry it came from for error reports.
type Batch struct {
	Name      string
	File      string
	Line      int
	Primitive pdffill.Primitive
	X, Y      float64
	Width     float64
}

// PlacedSymbol is a barcode placed at an absolute position.
type PlacedSymbol struct {
	Name   string
	File   string
	Line   int
	Symbol pdffill.Symbol
	X, Y   float64
}

// PageTemplate draws a background page stretched to the output page and the
// registered overlay items on top of it.
type PageTemplate struct {
	bg             *Background
	pageW, pageH   float64
	xscale, yscale float64

	paragraphs []Paragraph
	batches    []Batch
	symbols    []PlacedSymbol
}

// NewPageTemplate wraps bg for an output page of pageW x pageH points.
// The background is stretched independently in x and y to fill the page.
func NewPageTemplate(bg *Background, pageW, pageH float64) (*PageTemplate, error) {
	if bg == nil {
		return nil, fmt.Errorf("overlay: no background page")
	}
	if bg.Width <= 0 || bg.Height <= 0 {
		return nil, fmt.Errorf("overlay: background %s has an empty box", bg.Path)
	}
	if pageW <= 0 || pageH <= 0 {
		return nil, fmt.Errorf("overlay: invalid page size %gx%g", pageW, pageH)
	}
	return &PageTemplate{
		bg:     bg,
		pageW:  pageW,
		pageH:  pageH,
		xscale: pageW / bg.Width,
		yscale: pageH / bg.Height,
	}, nil
}

// Scale returns the factors applied to the background page.
func (t *PageTemplate) Scale() (x, y float64) {
	return t.xscale, t.yscale
}

// PageSize returns the output page size.
func (t *PageTemplate) PageSize() (w, h float64) {
	return t.pageW, t.pageH
}

// Background returns the wrapped background page.
func (t *PageTemplate) Background() *Background {
	return t.bg
}

// AddParagraph registers text to be drawn with its lower-left corner at (x, y).
func (t *PageTemplate) AddParagraph(p Paragraph) {
	t.paragraphs = append(t.paragraphs, p)
}

// AddPrimitive registers a primitive batch anchored at (x, y).
func (t *PageTemplate) AddPrimitive(b Batch) {
	b.Primitive.Points = slices.Clone(b.Primitive.Points)
	t.batches = append(t.batches, b)
}

// AddSymbol registers a barcode with its lower-left corner at (x, y).
func (t *PageTemplate) AddSymbol(s PlacedSymbol) {
	t.symbols = append(t.symbols, s)
}

// Paragraphs returns the registered paragraphs in registration order.
func (t *PageTemplate) Paragraphs() []Paragraph {
	return slices.Clone(t.paragraphs)
}

// Batches returns the registered primitive batches in registration order.
func (t *PageTemplate) Batches() []Batch {
	return slices.Clone(t.batches)
}

// Symbols returns the registered symbols in registration order.
func (t *PageTemplate) Symbols() []PlacedSymbol {
	return slices.Clone(t.symbols)
}

// Render draws one page: the scaled background, then every paragraph, then
// every primitive batch and symbol, each group in registration order.
// Render only reads the template and may run any number of times.
func (t *PageTemplate) Render(c Canvas) error {
	c.SaveState()
	err := c.DrawBackground(t.bg, t.xscale, t.yscale)
	c.RestoreState()
	if err != nil {
		return pdffill.NewError("render", err)
	}

	for _, p := range t.paragraphs {
		drawParagraph(c, p)
	}

	for _, b := range t.batches {
		c.SaveState()
		err := DrawPrimitive(c, b.Primitive, b.X, b.Y, b.Width)
		c.RestoreState()
		if err != nil {
			return &pdffill.ConfigError{File: b.File, Line: b.Line, Name: b.Name, Err: err}
		}
	}

	for _, s := range t.symbols {
		w, h := s.Symbol.Size()
		c.SaveState()
		err := c.Symbol(s.Symbol, s.X, s.Y, w, h)
		c.RestoreState()
		if err != nil {
			return &pdffill.ConfigError{File: s.File, Line: s.Line, Name: s.Name, Err: err}
		}
	}
	return nil
}
