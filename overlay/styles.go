package overlay

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Font families understood by the PDF canvas. FontGo and FontGoMono are
// embedded Unicode fonts; the others are the standard PDF core fonts.
const (
	FontHelvetica = "helvetica"
	FontTimes     = "times"
	FontCourier   = "courier"
	FontGo        = "go"
	FontGoMono    = "gomono"
)

// Color is an RGB color.
type Color struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Style describes how paragraph text is set.
type Style struct {
	Name      string
	Font      string  // font family
	FontStyle string  // "", "B", "I" or "BI"
	Size      float64 // font size in points
	Leading   float64 // baseline to baseline distance
	Align     string  // "L", "C" or "R"
	Color     Color
}

// Unicode reports whether the style uses an embedded Unicode font.
func (s Style) Unicode() bool {
	return s.Font == FontGo || s.Font == FontGoMono
}

func (s Style) validate() error {
	switch s.Font {
	case FontHelvetica, FontTimes, FontCourier, FontGo, FontGoMono:
	default:
		return fmt.Errorf("style %s: unknown font %q", s.Name, s.Font)
	}
	switch s.FontStyle {
	case "", "B", "I", "BI":
	default:
		return fmt.Errorf("style %s: font style must be one of \"\", B, I, BI, got %q", s.Name, s.FontStyle)
	}
	switch s.Align {
	case "L", "C", "R":
	default:
		return fmt.Errorf("style %s: align must be L, C or R, got %q", s.Name, s.Align)
	}
	if s.Size <= 0 || s.Leading <= 0 {
		return fmt.Errorf("style %s: size and leading must be positive", s.Name)
	}
	return nil
}

// StyleSheet maps style names to styles.
type StyleSheet struct {
	styles map[string]Style
}

// DefaultStyleSheet returns the built-in paragraph styles.
func DefaultStyleSheet() *StyleSheet {
	normal := Style{Name: "Normal", Font: FontHelvetica, Size: 10, Leading: 12, Align: "L"}
	derive := func(name, fontStyle string, size, leading float64, align string) Style {
		st := normal
		st.Name, st.FontStyle, st.Size, st.Leading, st.Align = name, fontStyle, size, leading, align
		return st
	}
	code := normal
	code.Name, code.Font, code.Size, code.Leading = "Code", FontCourier, 8, 8.8

	ss := &StyleSheet{styles: make(map[string]Style)}
	for _, st := range []Style{
		normal,
		derive("BodyText", "", 10, 12, "L"),
		derive("Italic", "I", 10, 12, "L"),
		derive("Title", "B", 18, 22, "C"),
		derive("Heading1", "B", 18, 22, "L"),
		derive("Heading2", "B", 14, 18, "L"),
		derive("Heading3", "BI", 12, 14, "L"),
		derive("Heading4", "BI", 10, 12, "L"),
		derive("Heading5", "B", 9, 10.8, "L"),
		derive("Heading6", "B", 7, 8.4, "L"),
		derive("Bullet", "", 10, 12, "L"),
		derive("Definition", "", 10, 12, "L"),
		code,
	} {
		ss.styles[st.Name] = st
	}
	return ss
}

// Get returns the style called name.
func (ss *StyleSheet) Get(name string) (Style, bool) {
	st, ok := ss.styles[name]
	return st, ok
}

// Set adds or replaces a style.
func (ss *StyleSheet) Set(st Style) error {
	if err := st.validate(); err != nil {
		return err
	}
	ss.styles[st.Name] = st
	return nil
}

// Names returns the sorted style names.
func (ss *StyleSheet) Names() []string {
	names := make([]string, 0, len(ss.styles))
	for name := range ss.styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// styleDef is one entry of a style sheet file. Unset fields are inherited
// from the parent, which defaults to the built-in style of the same name or
// to Normal.
type styleDef struct {
	Parent  string  `yaml:"parent"`
	Font    string  `yaml:"font"`
	Style   *string `yaml:"style"`
	Size    float64 `yaml:"size"`
	Leading float64 `yaml:"leading"`
	Align   string  `yaml:"align"`
	Color   *Color  `yaml:"color"`
}

// LoadStyleSheet reads YAML style definitions on top of the defaults:
//
//	Normal:
//	  font: go
//	  size: 11
//	Signature:
//	  parent: Normal
//	  style: I
//	  align: R
func LoadStyleSheet(r io.Reader) (*StyleSheet, error) {
	defs := make(map[string]styleDef)
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("overlay: parsing style sheet: %w", err)
	}

	ss := DefaultStyleSheet()
	base := DefaultStyleSheet()
	resolving := make(map[string]bool)
	var resolve func(name string) (Style, error)
	resolve = func(name string) (Style, error) {
		def, ok := defs[name]
		if !ok {
			st, ok := base.Get(name)
			if !ok {
				return Style{}, fmt.Errorf("overlay: unknown parent style %q", name)
			}
			return st, nil
		}
		if resolving[name] {
			return Style{}, fmt.Errorf("overlay: style %q inherits from itself", name)
		}
		resolving[name] = true
		defer delete(resolving, name)

		parent := def.Parent
		if parent == "" {
			parent = "Normal"
			if _, ok := base.Get(name); ok {
				parent = name
			}
		}
		var (
			st  Style
			err error
		)
		if parent == name {
			st, _ = base.Get(name)
		} else if st, err = resolve(parent); err != nil {
			return Style{}, err
		}
		return def.apply(name, st), nil
	}

	for name := range defs {
		st, err := resolve(name)
		if err != nil {
			return nil, err
		}
		if err := ss.Set(st); err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
	}
	return ss, nil
}

func (def styleDef) apply(name string, st Style) Style {
	st.Name = name
	if def.Font != "" {
		st.Font = strings.ToLower(def.Font)
	}
	if def.Style != nil {
		st.FontStyle = strings.ToUpper(*def.Style)
	}
	if def.Size > 0 {
		st.Size = def.Size
		st.Leading = def.Size * 1.2
	}
	if def.Leading > 0 {
		st.Leading = def.Leading
	}
	if def.Align != "" {
		st.Align = strings.ToUpper(def.Align)
	}
	if def.Color != nil {
		st.Color = *def.Color
	}
	return st
}

// LoadStyleSheetFile reads a style sheet file.
func LoadStyleSheetFile(path string) (*StyleSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: opening style sheet %s: %w", path, err)
	}
	defer f.Close()
	return LoadStyleSheet(f)
}
