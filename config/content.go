package config

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/lvillar/pdffill"
)

// markup names paragraph tags that never start a drawing directive.
var markup = map[string]bool{
	"b": true, "i": true, "u": true, "strike": true, "super": true, "sub": true,
	"sup": true, "font": true, "a": true, "link": true, "br": true, "para": true,
	"strong": true, "em": true, "span": true, "img": true, "greek": true,
	"seq": true, "seqreset": true, "seqdefault": true, "seqchain": true,
	"seqformat": true, "ondraw": true, "index": true, "unichar": true,
	"nobr": true,
}

// ParseContent expands dynamic tokens in raw and classifies the result as a
// primitive, a symbol or paragraph text. A nil expander leaves tokens as is.
func ParseContent(raw string, e *Expander) (pdffill.Content, error) {
	value := raw
	if e != nil {
		value = e.Expand(raw)
	}
	trimmed := strings.TrimSpace(value)

	for _, k := range pdffill.Kinds {
		if hasOpenTag(trimmed, string(k)) {
			tag, err := parseTag(trimmed, string(k))
			if err != nil {
				return nil, err
			}
			return tagPrimitive(tag)
		}
	}
	for _, k := range pdffill.SymbolKinds {
		if hasOpenTag(trimmed, string(k)) {
			return ParseSymbol(trimmed)
		}
	}
	if p, ok := foreignPrimitive(trimmed); ok {
		return p, nil
	}
	return pdffill.Text(value), nil
}

// foreignPrimitive recognizes <name ...>numbers</name> directives of an
// unsupported kind so that they are rejected when drawn rather than printed.
func foreignPrimitive(s string) (pdffill.Primitive, bool) {
	name := tagName(s)
	if name == "" || markup[strings.ToLower(name)] {
		return pdffill.Primitive{}, false
	}
	tag, err := parseTag(s, name)
	if err != nil || tag.Body == "" {
		return pdffill.Primitive{}, false
	}
	p, err := tagPrimitive(tag)
	if err != nil {
		return pdffill.Primitive{}, false
	}
	return p, true
}

// MergeContent joins a continuation chunk to the stored value. Text joins
// text and primitives join primitives of the same kind; anything else fails.
func MergeContent(prev, next pdffill.Content) (pdffill.Content, error) {
	switch p := prev.(type) {
	case pdffill.Text:
		if n, ok := next.(pdffill.Text); ok {
			return p + n, nil
		}
	case pdffill.Primitive:
		if n, ok := next.(pdffill.Primitive); ok && n.Kind == p.Kind {
			attrs := maps.Clone(p.Attrs)
			if attrs == nil {
				attrs = make(pdffill.Attrs)
			}
			maps.Copy(attrs, n.Attrs)
			return pdffill.Primitive{
				Kind:   p.Kind,
				Attrs:  attrs,
				Points: append(slices.Clone(p.Points), n.Points...),
			}, nil
		}
	}
	return nil, pdffill.Valuef("cannot continue %s with %s", describe(prev), describe(next))
}

func describe(c pdffill.Content) string {
	switch v := c.(type) {
	case pdffill.Text:
		return "text"
	case pdffill.Primitive:
		return fmt.Sprintf("<%s>", v.Kind)
	case pdffill.Symbol:
		return fmt.Sprintf("<%s>", v.Kind)
	}
	return fmt.Sprintf("%T", c)
}

func contentParser(e *Expander) ParseFunc[pdffill.Content] {
	if e == nil {
		e = NewExpander(nil)
	}
	return func(raw string) (pdffill.Content, error) {
		return ParseContent(raw, e)
	}
}

// ReadContents reads a content table from the named file.
// A nil expander uses the wall clock and DefaultTokens.
func ReadContents(path string, e *Expander) (*Table[pdffill.Content], error) {
	return ReadFile(path, contentParser(e), MergeContent)
}

// ReadContentsFrom reads a content table from r.
func ReadContentsFrom(r io.Reader, name string, e *Expander) (*Table[pdffill.Content], error) {
	return Read(r, name, contentParser(e), MergeContent)
}
