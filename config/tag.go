package config

import (
	"strconv"
	"strings"

	"github.com/lvillar/pdffill"
)

// Tag is a parsed <name attr=val ...>body</name> directive.
type Tag struct {
	Name  string
	Attrs pdffill.Attrs
	Body  string
}

// Attributes coerced to numbers. Primitives only coerce width; symbols
// coerce their size and encoding parameters.
var (
	primitiveNumeric = []string{"width"}
	symbolNumeric    = []string{"size", "height", "columns", "security"}
)

// ParseTag parses a directive whose name is taken from the opening tag.
func ParseTag(value string) (Tag, error) {
	value = strings.TrimSpace(value)
	name := tagName(value)
	if name == "" {
		return Tag{}, pdffill.Syntaxf("%q is not a tag", value)
	}
	return parseTag(value, name)
}

// tagName returns the element name of an opening tag at the start of s.
func tagName(s string) string {
	if !strings.HasPrefix(s, "<") {
		return ""
	}
	end := 1
	for end < len(s) && isNameByte(s[end]) {
		end++
	}
	return s[1:end]
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// hasOpenTag reports whether s starts with an opening tag called name.
func hasOpenTag(s, name string) bool {
	open := "<" + name
	if !strings.HasPrefix(s, open) {
		return false
	}
	rest := s[len(open):]
	return rest == "" || rest[0] == '>' || rest[0] == ' ' || rest[0] == '\t'
}

func parseTag(value, name string) (Tag, error) {
	value = strings.TrimSpace(value)
	open, end := "<"+name, "</"+name+">"
	if !hasOpenTag(value, name) {
		return Tag{}, pdffill.Syntaxf("<%s> does not start with <%s", name, name)
	}
	if len(value) < len(open)+len(end) || !strings.HasSuffix(value, end) {
		return Tag{}, pdffill.Syntaxf("<%s> does not end with %s", name, end)
	}
	inner := value[len(open) : len(value)-len(end)]
	head, body, ok := strings.Cut(inner, ">")
	if !ok {
		return Tag{}, pdffill.Syntaxf("<%s ... does not end", name)
	}

	attrs := make(pdffill.Attrs)
	for _, field := range strings.Fields(head) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return Tag{}, pdffill.Syntaxf("<%s> attribute %q has no =", name, field)
		}
		key = strings.TrimSpace(key)
		attrs[key] = strings.Trim(strings.Trim(strings.TrimSpace(val), `"`), `'`)
	}
	return Tag{Name: name, Attrs: attrs, Body: strings.TrimSpace(body)}, nil
}

// coerce converts the attributes named by keys to float64.
func (tag Tag) coerce(keys []string) error {
	for _, key := range keys {
		raw, ok := tag.Attrs[key].(string)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return pdffill.Valuef("<%s> attribute %s must be a number, got %q", tag.Name, key, raw)
		}
		tag.Attrs[key] = v
	}
	return nil
}

// ParsePoints parses a comma separated list of numbers.
// An empty body yields no points.
func ParsePoints(body string) ([]float64, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	fields := strings.Split(body, ",")
	points := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, pdffill.Valuef("point %q is not a number", f)
		}
		points = append(points, v)
	}
	return points, nil
}

// ParsePrimitive parses a primitive directive such as
// <line width="2">0,0,10,10</line>. The kind is not checked here;
// unsupported kinds fail when drawn.
func ParsePrimitive(value string) (pdffill.Primitive, error) {
	tag, err := ParseTag(value)
	if err != nil {
		return pdffill.Primitive{}, err
	}
	return tagPrimitive(tag)
}

func tagPrimitive(tag Tag) (pdffill.Primitive, error) {
	if err := tag.coerce(primitiveNumeric); err != nil {
		return pdffill.Primitive{}, err
	}
	if tag.Body == "" {
		return pdffill.Primitive{}, pdffill.Valuef("<%s> has no points", tag.Name)
	}
	points, err := ParsePoints(tag.Body)
	if err != nil {
		return pdffill.Primitive{}, err
	}
	return pdffill.Primitive{Kind: pdffill.Kind(tag.Name), Attrs: tag.Attrs, Points: points}, nil
}

// ParseSymbol parses a barcode directive such as <qrcode size="40">text</qrcode>.
func ParseSymbol(value string) (pdffill.Symbol, error) {
	tag, err := ParseTag(value)
	if err != nil {
		return pdffill.Symbol{}, err
	}
	kind := pdffill.SymbolKind(tag.Name)
	if !kind.Known() {
		return pdffill.Symbol{}, pdffill.Valuef("unknown symbology %q", tag.Name)
	}
	if tag.Body == "" {
		return pdffill.Symbol{}, pdffill.Valuef("<%s> has no payload", tag.Name)
	}
	if err := tag.coerce(symbolNumeric); err != nil {
		return pdffill.Symbol{}, err
	}
	return pdffill.Symbol{Kind: kind, Attrs: tag.Attrs, Payload: tag.Body}, nil
}
