package overlay

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// plainText strips paragraph markup from s. <br/> becomes a hard line break,
// entities are decoded, other tags are dropped and their text kept.
func plainText(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return norm.NFC.String(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

// wrapText breaks text into lines no wider than width. Runs of white space
// collapse to one blank; words wider than width get a line of their own.
func wrapText(c Canvas, text string, width float64, st Style) []string {
	var lines []string
	for _, hard := range strings.Split(plainText(text), "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if c.StringWidth(candidate, st) <= width {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	// drop trailing empty lines so blank text occupies no space
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// drawParagraph lays p out within its width and draws it with the
// lower-left corner of the text block at (p.X, p.Y).
func drawParagraph(c Canvas, p Paragraph) {
	st := p.Style
	lines := wrapText(c, p.Text, p.Width, st)
	top := p.Y + float64(len(lines))*st.Leading
	for i, line := range lines {
		if line == "" {
			continue
		}
		x := p.X
		switch st.Align {
		case "C":
			x += (p.Width - c.StringWidth(line, st)) / 2
		case "R":
			x += p.Width - c.StringWidth(line, st)
		}
		c.Text(line, x, top-st.Size-float64(i)*st.Leading, st)
	}
}
