package compose

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/lvillar/pdffill"
	"github.com/lvillar/pdffill/config"
	"github.com/lvillar/pdffill/overlay"
)

// createTemplate writes a one-page 200 x 100 point PDF into dir.
func createTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tpl.pdf")
	pdf := gofpdf.NewCustom(&gofpdf.InitType{OrientationStr: "P", UnitStr: "pt", Size: gofpdf.SizeType{Wd: 200, Ht: 100}})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(10, 20, "Template")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("creating template: %v", err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func tables(t *testing.T, c *Composer, pos, content string) (*config.Table[pdffill.Position], *config.Table[pdffill.Content]) {
	t.Helper()
	positions, err := config.ReadPositionsFrom(strings.NewReader(pos), "tpl.pos", c.PositionDefaults())
	if err != nil {
		t.Fatalf("reading positions: %v", err)
	}
	contents, err := config.ReadContentsFrom(strings.NewReader(content), "tpl.dat", c.Expander())
	if err != nil {
		t.Fatalf("reading contents: %v", err)
	}
	return positions, contents
}

func mustNew(t *testing.T, opts ...Option) *Composer {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNewPageSize(t *testing.T) {
	tests := []struct {
		opts []Option
		w, h float64
	}{
		{nil, 595.28, 841.89},
		{[]Option{WithPageSize("Letter")}, 612, 792},
		{[]Option{WithPageSize("legal")}, 612, 1008},
		{[]Option{WithPageSize("Letter"), WithPageSizeCustom(600, 800)}, 600, 800},
	}
	for _, tt := range tests {
		c := mustNew(t, tt.opts...)
		if w, h := c.PageSize(); w != tt.w || h != tt.h {
			t.Errorf("page size = %v x %v, want %v x %v", w, h, tt.w, tt.h)
		}
	}
}

func TestNewErrors(t *testing.T) {
	for name, opts := range map[string][]Option{
		"unknown size":  {WithPageSize("B12")},
		"negative size": {WithPageSizeCustom(-1, 10)},
		"unknown style": {WithDefaultStyle("Fancy")},
	} {
		if _, err := New(opts...); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestComposeScale(t *testing.T) {
	c := mustNew(t, WithPageSizeCustom(600, 800))
	positions, contents := tables(t, c, "p1 = 10,20\n", "p1 = Hello\n")
	tpl, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if x, y := tpl.Scale(); x != 3.0 || y != 8.0 {
		t.Errorf("scale = %v, %v; want 3, 8", x, y)
	}
}

func TestComposeParagraph(t *testing.T) {
	c := mustNew(t, WithPageSizeCustom(600, 800))
	positions, contents := tables(t, c, "p1 = 10,20\np2 = 30,40,100,Title\n", "p1 = Hello\np2 = World\n")
	tpl, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	paras := tpl.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	p1, p2 := paras[0], paras[1]
	if strings.TrimSpace(p1.Text) != "Hello" || p1.X != 10 || p1.Y != 20 || p1.Width != 600 || p1.Style.Name != pdffill.DefaultStyle {
		t.Errorf("p1 = %+v", p1)
	}
	if strings.TrimSpace(p2.Text) != "World" || p2.Width != 100 || p2.Style.Name != "Title" {
		t.Errorf("p2 = %+v", p2)
	}
}

func TestComposePrimitive(t *testing.T) {
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 5,5\n", `p1 = <line width="2">0,0,10,10</line>`+"\n")
	tpl, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	batches := tpl.Batches()
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	b := batches[0]
	if b.Primitive.Kind != pdffill.KindLine || b.X != 5 || b.Y != 5 {
		t.Errorf("batch = %+v", b)
	}
	if w, ok := b.Primitive.LineWidth(); !ok || w != 2 {
		t.Errorf("line width = %v, %v", w, ok)
	}
	want := []float64{0, 0, 10, 10}
	for i, v := range want {
		if b.Primitive.Points[i] != v {
			t.Fatalf("points = %v, want %v", b.Primitive.Points, want)
		}
	}
}

func TestComposeSymbol(t *testing.T) {
	c := mustNew(t)
	positions, contents := tables(t, c, "qr = 400,20\n", `qr = <qrcode size="40">hello</qrcode>`+"\n")
	tpl, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	syms := tpl.Symbols()
	if len(syms) != 1 || syms[0].Symbol.Kind != pdffill.SymbolQR || syms[0].Symbol.Payload != "hello" {
		t.Errorf("symbols = %+v", syms)
	}
}

func TestComposeReference(t *testing.T) {
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20\n", "p1 = Hello\np2 = Orphan\n")
	_, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if !errors.Is(err, pdffill.ErrReference) {
		t.Fatalf("expected ErrReference, got %v", err)
	}
	var cerr *pdffill.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cerr.Name != "p2" || cerr.File != "tpl.dat" || cerr.Line != 2 {
		t.Errorf("error location = %s:%d %s", cerr.File, cerr.Line, cerr.Name)
	}
}

func TestComposeSkipsAnnotations(t *testing.T) {
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20\n", "_note = no position needed\np1 = Hello\n")
	tpl, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if n := len(tpl.Paragraphs()); n != 1 {
		t.Errorf("expected 1 paragraph, got %d", n)
	}
}

func TestComposeUnknownStyle(t *testing.T) {
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20,100,Fancy\n", "p1 = Hello\n")
	_, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if !errors.Is(err, pdffill.ErrConfigValue) {
		t.Fatalf("expected ErrConfigValue, got %v", err)
	}
	if !strings.Contains(err.Error(), "Fancy") || !strings.Contains(err.Error(), "p1") {
		t.Errorf("error %q should name position and style", err)
	}
}

func TestComposeDynamicTokens(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC) }
	c := mustNew(t, WithClock(clock))
	positions, contents := tables(t, c, "d = 10,20\n", "d = Issued <date> at <time>\n")
	tpl, err := c.Compose(overlay.NewBackground("tpl.pdf", 200, 100), positions, contents)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got := strings.TrimSpace(tpl.Paragraphs()[0].Text); got != "Issued 05.03.2024 at 07:08:09" {
		t.Errorf("text = %q", got)
	}
}

func TestCheck(t *testing.T) {
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20,,Fancy\n", "p1 = Hello\np2 = a\n_x = b\np3 = c\n")
	errs := c.Check(positions, contents)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], pdffill.ErrConfigValue) {
		t.Errorf("errs[0] = %v", errs[0])
	}
	for _, err := range errs[1:] {
		if !errors.Is(err, pdffill.ErrReference) {
			t.Errorf("expected ErrReference, got %v", err)
		}
	}
}

func TestFillFiles(t *testing.T) {
	dir := t.TempDir()
	tplPath := createTemplate(t, dir)
	posPath := writeFile(t, dir, "tpl.pos", "# positions\np1 = 10,20\nbox = 100,100\n")
	datPath := writeFile(t, dir, "tpl.dat", "p1 = Hello\nbox = <box width=\"0.5\">0,0,50,20</box> \\\n<box>10,10,30,5</box>\n")
	out := filepath.Join(dir, "out.pdf")

	c := mustNew(t)
	pages, err := c.FillFiles(datPath, posPath, tplPath, out)
	if err != nil {
		t.Fatalf("FillFiles failed: %v", err)
	}
	if pages != 1 {
		t.Errorf("expected 1 page, got %d", pages)
	}
	ctx, err := api.ReadContextFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if ctx.PageCount != 1 {
		t.Errorf("output has %d pages, want 1", ctx.PageCount)
	}
}

func TestFillFilesFailureLeavesNoOutput(t *testing.T) {
	tests := map[string]struct {
		pos, dat string
		want     error
	}{
		"unsupported primitive": {"p1 = 10,20\n", "p1 = <circle>0,0,10,10</circle>\n", pdffill.ErrUnsupportedPrimitive},
		"bad cardinality":       {"p1 = 10,20\n", "p1 = <line>0,0,10</line>\n", pdffill.ErrConfigValue},
		"missing position":      {"p1 = 10,20\n", "p2 = Hello\n", pdffill.ErrReference},
		"malformed line":        {"p1 10,20\n", "p1 = Hello\n", pdffill.ErrConfigSyntax},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tplPath := createTemplate(t, dir)
			posPath := writeFile(t, dir, "tpl.pos", tt.pos)
			datPath := writeFile(t, dir, "tpl.dat", tt.dat)
			out := filepath.Join(dir, "out.pdf")

			_, err := mustNew(t).FillFiles(datPath, posPath, tplPath, out)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Errorf("output file exists after failure")
			}
		})
	}
}

func TestFillUnsupportedPrimitiveNamesKind(t *testing.T) {
	dir := t.TempDir()
	bg, err := overlay.OpenBackground(createTemplate(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20\n", "p1 = <circle>0,0,10,10</circle>\n")
	var buf bytes.Buffer
	_, err = c.Fill(&buf, bg, positions, contents)
	if err == nil || !strings.Contains(err.Error(), "circle") {
		t.Fatalf("expected error naming circle, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes written after failure", buf.Len())
	}
}

func TestFillErrorLocatesContentLine(t *testing.T) {
	dir := t.TempDir()
	bg, err := overlay.OpenBackground(createTemplate(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20\np2 = 5,5\n", "p1 = Hello\np2 = <line>0,0,1</line>\n")
	_, err = c.Fill(&bytes.Buffer{}, bg, positions, contents)
	var cerr *pdffill.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.HasPrefix(cerr.Error(), "tpl.dat:2: p2:") {
		t.Errorf("error %q does not start with tpl.dat:2: p2:", cerr)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	bg, err := overlay.OpenBackground(createTemplate(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	c := mustNew(t)
	positions, contents := tables(t, c, "p1 = 10,20\nl = 0,0\n", "p1 = Hello\nl = <line>0,0,10,10</line>\n")
	tpl, err := c.Compose(bg, positions, contents)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		var buf bytes.Buffer
		pages, err := c.Build(&buf, tpl)
		if err != nil || pages != 1 {
			t.Fatalf("build %d: pages=%d err=%v", i, pages, err)
		}
	}
	if n := len(tpl.Batches()); n != 1 {
		t.Errorf("batches = %d after builds", n)
	}
}
