package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/lvillar/pdffill"
)

func createTemplate(t *testing.T, path string) {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.Rect(20, 20, 555, 800, "D")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("creating template: %v", err)
	}
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return ctx.PageCount
}

func TestRunDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	createTemplate(t, "tpl.pdf")
	if err := os.WriteFile("tpl.pos", []byte("p1 = 10,20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("tpl.dat", []byte("p1 = Hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"pdffill"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n := pageCount(t, "out.pdf"); n != 1 {
		t.Errorf("expected 1 page, got %d", n)
	}
}

func TestRunArguments(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "form.pdf")
	pos := filepath.Join(dir, "form.pos")
	dat := filepath.Join(dir, "form.dat")
	out := filepath.Join(dir, "filled.pdf")
	createTemplate(t, tpl)
	os.WriteFile(pos, []byte("frame = 0,0\n"), 0o644)
	os.WriteFile(dat, []byte("frame = <box width=\"3\">10,10,100,50</box>\n"), 0o644)

	t.Setenv("PDFFILL_PAGESIZE", "Letter")
	if err := run([]string{"pdffill", dat, pos, tpl, out}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n := pageCount(t, out); n != 1 {
		t.Errorf("expected 1 page, got %d", n)
	}
}

func TestRunMissingPosition(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "tpl.pdf")
	pos := filepath.Join(dir, "tpl.pos")
	dat := filepath.Join(dir, "tpl.dat")
	out := filepath.Join(dir, "out.pdf")
	createTemplate(t, tpl)
	os.WriteFile(pos, []byte("p1 = 10,20\n"), 0o644)
	os.WriteFile(dat, []byte("p2 = Hello\n"), 0o644)

	err := run([]string{"pdffill", dat, pos, tpl, out})
	if !errors.Is(err, pdffill.ErrReference) {
		t.Fatalf("expected ErrReference, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written despite failure")
	}
}

func TestRunBadStyleSheet(t *testing.T) {
	t.Setenv("PDFFILL_STYLES", filepath.Join(t.TempDir(), "missing.yaml"))
	if err := run([]string{"pdffill"}); err == nil {
		t.Fatal("expected error for missing style sheet")
	}
}

func TestRunDemo(t *testing.T) {
	t.Chdir(t.TempDir())
	createTemplate(t, "tpl.pdf")
	if err := run([]string{"pdffill", "-test"}); err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	if n := pageCount(t, "out.pdf"); n != 1 {
		t.Errorf("expected 1 page, got %d", n)
	}
}
