// Command pdffill overlays text and drawings onto the first page of a PDF
// template at coordinates given in a position file.
//
// # Usage
//
//	pdffill [ tpl.dat tpl.pos tpl.pdf out.pdf ]
//
// The arguments are the content file, the position file, the template and
// the output file. Omitted arguments take the default names shown above.
//
//	pdffill -test
//
// fills tpl.pdf with a grid of labelled positions and writes out.pdf.
//
// # Environment
//
//   - PDFFILL_STYLES: YAML style sheet overriding the built-in styles
//   - PDFFILL_PAGESIZE: output page size (A3, A4, A5, Letter, Legal, Tabloid)
//   - PDFFILL_DEBUG: any non-empty value logs every placed item to stderr
package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/lvillar/pdffill"
	"github.com/lvillar/pdffill/compose"
	"github.com/lvillar/pdffill/config"
	"github.com/lvillar/pdffill/overlay"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pdffill: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := options()
	if err != nil {
		return err
	}
	c, err := compose.New(opts...)
	if err != nil {
		return err
	}
	if slices.Contains(args[1:], "-test") {
		return demo(c, "tpl.pdf", "out.pdf")
	}

	files := []string{"tpl.dat", "tpl.pos", "tpl.pdf", "out.pdf"}
	copy(files, args[1:])
	fmt.Printf("%s [ tpl.dat tpl.pos tpl.pdf out.pdf ]\n", args[0])
	fmt.Printf("Add from %s at %s to %s generating %s\n", files[0], files[1], files[2], files[3])
	_, err = c.FillFiles(files[0], files[1], files[2], files[3])
	return err
}

// options reads the composer configuration from the environment.
func options() ([]compose.Option, error) {
	var opts []compose.Option
	if path := os.Getenv("PDFFILL_STYLES"); path != "" {
		ss, err := overlay.LoadStyleSheetFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, compose.WithStyleSheet(ss))
	}
	if size := os.Getenv("PDFFILL_PAGESIZE"); size != "" {
		opts = append(opts, compose.WithPageSize(size))
	}
	if os.Getenv("PDFFILL_DEBUG") != "" {
		opts = append(opts, compose.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return opts, nil
}

// demo places a grid of labelled positions on the template.
func demo(c *compose.Composer, templatePath, outputPath string) error {
	positions := config.NewTable[pdffill.Position]("demo")
	contents := config.NewTable[pdffill.Content]("demo")
	pageW, _ := c.PageSize()
	for _, x := range []int{30, 66, 120} {
		for y := 100; y < 200; y += 5 {
			name := fmt.Sprintf("pos%d%d", x, y)
			pos := pdffill.Position{X: float64(x), Y: float64(y), Width: pageW, Style: pdffill.DefaultStyle}
			if err := positions.Add(name, pos); err != nil {
				return err
			}
			if err := contents.Add(name, pdffill.Text(fmt.Sprintf("Position %dx%d", x, y))); err != nil {
				return err
			}
		}
	}

	bg, err := overlay.OpenBackground(templatePath)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := c.Fill(&buf, bg, positions, contents); err != nil {
		return err
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}
