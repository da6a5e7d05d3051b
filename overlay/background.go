package overlay

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Background is the first page of a template document, used as backdrop
// for every output page. It is read-only once opened.
type Background struct {
	Path          string  // template file
	Width, Height float64 // box of the first page
	Pages         int     // pages in the template, only the first is used
}

// NewBackground describes a template whose first page box is already known.
func NewBackground(path string, width, height float64) *Background {
	return &Background{Path: path, Width: width, Height: height, Pages: 1}
}

// OpenBackground validates the template at path and reads the box of its
// first page.
func OpenBackground(path string) (*Background, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: reading template %s: %w", path, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("overlay: invalid template %s: %w", path, err)
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("overlay: template %s has no pages", path)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("overlay: template %s page size: %w", path, err)
	}
	if len(dims) == 0 || dims[0].Width <= 0 || dims[0].Height <= 0 {
		return nil, fmt.Errorf("overlay: template %s has an empty first page", path)
	}
	return &Background{
		Path:   path,
		Width:  dims[0].Width,
		Height: dims[0].Height,
		Pages:  ctx.PageCount,
	}, nil
}
