package compose

import (
	"log/slog"
	"time"

	"github.com/lvillar/pdffill/overlay"
)

// Option is a functional option for configuring a Composer via New.
type Option func(*composerConfig)

type composerConfig struct {
	pageSize     string
	custom       [2]float64
	styles       *overlay.StyleSheet
	defaultStyle string
	now          func() time.Time
	logger       *slog.Logger
}

// WithPageSize sets the output page size by name.
// Use "A3", "A4", "A5", "Letter", "Legal" or "Tabloid".
func WithPageSize(size string) Option {
	return func(c *composerConfig) {
		c.pageSize = size
	}
}

// WithPageSizeCustom sets a custom output page size in points.
// It takes precedence over WithPageSize.
func WithPageSizeCustom(width, height float64) Option {
	return func(c *composerConfig) {
		c.custom = [2]float64{width, height}
	}
}

// WithStyleSheet sets the paragraph styles that positions refer to.
func WithStyleSheet(ss *overlay.StyleSheet) Option {
	return func(c *composerConfig) {
		c.styles = ss
	}
}

// WithDefaultStyle sets the style used by positions that name none.
func WithDefaultStyle(name string) Option {
	return func(c *composerConfig) {
		c.defaultStyle = name
	}
}

// WithClock sets the time source for dynamic tokens.
func WithClock(now func() time.Time) Option {
	return func(c *composerConfig) {
		c.now = now
	}
}

// WithLogger sets the logger for composition diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *composerConfig) {
		c.logger = l
	}
}
