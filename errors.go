package pdffill

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a fill run.
var (
	ErrConfigSyntax         = errors.New("pdffill: config syntax error")
	ErrConfigValue          = errors.New("pdffill: config value error")
	ErrReference            = errors.New("pdffill: content has no position")
	ErrUnsupportedPrimitive = errors.New("pdffill: unsupported primitive")
)

// ConfigError locates a fault in a position or content file.
// Line is 1-based; zero means the item was not read from a file.
type ConfigError struct {
	File string // source file name
	Line int    // 1-based line number
	Name string // offending position/content name, if known
	Err  error  // underlying error, wraps one of the sentinels
}

func (e *ConfigError) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Name != "" {
		msg = e.Name + ": " + msg
	}
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Syntaxf returns an error wrapping ErrConfigSyntax.
func Syntaxf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigSyntax, fmt.Sprintf(format, args...))
}

// Valuef returns an error wrapping ErrConfigValue.
func Valuef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigValue, fmt.Sprintf(format, args...))
}

// Error represents a failure during a specific fill operation.
// It wraps an underlying error and includes the operation name for context.
type Error struct {
	Op  string // operation name, e.g. "compose", "render"
	Err error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdffill.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdffill.%s: unknown error", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error wrapping err with operation context.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
