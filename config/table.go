// Package config reads the line-oriented position and content tables of a
// fill run.
//
// Both tables share one format:
//
//	# comment
//	name = value
//	long = first part \
//	       continued on the next line
//
// A trailing backslash continues the value of the same name on the next line.
// Every chunk is converted on its own and the converted chunks are
// concatenated. Declaring a name twice is an error.
package config

import (
	"iter"
	"slices"

	"github.com/lvillar/pdffill"
)

// Table is an ordered name to value mapping read from one source.
// Names keep their declaration order.
type Table[T any] struct {
	File  string // source name used in error messages
	names []string
	items map[string]T
	lines map[string]int
}

// NewTable returns an empty table attributed to file.
func NewTable[T any](file string) *Table[T] {
	return &Table[T]{
		File:  file,
		items: make(map[string]T),
		lines: make(map[string]int),
	}
}

// Add appends a new entry. Adding an existing name fails.
func (t *Table[T]) Add(name string, v T) error {
	return t.add(name, v, 0)
}

func (t *Table[T]) add(name string, v T, line int) error {
	if _, dup := t.items[name]; dup {
		return &pdffill.ConfigError{File: t.File, Line: line, Name: name, Err: pdffill.Syntaxf("duplicate name")}
	}
	t.names = append(t.names, name)
	t.items[name] = v
	t.lines[name] = line
	return nil
}

// Get returns the value stored under name.
func (t *Table[T]) Get(name string) (T, bool) {
	v, ok := t.items[name]
	return v, ok
}

// Line returns the 1-based line name was declared on, or 0.
func (t *Table[T]) Line(name string) int {
	return t.lines[name]
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.names)
}

// Names returns the entry names in declaration order.
func (t *Table[T]) Names() []string {
	return slices.Clone(t.names)
}

// All returns an iterator over the entries in declaration order.
func (t *Table[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, name := range t.names {
			if !yield(name, t.items[name]) {
				return
			}
		}
	}
}
