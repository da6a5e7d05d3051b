package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lvillar/pdffill"
)

// ParseFunc converts one raw value chunk.
type ParseFunc[T any] func(raw string) (T, error)

// MergeFunc appends a continuation chunk to the value already stored.
// A nil MergeFunc rejects continuations.
type MergeFunc[T any] func(prev, next T) (T, error)

// continuation marks a value that goes on in the next line.
const continuation = `\`

// ReadFile reads a table from the named file.
func ReadFile[T any](path string, parse ParseFunc[T], merge MergeFunc[T]) (*Table[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path, parse, merge)
}

// Read reads a table from r. name is used in error messages.
func Read[T any](r io.Reader, name string, parse ParseFunc[T], merge MergeFunc[T]) (*Table[T], error) {
	t := NewTable[T](name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		lc       int
		lastName string
		inCont   bool // previous line ended with a continuation marker
	)
	for sc.Scan() {
		lc++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		var key, value string
		if inCont {
			key, value = lastName, line
		} else {
			k, v, ok := strings.Cut(line, "=")
			if !ok {
				return nil, &pdffill.ConfigError{File: name, Line: lc, Err: pdffill.Syntaxf("no = in line")}
			}
			key, value = strings.TrimSpace(k), v
			if _, dup := t.items[key]; dup {
				return nil, &pdffill.ConfigError{File: name, Line: lc, Name: key, Err: pdffill.Syntaxf("duplicate name")}
			}
		}

		continued := false
		if trimmed := strings.TrimRight(value, " \t"); strings.HasSuffix(trimmed, continuation) {
			value = strings.TrimSuffix(trimmed, continuation)
			continued = true
		}

		v, err := parse(value)
		if err != nil {
			return nil, &pdffill.ConfigError{File: name, Line: lc, Name: key, Err: err}
		}

		if inCont {
			if merge == nil {
				return nil, &pdffill.ConfigError{File: name, Line: lc, Name: key, Err: pdffill.Valuef("value cannot be continued")}
			}
			merged, err := merge(t.items[key], v)
			if err != nil {
				return nil, &pdffill.ConfigError{File: name, Line: lc, Name: key, Err: err}
			}
			t.items[key] = merged
		} else if err := t.add(key, v, lc); err != nil {
			return nil, err
		}

		lastName, inCont = key, continued
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", name, err)
	}
	return t, nil
}
