package config

import (
	"strings"
	"time"
)

// Token is a placeholder replaced by the current time formatted with Layout.
type Token struct {
	Name   string // literal placeholder, e.g. "<date>"
	Layout string // time.Format layout
}

// DefaultTokens are the placeholders recognized in content values.
var DefaultTokens = []Token{
	{Name: "<date>", Layout: "02.01.2006"},
	{Name: "<day>", Layout: "02"},
	{Name: "<weekday>", Layout: "Mon"},
	{Name: "<fullweekday>", Layout: "Monday"},
	{Name: "<month>", Layout: "01"},
	{Name: "<amonth>", Layout: "Jan"},
	{Name: "<fullmonth>", Layout: "January"},
	{Name: "<year>", Layout: "2006"},
	{Name: "<time>", Layout: "15:04:05"},
	{Name: "<hour>", Layout: "15"},
	{Name: "<min>", Layout: "04"},
	{Name: "<sec>", Layout: "05"},
}

// Expander replaces dynamic tokens with date and time values.
type Expander struct {
	tokens []Token
	now    func() time.Time
}

// NewExpander returns an expander reading the clock from now.
// A nil now uses time.Now; no tokens means DefaultTokens.
func NewExpander(now func() time.Time, tokens ...Token) *Expander {
	if now == nil {
		now = time.Now
	}
	if len(tokens) == 0 {
		tokens = DefaultTokens
	}
	return &Expander{tokens: tokens, now: now}
}

// Expand replaces every recognized token in s. The clock is read once per
// token present, so all occurrences of one token get the same value.
func (e *Expander) Expand(s string) string {
	for _, tok := range e.tokens {
		if strings.Contains(s, tok.Name) {
			s = strings.ReplaceAll(s, tok.Name, e.now().Format(tok.Layout))
		}
	}
	return s
}

// Values returns the current value of every token, read from one clock sample.
func (e *Expander) Values() map[string]string {
	now := e.now()
	vals := make(map[string]string, len(e.tokens))
	for _, tok := range e.tokens {
		vals[tok.Name] = now.Format(tok.Layout)
	}
	return vals
}
