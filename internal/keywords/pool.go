// Package keywords holds the keyword candidate pool and the active selection.
//
// Both types are values: every mutating method returns a new value and leaves
// the receiver untouched, so a page state can be kept as a snapshot.
package keywords

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims surrounding whitespace and composes the label to NFC so
// decomposed and precomposed Hangul compare equal. Case is preserved.
func Normalize(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// Pool is the ordered, duplicate-free set of keyword candidates offered to
// the user. Insertion order decides grid placement.
type Pool struct {
	items []string
}

// NewPool builds a pool from labels, dropping blanks and duplicates while
// keeping first-seen order.
func NewPool(labels []string) Pool {
	return Pool{}.Append(labels...)
}

// Len returns the number of candidates.
func (p Pool) Len() int {
	return len(p.items)
}

// Items returns a copy of the candidates in order.
func (p Pool) Items() []string {
	return slices.Clone(p.items)
}

// Contains reports whether label, once normalized, is already in the pool.
func (p Pool) Contains(label string) bool {
	return slices.Contains(p.items, Normalize(label))
}

// Append returns a pool with the new labels added at the end.
func (p Pool) Append(labels ...string) Pool {
	out := slices.Clone(p.items)

	for _, label := range labels {
		kw := Normalize(label)
		if kw == "" || slices.Contains(out, kw) {
			continue
		}

		out = append(out, kw)
	}

	return Pool{items: out}
}

// Prepend returns a pool with label placed first. The second result is false
// when label was blank or already present, in which case the pool is returned
// unchanged.
func (p Pool) Prepend(label string) (Pool, bool) {
	kw := Normalize(label)
	if kw == "" || slices.Contains(p.items, kw) {
		return p, false
	}

	out := make([]string, 0, len(p.items)+1)
	out = append(out, kw)
	out = append(out, p.items...)

	return Pool{items: out}, true
}
