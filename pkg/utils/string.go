package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to strings shortened by TruncateString.
const Ellipsis = "…"

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// TrimWhitespace removes leading and trailing whitespace.
func (s *StringHelper) TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// DisplayWidth returns the number of terminal columns str occupies.
// East Asian wide characters count as two.
func (s *StringHelper) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// TruncateString shortens str to at most maxWidth display columns,
// ending it with an ellipsis when anything was cut.
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, Ellipsis)
}

// PadRight pads str with spaces up to width display columns.
func (s *StringHelper) PadRight(str string, width int) string {
	return runewidth.FillRight(str, width)
}
