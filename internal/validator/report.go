// Package validator checks exported report documents.
package validator

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hexnews/pkg/metadata"
)

// Validation errors.
var (
	ErrMissingTitle   = errors.New("report title is missing")
	ErrRoundMismatch  = errors.New("summary table does not match recorded rounds")
	ErrRowNumbering   = errors.New("summary rows are not numbered in order")
	ErrMalformedRow   = errors.New("summary row must have three cells")
	ErrEmptyRoundText = errors.New("summary row has no keywords or summary")
)

const (
	reportTitle    = "# News Report"
	historyHeading = "## Summary History"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Err     error
	Value   string
	Message string
	Line    int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	Rounds      int
	TableRows   int
	Definitions int
	HasMemo     bool
	Signed      bool
}

// ValidateReport checks a markdown report produced by the explorer: its
// signature, its title and its summary table against the recorded round count.
func ValidateReport(content string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	meta, clean := metadata.Extract(content)

	if meta == nil {
		result.Warnings = append(result.Warnings, "report is not signed")
	} else {
		result.Stats.Signed = true
		result.Stats.Rounds = meta.Rounds

		if ok, err := metadata.Verify(content); !ok {
			result.addError(ValidationError{Err: err, Message: fmt.Sprintf("signature check failed: %v", err)})
		}
	}

	lines := strings.Split(clean, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != reportTitle {
		result.addError(ValidationError{Err: ErrMissingTitle, Line: 1, Message: ErrMissingTitle.Error()})
	}

	section := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "## ") {
			section = trimmed
			continue
		}

		switch section {
		case "## Definitions":
			if strings.HasPrefix(trimmed, "- **") {
				result.Stats.Definitions++
			}
		case "## Memo":
			if trimmed != "" {
				result.Stats.HasMemo = true
			}
		case historyHeading:
			result.validateRow(trimmed, i+1)
		}
	}

	if meta != nil && result.Stats.TableRows != meta.Rounds {
		result.addError(ValidationError{
			Err:     ErrRoundMismatch,
			Value:   strconv.Itoa(result.Stats.TableRows),
			Message: fmt.Sprintf("%v: table has %d rows, metadata records %d", ErrRoundMismatch, result.Stats.TableRows, meta.Rounds),
		})
	}

	return result
}

func (r *ValidationResult) validateRow(row string, lineNum int) {
	if !strings.HasPrefix(row, "|") {
		return
	}

	cells := splitCells(row)
	if len(cells) > 0 && (cells[0] == "#" || strings.Trim(cells[0], "-: ") == "") {
		return
	}

	if len(cells) != 3 {
		r.addError(ValidationError{Err: ErrMalformedRow, Line: lineNum, Value: truncate(row, 60), Message: ErrMalformedRow.Error()})
		return
	}

	r.Stats.TableRows++

	if n, err := strconv.Atoi(cells[0]); err != nil || n != r.Stats.TableRows {
		r.addError(ValidationError{Err: ErrRowNumbering, Line: lineNum, Value: cells[0], Message: ErrRowNumbering.Error()})
	}

	if cells[1] == "" || cells[2] == "" {
		r.Warnings = append(r.Warnings, fmt.Sprintf("line %d: %v", lineNum, ErrEmptyRoundText))
	}
}

func (r *ValidationResult) addError(e ValidationError) {
	r.Errors = append(r.Errors, e)
	r.IsValid = false
}

// splitCells splits a table row on pipes that are not escaped.
func splitCells(row string) []string {
	row = strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")

	var (
		cells []string
		cur   strings.Builder
	)

	for i := 0; i < len(row); i++ {
		switch {
		case row[i] == '\\' && i+1 < len(row) && row[i+1] == '|':
			cur.WriteString(`\|`)
			i++
		case row[i] == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(row[i])
		}
	}

	return append(cells, strings.TrimSpace(cur.String()))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	return s[:maxLen] + "..."
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Rounds: %d | Rows: %d | Definitions: %d | Signed: %t | Warnings: %d",
		status,
		r.Stats.Rounds,
		r.Stats.TableRows,
		r.Stats.Definitions,
		r.Stats.Signed,
		len(r.Warnings),
	)
}

// PrintErrors writes validation errors in readable form.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Line > 0 {
			fmt.Fprintf(w, "  Line %d: %s\n", err.Line, err.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", err.Message)
		}

		if err.Value != "" {
			fmt.Fprintf(w, "    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings writes validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
