// Package formatter renders the final report as a markdown document.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// AlignTables pads every markdown table in content so its columns line up
// by display width. Wide (CJK) characters count as two columns.
func AlignTables(content string) string {
	lines := strings.Split(content, "\n")

	var (
		out   []string
		table []string
	)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			table = append(table, line)
			continue
		}

		if len(table) > 0 {
			out = append(out, alignTable(table)...)
			table = nil
		}

		out = append(out, line)
	}

	if len(table) > 0 {
		out = append(out, alignTable(table)...)
	}

	return strings.Join(out, "\n")
}

func alignTable(rows []string) []string {
	// Header plus separator at minimum.
	if len(rows) < 2 {
		return rows
	}

	cells := make([][]string, 0, len(rows))
	colCount := 0

	for _, row := range rows {
		parts := splitRow(row)
		cells = append(cells, parts)
		colCount = max(colCount, len(parts))
	}

	sepIdx := -1
	if isSeparator(cells[1]) {
		sepIdx = 1
	}

	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = 3
	}

	for r, row := range cells {
		if r == sepIdx {
			continue
		}

		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	result := make([]string, 0, len(cells))

	for r, row := range cells {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			if r == sepIdx {
				sb.WriteString(strings.Repeat("-", widths[j]))
			} else {
				content := ""
				if j < len(row) {
					content = row[j]
				}

				sb.WriteString(runewidth.FillRight(content, widths[j]))
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}

// splitRow splits a table row on unescaped pipes and trims each cell.
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")

	var (
		cells []string
		cur   strings.Builder
	)

	escaped := false

	for _, r := range row {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}

	return append(cells, strings.TrimSpace(cur.String()))
}

func isSeparator(row []string) bool {
	for _, cell := range row {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}

	return len(row) > 0
}

// escapeCell makes text safe to place in a single table cell.
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	return strings.TrimSpace(text)
}
