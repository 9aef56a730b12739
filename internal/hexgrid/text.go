package hexgrid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hexnews/pkg/utils"
)

// TextCellWidth is the column width of one cell in RenderText output.
const TextCellWidth = 10

var (
	textCellStyle = lipgloss.NewStyle().
			Width(TextCellWidth).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("#1F2937"))

	textSelectedStyle = textCellStyle.
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#60A5FA"))

	textEmptyStyle = textCellStyle.
			Faint(true)
)

// RenderText draws the grid as offset rows for a terminal. Row r is shifted
// right by half a cell per step so neighbouring rows interlock.
func RenderText(g Grid) string {
	byCell := make(map[Cell]Slot, len(g.Slots))
	for _, s := range g.Slots {
		byCell[s.Cell] = s
	}

	strs := utils.NewStringHelper()
	radius := g.Radius

	var b strings.Builder

	for r := -radius; r <= radius; r++ {
		indent := strings.Repeat(" ", abs(r)*TextCellWidth/2)

		qMin := max(-radius, -r-radius)
		qMax := min(radius, -r+radius)

		row := make([]string, 0, qMax-qMin+1)

		for q := qMin; q <= qMax; q++ {
			slot := byCell[Cell{Q: q, R: r, S: -q - r}]
			row = append(row, renderTextCell(slot, strs))
		}

		b.WriteString(indent)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	return b.String()
}

func renderTextCell(s Slot, strs *utils.StringHelper) string {
	if !s.Assigned() {
		return textEmptyStyle.Render("·")
	}

	label := strs.TruncateString(s.Keyword, TextCellWidth-2)
	if s.Selected {
		return textSelectedStyle.Render(label)
	}

	return textCellStyle.Render(label)
}
