package formatter

import (
	"fmt"
	"slices"
	"strings"

	"hexnews/internal/models"
	"hexnews/pkg/metadata"
)

// Report is everything the final page shows.
type Report struct {
	Text        string
	Definitions map[string]string
	Rounds      models.SummaryHistory
	Memo        string
}

// Render builds the markdown document for r and signs it with meta. Rounds
// is taken from r, so meta.Rounds need not be set.
func Render(r Report, meta metadata.Metadata) string {
	var sb strings.Builder

	sb.WriteString("# News Report\n")

	if text := strings.TrimSpace(r.Text); text != "" {
		sb.WriteString("\n")
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if len(r.Definitions) > 0 {
		sb.WriteString("\n## Definitions\n\n")

		terms := make([]string, 0, len(r.Definitions))
		for term := range r.Definitions {
			terms = append(terms, term)
		}

		slices.Sort(terms)

		for _, term := range terms {
			fmt.Fprintf(&sb, "- **%s**: %s\n", term, strings.TrimSpace(r.Definitions[term]))
		}
	}

	if len(r.Rounds) > 0 {
		sb.WriteString("\n## Summary History\n\n")
		sb.WriteString("| # | Keywords | Summary |\n")
		sb.WriteString("| --- | --- | --- |\n")

		for i, round := range r.Rounds {
			fmt.Fprintf(&sb, "| %d | %s | %s |\n", i+1, escapeCell(strings.Join(round.Keywords, ", ")), escapeCell(round.Summary))
		}
	}

	if memo := strings.TrimSpace(r.Memo); memo != "" {
		sb.WriteString("\n## Memo\n\n")
		sb.WriteString(memo)
		sb.WriteString("\n")
	}

	meta.Rounds = len(r.Rounds)

	return metadata.Sign(AlignTables(sb.String()), meta)
}
