// Package main previews the keyword hex grid in a terminal.
//
// Usage:
//
//	hexgrid -select economy,climate economy election climate inflation
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"hexnews/internal/hexgrid"
	"hexnews/internal/keywords"
)

func main() {
	selected := flag.String("select", "", "Comma-separated keywords to highlight (at most 3)")
	list := flag.Bool("list", false, "Also print each keyword's cell coordinates")

	flag.Parse()

	pool := keywords.NewPool(flag.Args())
	if pool.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: hexgrid [-select a,b] [-list] keyword...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	selection := keywords.NewSelection(keywords.DefaultMaxSelected)

	if *selected != "" {
		for _, kw := range strings.Split(*selected, ",") {
			kw = keywords.Normalize(kw)
			if !pool.Contains(kw) {
				fmt.Fprintf(os.Stderr, "⚠️  %q is not a keyword, ignoring\n", kw)
				continue
			}

			var result keywords.ToggleResult

			selection, result = selection.Toggle(kw)
			if !result.Changed() {
				fmt.Fprintf(os.Stderr, "⚠️  selection is full, ignoring %q\n", kw)
			}
		}
	}

	grid := hexgrid.Layout(pool.Items(), selection.Items())

	fmt.Print(hexgrid.RenderText(grid))

	if *list {
		fmt.Println()

		for _, slot := range grid.Assigned() {
			mark := " "
			if slot.Selected {
				mark = "*"
			}

			fmt.Printf("%s (%2d,%2d,%2d) d=%d  %s\n", mark, slot.Q, slot.R, slot.S, slot.Distance(), slot.Keyword)
		}
	}
}
