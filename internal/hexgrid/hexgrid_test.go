package hexgrid

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate_Properties(t *testing.T) {
	for radius := 0; radius <= 6; radius++ {
		t.Run(fmt.Sprintf("radius=%d", radius), func(t *testing.T) {
			cells := Generate(radius)

			want := 3*radius*radius + 3*radius + 1
			if len(cells) != want {
				t.Fatalf("Expected %d cells, got %d", want, len(cells))
			}

			if Capacity(radius) != want {
				t.Errorf("Capacity(%d) = %d, want %d", radius, Capacity(radius), want)
			}

			seen := make(map[Cell]bool, len(cells))
			prev := 0

			for i, c := range cells {
				if c.Q+c.R+c.S != 0 {
					t.Errorf("cell %d %+v violates q+r+s=0", i, c)
				}

				if c.Distance() > radius {
					t.Errorf("cell %d %+v outside radius %d", i, c, radius)
				}

				if c.Distance() < prev {
					t.Errorf("cell %d %+v breaks distance ordering (prev %d)", i, c, prev)
				}

				if seen[c] {
					t.Errorf("duplicate cell %+v", c)
				}

				seen[c] = true
				prev = c.Distance()
			}

			if !cells[0].IsOrigin() {
				t.Errorf("Expected origin first, got %+v", cells[0])
			}
		})
	}
}

func TestGenerate_RadiusZeroAndNegative(t *testing.T) {
	want := []Cell{{0, 0, 0}}

	if diff := cmp.Diff(want, Generate(0)); diff != "" {
		t.Errorf("Generate(0) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want, Generate(-3)); diff != "" {
		t.Errorf("Generate(-3) mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_TieOrderFollowsGeneration(t *testing.T) {
	want := []Cell{
		{0, 0, 0},
		{-1, 0, 1},
		{-1, 1, 0},
		{0, -1, 1},
		{0, 1, -1},
		{1, -1, 0},
		{1, 0, -1},
	}

	if diff := cmp.Diff(want, Generate(1)); diff != "" {
		t.Errorf("Generate(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestRadiusFor(t *testing.T) {
	tests := map[int]int{-1: 0, 0: 0, 1: 1, 2: 2, 3: 2, 4: 2, 5: 3, 9: 3, 10: 4, 37: 7}

	for n, want := range tests {
		if got := RadiusFor(n); got != want {
			t.Errorf("RadiusFor(%d) = %d, want %d", n, got, want)
		}

		if n > 0 && Capacity(RadiusFor(n)) < n {
			t.Errorf("disk for %d keywords is too small", n)
		}
	}
}

func TestLayout_ThreeKeywordScenario(t *testing.T) {
	grid := Layout([]string{"economy", "election", "climate"}, nil)

	if grid.Radius != 2 {
		t.Fatalf("Expected radius 2, got %d", grid.Radius)
	}

	if len(grid.Slots) != 19 {
		t.Fatalf("Expected 19 slots, got %d", len(grid.Slots))
	}

	assigned := grid.Assigned()
	if len(assigned) != 3 {
		t.Fatalf("Expected 3 assigned slots, got %d", len(assigned))
	}

	wantCells := map[string]Cell{
		"economy":  {0, 0, 0},
		"election": {-1, 0, 1},
		"climate":  {-1, 1, 0},
	}

	for kw, want := range wantCells {
		slot, ok := grid.SlotFor(kw)
		if !ok {
			t.Fatalf("keyword %q not placed", kw)
		}

		if slot.Cell != want {
			t.Errorf("%q placed at %+v, want %+v", kw, slot.Cell, want)
		}
	}

	for _, s := range grid.Slots[3:] {
		if s.Assigned() || s.Label != "" {
			t.Errorf("slot %+v should be empty", s.Cell)
		}
	}
}

func TestLayout_EveryKeywordGetsDistinctCell(t *testing.T) {
	for n := 1; n <= 40; n++ {
		keywords := make([]string, n)
		for i := range keywords {
			keywords[i] = fmt.Sprintf("kw%d", i)
		}

		grid := Layout(keywords, nil)
		if len(grid.Slots) < n {
			t.Fatalf("n=%d: only %d slots", n, len(grid.Slots))
		}

		used := make(map[Cell]string)

		for i, kw := range keywords {
			slot := grid.Slots[i]
			if slot.Keyword != kw {
				t.Fatalf("n=%d: slot %d holds %q, want %q", n, i, slot.Keyword, kw)
			}

			if other, dup := used[slot.Cell]; dup {
				t.Fatalf("n=%d: %q and %q share cell %+v", n, kw, other, slot.Cell)
			}

			used[slot.Cell] = kw
		}

		if !grid.Slots[0].IsOrigin() {
			t.Fatalf("n=%d: first keyword not at origin", n)
		}
	}
}

func TestLayout_SelectionFlags(t *testing.T) {
	grid := Layout([]string{"a", "b", "c", "d"}, []string{"c", "a", "missing"})

	want := map[string]bool{"a": true, "b": false, "c": true, "d": false}
	for kw, sel := range want {
		slot, _ := grid.SlotFor(kw)
		if slot.Selected != sel {
			t.Errorf("%q selected = %v, want %v", kw, slot.Selected, sel)
		}
	}
}

func TestLayout_EmptyKeywords(t *testing.T) {
	grid := Layout(nil, nil)

	if grid.Radius != 0 || len(grid.Slots) != 1 {
		t.Fatalf("Expected single empty origin slot, got radius %d with %d slots", grid.Radius, len(grid.Slots))
	}

	if grid.Slots[0].Assigned() {
		t.Error("origin should be empty")
	}
}

func TestLayout_LabelFitting(t *testing.T) {
	grid := Layout([]string{"경제", "international", "기후변화"}, nil)

	tests := []struct {
		keyword   string
		label     string
		font      float64
		truncated bool
	}{
		{"경제", "경제", fontLarge, false},
		{"international", "interna…", fontSmall, true},
		{"기후변화", "기후변화", fontSmall, false},
	}

	for _, tt := range tests {
		slot, ok := grid.SlotFor(tt.keyword)
		if !ok {
			t.Fatalf("%q not placed", tt.keyword)
		}

		if slot.Label != tt.label {
			t.Errorf("%q label = %q, want %q", tt.keyword, slot.Label, tt.label)
		}

		if slot.FontSize != tt.font {
			t.Errorf("%q font = %v, want %v", tt.keyword, slot.FontSize, tt.font)
		}

		if slot.Truncated() != tt.truncated {
			t.Errorf("%q truncated = %v, want %v", tt.keyword, slot.Truncated(), tt.truncated)
		}
	}
}

func TestFontSize_ShrinksWithCount(t *testing.T) {
	tests := []struct {
		count, width int
		want         float64
	}{
		{1, 2, fontLarge},
		{7, 4, fontLarge},
		{8, 4, fontMedium},
		{19, 4, fontMedium},
		{20, 4, fontSmall},
		{3, 5, fontSmall},
	}

	for _, tt := range tests {
		if got := fontSize(tt.count, tt.width); got != tt.want {
			t.Errorf("fontSize(%d, %d) = %v, want %v", tt.count, tt.width, got, tt.want)
		}
	}
}

func TestLayout_Geometry(t *testing.T) {
	grid := Layout([]string{"center"}, nil)
	origin := grid.Slots[0]

	if origin.Center != (Point{}) {
		t.Errorf("origin center = %+v, want (0,0)", origin.Center)
	}

	// Pointy-top: first corner sits at -30 degrees.
	if got := origin.Corners[0]; got.X != 10.39 || got.Y != -6 {
		t.Errorf("first corner = %+v, want {10.39 -6}", got)
	}

	if n := len(strings.Fields(origin.Points())); n != 6 {
		t.Errorf("Expected 6 polygon points, got %d", n)
	}

	vb := grid.ViewBox
	for _, s := range grid.Slots {
		for _, p := range s.Corners {
			if p.X < vb.MinX || p.X > vb.MinX+vb.Width || p.Y < vb.MinY || p.Y > vb.MinY+vb.Height {
				t.Errorf("corner %+v outside viewBox %s", p, vb)
			}
		}
	}
}

func TestRenderText(t *testing.T) {
	grid := Layout([]string{"economy", "election", "climate"}, []string{"election"})
	out := RenderText(grid)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2*grid.Radius+1 {
		t.Fatalf("Expected %d rows, got %d:\n%s", 2*grid.Radius+1, len(lines), out)
	}

	for _, kw := range []string{"economy", "election", "climate"} {
		if !strings.Contains(out, kw) {
			t.Errorf("output missing %q:\n%s", kw, out)
		}
	}

	if strings.Count(out, "·") != len(grid.Slots)-3 {
		t.Errorf("Expected %d empty markers, got %d", len(grid.Slots)-3, strings.Count(out, "·"))
	}
}
