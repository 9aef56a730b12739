package hexgrid

import (
	"fmt"
	"math"
	"strings"

	"hexnews/pkg/utils"
)

// Pixel geometry of a pointy-top layout.
const (
	DefaultSize    = 12.0
	DefaultSpacing = 1.1
)

// Font sizes in viewBox units.
const (
	fontLarge  = 5.5
	fontMedium = 4.5
	fontSmall  = 3.5
)

// Labels at least this wide (in display columns) always use the small font.
const longLabelWidth = 5

var sqrt3 = math.Sqrt(3)

// Point is a position in viewBox units.
type Point struct {
	X float64
	Y float64
}

// Slot is a cell of the rendered grid. Slots without a keyword are
// drawn empty and cannot be clicked.
type Slot struct {
	Keyword  string
	Label    string
	Corners  [6]Point
	Center   Point
	FontSize float64
	Cell
	Selected bool
}

// Assigned reports whether a keyword occupies the slot.
func (s Slot) Assigned() bool {
	return s.Keyword != ""
}

// Points formats the corners for an SVG polygon.
func (s Slot) Points() string {
	parts := make([]string, len(s.Corners))
	for i, p := range s.Corners {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}

	return strings.Join(parts, " ")
}

// Truncated reports whether the label is shorter than the keyword.
func (s Slot) Truncated() bool {
	return s.Label != s.Keyword
}

// ViewBox is the SVG viewport covering every slot.
type ViewBox struct {
	MinX   float64
	MinY   float64
	Width  float64
	Height float64
}

// String formats the box for an SVG viewBox attribute.
func (v ViewBox) String() string {
	return fmt.Sprintf("%.2f %.2f %.2f %.2f", v.MinX, v.MinY, v.Width, v.Height)
}

// Grid is a laid-out keyword disk.
type Grid struct {
	Slots   []Slot
	ViewBox ViewBox
	Radius  int
}

// Assigned returns the slots holding keywords, in placement order.
func (g Grid) Assigned() []Slot {
	var out []Slot

	for _, s := range g.Slots {
		if s.Assigned() {
			out = append(out, s)
		}
	}

	return out
}

// SlotFor returns the slot holding keyword.
func (g Grid) SlotFor(keyword string) (Slot, bool) {
	for _, s := range g.Slots {
		if s.Keyword == keyword {
			return s, true
		}
	}

	return Slot{}, false
}

// Options tunes the pixel geometry.
type Options struct {
	Size    float64
	Spacing float64
}

// Layout places keywords on the smallest disk that holds them all, using
// the default geometry. The first keyword takes the center cell and the
// rest follow in distance order. Selected keywords are flagged.
func Layout(keywords, selected []string) Grid {
	return LayoutWithOptions(keywords, selected, Options{Size: DefaultSize, Spacing: DefaultSpacing})
}

// LayoutWithOptions is Layout with explicit geometry.
func LayoutWithOptions(keywords, selected []string, opts Options) Grid {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}

	if opts.Spacing <= 0 {
		opts.Spacing = DefaultSpacing
	}

	isSelected := make(map[string]bool, len(selected))
	for _, kw := range selected {
		isSelected[kw] = true
	}

	radius := RadiusFor(len(keywords))
	cells := Generate(radius)
	strs := utils.NewStringHelper()

	grid := Grid{Radius: radius, Slots: make([]Slot, len(cells))}

	for i, cell := range cells {
		center := pixelCenter(cell, opts)
		slot := Slot{
			Cell:    cell,
			Center:  center,
			Corners: corners(center, opts.Size),
		}

		if i < len(keywords) {
			kw := keywords[i]
			slot.Keyword = kw
			slot.Selected = isSelected[kw]
			slot.FontSize = fontSize(len(keywords), strs.DisplayWidth(kw))
			slot.Label = strs.TruncateString(kw, labelBudget(opts.Size, slot.FontSize))
		}

		grid.Slots[i] = slot
	}

	grid.ViewBox = bounds(grid.Slots)

	return grid
}

// fontSize shrinks labels as the grid fills up.
func fontSize(count, labelWidth int) float64 {
	size := fontLarge

	switch {
	case count > 19:
		size = fontSmall
	case count > 7:
		size = fontMedium
	}

	if labelWidth >= longLabelWidth {
		size = min(size, fontSmall)
	}

	return size
}

// labelBudget is how many display columns fit across a cell at the given
// font size. One column is roughly 0.6em.
func labelBudget(size, font float64) int {
	inner := sqrt3 * size * 0.9

	return int(math.Floor(inner / (font * 0.6)))
}

func pixelCenter(c Cell, opts Options) Point {
	x := opts.Size * (sqrt3*float64(c.Q) + sqrt3/2*float64(c.R))
	y := opts.Size * (1.5 * float64(c.R))

	return Point{X: x * opts.Spacing, Y: y * opts.Spacing}
}

func corners(center Point, size float64) [6]Point {
	var pts [6]Point

	for i := range pts {
		angle := math.Pi / 180 * float64(60*i-30)
		pts[i] = Point{
			X: round2(center.X + size*math.Cos(angle)),
			Y: round2(center.Y + size*math.Sin(angle)),
		}
	}

	return pts
}

func bounds(slots []Slot) ViewBox {
	if len(slots) == 0 {
		return ViewBox{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, s := range slots {
		for _, p := range s.Corners {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}

	const pad = 2.0

	return ViewBox{
		MinX:   round2(minX - pad),
		MinY:   round2(minY - pad),
		Width:  round2(maxX - minX + 2*pad),
		Height: round2(maxY - minY + 2*pad),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
