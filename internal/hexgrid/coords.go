// Package hexgrid lays keyword labels out on a hexagonal disk.
//
// Cells use axial (cube) coordinates: every cell satisfies q+r+s = 0 and its
// distance from the origin is max(|q|, |r|, |s|). Keywords are placed center
// first, then outward ring by ring.
package hexgrid

import (
	"math"
	"sort"
)

// Cell is one slot of the hexagonal tiling.
type Cell struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// Distance returns the hex distance from the origin.
func (c Cell) Distance() int {
	return max(abs(c.Q), abs(c.R), abs(c.S))
}

// IsOrigin reports whether c is the center cell.
func (c Cell) IsOrigin() bool {
	return c.Q == 0 && c.R == 0 && c.S == 0
}

// Generate returns every cell within radius of the origin, ordered by
// ascending distance. Cells at the same distance keep generation order
// (q outer, r inner). A negative radius is treated as zero.
func Generate(radius int) []Cell {
	radius = max(radius, 0)

	cells := make([]Cell, 0, Capacity(radius))
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			s := -q - r
			if abs(s) <= radius {
				cells = append(cells, Cell{Q: q, R: r, S: s})
			}
		}
	}

	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].Distance() < cells[j].Distance()
	})

	return cells
}

// Capacity returns the number of cells in a disk of the given radius.
func Capacity(radius int) int {
	if radius < 0 {
		return 0
	}

	return 3*radius*radius + 3*radius + 1
}

// RadiusFor returns the radius used to hold n keywords: ceil(sqrt(n)).
// The resulting disk always has at least n cells.
func RadiusFor(n int) int {
	if n <= 0 {
		return 0
	}

	return int(math.Ceil(math.Sqrt(float64(n))))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
