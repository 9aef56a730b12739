package keywords

import "slices"

// DefaultMaxSelected is the number of keywords that can be active at once.
// No selection holds more.
const DefaultMaxSelected = 3

// ToggleResult describes what a Toggle did.
type ToggleResult int

// Toggle outcomes.
const (
	Rejected ToggleResult = iota
	Added
	Removed
)

// String returns the outcome name.
func (r ToggleResult) String() string {
	switch r {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "rejected"
	}
}

// Changed reports whether the selection differs after the toggle.
func (r ToggleResult) Changed() bool {
	return r != Rejected
}

// Selection is the ordered set of keywords currently toggled on. Order
// follows toggle sequence, not grid position.
type Selection struct {
	items []string
	limit int
}

// NewSelection returns an empty selection holding at most limit keywords.
// A limit outside 1..DefaultMaxSelected falls back to DefaultMaxSelected.
func NewSelection(limit int) Selection {
	if limit <= 0 || limit > DefaultMaxSelected {
		limit = DefaultMaxSelected
	}

	return Selection{limit: limit}
}

// Limit returns the maximum size.
func (s Selection) Limit() int {
	if s.limit <= 0 || s.limit > DefaultMaxSelected {
		return DefaultMaxSelected
	}

	return s.limit
}

// Len returns the number of selected keywords.
func (s Selection) Len() int {
	return len(s.items)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.items) == 0
}

// IsFull reports whether another keyword would be rejected.
func (s Selection) IsFull() bool {
	return len(s.items) >= s.Limit()
}

// Items returns a copy of the selected keywords in toggle order.
func (s Selection) Items() []string {
	return slices.Clone(s.items)
}

// Contains reports whether kw is selected.
func (s Selection) Contains(kw string) bool {
	return slices.Contains(s.items, kw)
}

// Toggle removes kw when selected, otherwise adds it if there is room.
// Adding to a full selection is a no-op reported as Rejected.
func (s Selection) Toggle(kw string) (Selection, ToggleResult) {
	if i := slices.Index(s.items, kw); i >= 0 {
		return Selection{items: slices.Delete(slices.Clone(s.items), i, i+1), limit: s.limit}, Removed
	}

	if s.IsFull() {
		return s, Rejected
	}

	items := make([]string, 0, len(s.items)+1)
	items = append(items, s.items...)
	items = append(items, kw)

	return Selection{items: items, limit: s.limit}, Added
}
