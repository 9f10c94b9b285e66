// Package sequence plans the renumbering of 1-based, gap-free ordering
// values inside a scope (columns of a board, tickets of a column).
//
// The planners are pure: they describe which sibling range moves and by how
// much, and the storage layer turns each Shift into a single bounded range
// update inside one transaction.
package sequence

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidSequence is returned for a target sequence outside its scope's bounds.
var ErrInvalidSequence = errors.New("invalid sequence")

// Shift moves every sibling whose sequence lies in [Low, High] by Delta.
// The zero Shift moves nothing.
type Shift struct {
	Low   int
	High  int
	Delta int
}

// Empty reports whether the shift touches no rows.
func (s Shift) Empty() bool {
	return s.Delta == 0 || s.Low > s.High
}

// Covers reports whether seq falls inside the shifted range.
func (s Shift) Covers(seq int) bool {
	return !s.Empty() && seq >= s.Low && seq <= s.High
}

// Apply returns seq after the shift.
func (s Shift) Apply(seq int) int {
	if s.Covers(seq) {
		return seq + s.Delta
	}
	return seq
}

// Rows is the number of sibling rows the shift writes when the scope is contiguous.
func (s Shift) Rows() int {
	if s.Empty() {
		return 0
	}
	return s.High - s.Low + 1
}

// ValidatePositive rejects zero and negative targets. It needs no storage
// access and runs before a transaction is opened.
func ValidatePositive(to int) error {
	if to < 1 {
		return fmt.Errorf("%w: %d must be a positive integer", ErrInvalidSequence, to)
	}
	return nil
}

// Validate checks that to lies in [1, count].
func Validate(to, count int) error {
	if err := ValidatePositive(to); err != nil {
		return err
	}
	if to > count {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidSequence, to, count)
	}
	return nil
}

// Reorder plans moving the item at from to to within the same scope. The item
// itself is excluded from the shift and written separately.
func Reorder(from, to int) Shift {
	switch {
	case to < from:
		return Shift{Low: to, High: from - 1, Delta: 1}
	case to > from:
		return Shift{Low: from + 1, High: to, Delta: -1}
	default:
		return Shift{}
	}
}

// Insert plans making room at position at in a scope holding count items.
func Insert(at, count int) Shift {
	return Shift{Low: at, High: count, Delta: 1}
}

// Item is the ordering view of a row.
type Item struct {
	ID       string
	Sequence int
}

// Renumber returns the assignments that turn items into 1..n while keeping
// their relative order. Only rows whose value changes are returned.
func Renumber(items []Item) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	var changes []Item
	for i, item := range ordered {
		if item.Sequence != i+1 {
			changes = append(changes, Item{ID: item.ID, Sequence: i + 1})
		}
	}
	return changes
}

// Contiguous reports whether the sequences form exactly {1..n}.
func Contiguous(items []Item) bool {
	seen := make([]bool, len(items)+1)
	for _, item := range items {
		if item.Sequence < 1 || item.Sequence > len(items) || seen[item.Sequence] {
			return false
		}
		seen[item.Sequence] = true
	}
	return true
}
