package tableview

import "slices"

// sortIndex maps sorted positions to source rows
// and source rows back to sorted positions.
type sortIndex struct {
	sorted  []int
	inverse []int
}

// reset makes the index the identity permutation of numRows rows.
func (idx *sortIndex) reset(numRows int) {
	idx.sorted = slices.Grow(idx.sorted[:0], numRows)[:numRows]
	idx.inverse = slices.Grow(idx.inverse[:0], numRows)[:numRows]
	for i := range idx.sorted {
		idx.sorted[i] = i
		idx.inverse[i] = i
	}
}

func (idx *sortIndex) len() int {
	return len(idx.sorted)
}

type sortEntry struct {
	value any
	row   int
}

// sortBy orders the rows of the index by the values returned by value.
// The sort is stable for ascending order, descending order
// is the exact reverse of the ascending order.
func (idx *sortIndex) sortBy(value func(row int) any, numeric, caseSensitive, ascending bool) {
	entries := make([]sortEntry, len(idx.sorted))
	for i, row := range idx.sorted {
		v := Deref(value(row))
		if numeric && !IsNil(v) {
			v = coerceNumber(v)
		}
		entries[i] = sortEntry{value: v, row: row}
	}

	// Numbers are already coerced
	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		return Compare(a.value, b.value, false, caseSensitive)
	})

	last := len(entries) - 1
	for i, e := range entries {
		pos := i
		if !ascending {
			pos = last - i
		}
		idx.sorted[pos] = e.row
		idx.inverse[e.row] = pos
	}
}

// isPermutation checks that sorted contains every row exactly once
// and that inverse is its inverse.
func (idx *sortIndex) isPermutation() bool {
	if len(idx.sorted) != len(idx.inverse) {
		return false
	}
	seen := make([]bool, len(idx.sorted))
	for pos, row := range idx.sorted {
		if row < 0 || row >= len(seen) || seen[row] || idx.inverse[row] != pos {
			return false
		}
		seen[row] = true
	}
	return true
}
