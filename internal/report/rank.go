package report

import "sort"

// Comparator orders two rows: negative when a sorts before b, zero on a tie.
type Comparator[T any] func(a, b T) int

// SortStable sorts rows in place by the primary comparator, breaking primary
// ties with the secondary. Rows tied on both keep their original relative
// order, so the full ordering is deterministic for any input.
func SortStable[T any](rows []T, primary, secondary Comparator[T]) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := primary(rows[i], rows[j]); c != 0 {
			return c < 0
		}
		if secondary == nil {
			return false
		}
		return secondary(rows[i], rows[j]) < 0
	})
}

// TopN truncates an already sorted sequence to its first n elements.
// n ≤ 0 yields an empty sequence; n beyond the length yields everything.
func TopN[T any](rows []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n >= len(rows) {
		return rows
	}
	return rows[:n]
}
