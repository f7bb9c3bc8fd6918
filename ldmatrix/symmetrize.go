package ldmatrix

import (
	"fmt"

	"github.com/openvariant/ldindex"
)

// InvariantViolationError reports physically distinct stored entries sharing
// one (row, col) coordinate. Symmetrize excludes the extra copies from its
// output, so a caller may log this error and keep going, or treat it as
// fatal.
type InvariantViolationError struct {
	Duplicates []ldindex.MatrixEntry
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("ldmatrix: %d duplicate stored entries for already-seen coordinates", len(e.Duplicates))
}

// Symmetrize expands a triangular entry sequence into the full symmetric
// relation: every off-diagonal entry is emitted in both orientations, and
// every diagonal entry exactly once. If the input contains more than one
// stored entry for the same coordinate pair, the first wins and the rest are
// returned inside an *InvariantViolationError alongside the (still valid)
// output.
func Symmetrize(entries []ldindex.MatrixEntry) ([]ldindex.MatrixEntry, error) {
	type coord struct{ row, col uint32 }

	seen := make(map[coord]struct{}, len(entries))
	out := make([]ldindex.MatrixEntry, 0, 2*len(entries))

	var dups []ldindex.MatrixEntry
	for _, e := range entries {
		c := coord{e.Row, e.Col}
		if _, ok := seen[c]; ok {
			dups = append(dups, e)
			continue
		}
		seen[c] = struct{}{}

		out = append(out, e)
		if !e.Diagonal() {
			out = append(out, ldindex.MatrixEntry{Row: e.Col, Col: e.Row, R: e.R})
		}
	}

	if dups != nil {
		return out, &InvariantViolationError{Duplicates: dups}
	}

	return out, nil
}
