// Package ldmatrix reads triangular LD correlation matrices from their
// storage backends and expands them into the full symmetric relation. The
// resolution pipeline depends only on the EntrySource capability, never on a
// particular storage engine.
package ldmatrix

import (
	"errors"
	"math"

	"github.com/openvariant/ldindex"
)

// ErrMatrixUnreadable indicates the matrix storage could not be opened or
// read. Errors returned by sources wrap this so callers can classify the
// failure with errors.Is.
var ErrMatrixUnreadable = errors.New("ldmatrix: matrix unreadable")

// EntrySource yields the stored triangular entries of one population's LD
// matrix whose r² meets the source's threshold. The sequence is finite and
// restartable: every call to ForEach re-reads storage from the top. Entries
// with Row > Col are never emitted.
type EntrySource interface {
	ForEach(fn func(ldindex.MatrixEntry) error) error
}

// keep reports whether a stored entry survives the r² threshold and the
// triangular storage assumption. minR2 is expressed as r², so the comparison
// is against sqrt(minR2).
func keep(e ldindex.MatrixEntry, minR2 float64) bool {
	if e.Row > e.Col {
		return false
	}

	return math.Abs(e.R) >= math.Sqrt(minR2)
}

// Collect drains a source into a slice.
func Collect(src EntrySource) ([]ldindex.MatrixEntry, error) {
	out := make([]ldindex.MatrixEntry, 0)

	err := src.ForEach(func(e ldindex.MatrixEntry) error {
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
