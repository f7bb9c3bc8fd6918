package ldmatrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/openvariant/ldindex"
)

// SymSource adapts an in-memory gonum symmetric matrix to the EntrySource
// capability, emitting only the upper triangle. Useful for synthetic matrices
// and for pipelines whose correlations were just computed rather than read
// from storage.
type SymSource struct {
	m     mat.Symmetric
	minR2 float64
}

// NewSymSource wraps m. minR2 must fall in (0, 1].
func NewSymSource(m mat.Symmetric, minR2 float64) (*SymSource, error) {
	if minR2 <= 0 || minR2 > 1 {
		return nil, fmt.Errorf("ldmatrix: min r² must be in (0, 1], got %f", minR2)
	}

	return &SymSource{m: m, minR2: minR2}, nil
}

func (s *SymSource) ForEach(fn func(ldindex.MatrixEntry) error) error {
	n := s.m.Symmetric()

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			e := ldindex.MatrixEntry{Row: uint32(i), Col: uint32(j), R: s.m.At(i, j)}
			if !keep(e, s.minR2) {
				continue
			}

			if err := fn(e); err != nil {
				return err
			}
		}
	}

	return nil
}

// Slice adapts a fixed entry slice to the EntrySource capability, applying
// the same threshold and triangular filtering as the storage-backed sources.
type Slice struct {
	Entries []ldindex.MatrixEntry
	MinR2   float64
}

func (s Slice) ForEach(fn func(ldindex.MatrixEntry) error) error {
	for _, e := range s.Entries {
		if !keep(e, s.MinR2) {
			continue
		}

		if err := fn(e); err != nil {
			return err
		}
	}

	return nil
}
