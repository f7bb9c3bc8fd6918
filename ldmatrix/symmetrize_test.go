package ldmatrix

import (
	"errors"
	"testing"

	"github.com/openvariant/ldindex"
)

func TestSymmetrize(t *testing.T) {
	in := []ldindex.MatrixEntry{
		{Row: 0, Col: 0, R: 1.0},
		{Row: 0, Col: 1, R: 0.9},
		{Row: 1, Col: 1, R: 1.0},
		{Row: 1, Col: 2, R: 0.85},
		{Row: 2, Col: 2, R: 1.0},
	}

	out, err := Symmetrize(in)
	if err != nil {
		t.Fatal(err)
	}

	// 3 diagonal entries once each + 2 off-diagonal entries mirrored
	if len(out) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(out))
	}

	type coord struct{ row, col uint32 }
	got := make(map[coord]float64)
	for _, e := range out {
		if _, ok := got[coord{e.Row, e.Col}]; ok {
			t.Errorf("coordinate (%d,%d) emitted more than once", e.Row, e.Col)
		}
		got[coord{e.Row, e.Col}] = e.R
	}

	// Every off-diagonal entry must appear in both orientations with the
	// same r
	for _, e := range out {
		if e.Diagonal() {
			continue
		}

		mirror, ok := got[coord{e.Col, e.Row}]
		if !ok {
			t.Errorf("missing mirror of (%d,%d)", e.Row, e.Col)
		} else if mirror != e.R {
			t.Errorf("mirror of (%d,%d) has r=%f, want %f", e.Row, e.Col, mirror, e.R)
		}
	}

	for _, want := range []coord{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {1, 0}, {1, 2}, {2, 1}} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing entry (%d,%d)", want.row, want.col)
		}
	}
}

func TestSymmetrizeDuplicateCoordinates(t *testing.T) {
	in := []ldindex.MatrixEntry{
		{Row: 0, Col: 1, R: 0.9},
		{Row: 0, Col: 1, R: 0.5},
		{Row: 1, Col: 1, R: 1.0},
	}

	out, err := Symmetrize(in)

	var violation *InvariantViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected an InvariantViolationError, got %v", err)
	}
	if len(violation.Duplicates) != 1 || violation.Duplicates[0].R != 0.5 {
		t.Errorf("unexpected duplicates: %v", violation.Duplicates)
	}

	// The output is still usable: first entry wins, duplicate dropped
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	for _, e := range out {
		if e.Row == 0 && e.Col == 1 && e.R != 0.9 {
			t.Errorf("first stored entry should win, got r=%f", e.R)
		}
	}
}

func TestSymmetrizeEmpty(t *testing.T) {
	out, err := Symmetrize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d entries", len(out))
	}
}
