package ldmatrix

import (
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/openvariant/ldindex"
)

func TestSliceThreshold(t *testing.T) {
	src := Slice{
		Entries: []ldindex.MatrixEntry{
			{Row: 0, Col: 0, R: 1.0},
			{Row: 0, Col: 1, R: 0.9},
			{Row: 0, Col: 2, R: 0.3},
			{Row: 2, Col: 1, R: 0.99}, // violates triangular storage
			{Row: 1, Col: 2, R: -0.85},
		},
		MinR2: 0.7,
	}

	got, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}

	// threshold is sqrt(0.7) ~ 0.8367: (0,2) falls below it, (2,1) is
	// malformed, and the negative r entry survives on absolute value
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(got), got)
	}
	for _, e := range got {
		if e.Row > e.Col {
			t.Errorf("emitted lower-triangular entry (%d,%d)", e.Row, e.Col)
		}
		if math.Abs(e.R) < math.Sqrt(0.7) {
			t.Errorf("entry (%d,%d) with r=%f is below threshold", e.Row, e.Col, e.R)
		}
	}
}

func TestSymSource(t *testing.T) {
	m := mat.NewSymDense(3, []float64{
		1.0, 0.9, 0.3,
		0.9, 1.0, 0.85,
		0.3, 0.85, 1.0,
	})

	src, err := NewSymSource(m, 0.7)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}

	// upper triangle only, minus the two 0.3 coefficients
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d: %v", len(got), got)
	}
	for _, e := range got {
		if e.Row > e.Col {
			t.Errorf("emitted lower-triangular entry (%d,%d)", e.Row, e.Col)
		}
	}
}

func TestSymSourceRejectsBadThreshold(t *testing.T) {
	m := mat.NewSymDense(1, []float64{1})

	for _, minR2 := range []float64{0, -0.5, 1.5} {
		if _, err := NewSymSource(m, minR2); err == nil {
			t.Errorf("expected an error for min r² = %f", minR2)
		}
	}
}

func TestTSVSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.tsv")

	contents := "i\tj\tr\n0\t0\t1.0\n0\t1\t0.9\n0\t2\t0.3\n1\t1\t1.0\n1\t2\t0.85\n2\t2\t1.0\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewTSVSource(path, nil, 0.7)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d: %v", len(got), got)
	}

	// restartable: a second pass yields the same entries
	again, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(got) {
		t.Errorf("second pass yielded %d entries, want %d", len(again), len(got))
	}
}

func TestTSVSourceGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.tsv.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	gz.Write([]byte("i\tj\tr\n0\t1\t0.9\n"))
	gz.Close()
	f.Close()

	src, err := NewTSVSource(path, nil, 0.7)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].R != 0.9 {
		t.Fatalf("unexpected entries: %v", got)
	}
}

func TestTSVSourceMissing(t *testing.T) {
	src, err := NewTSVSource(filepath.Join(t.TempDir(), "absent.tsv"), nil, 0.7)
	if err != nil {
		t.Fatal(err)
	}

	if err := src.ForEach(func(ldindex.MatrixEntry) error { return nil }); err == nil {
		t.Error("expected an error for a missing matrix file")
	}
}
