package ldmatrix

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/openvariant/ldindex"
)

func makeMatrixDB(t *testing.T, entries []ldindex.MatrixEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "matrix.db")

	db, err := sqlx.Connect("sqlite3", "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE entries (row INTEGER NOT NULL, col INTEGER NOT NULL, r REAL NOT NULL)`); err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		if _, err := db.Exec(`INSERT INTO entries (row, col, r) VALUES (?, ?, ?)`, e.Row, e.Col, e.R); err != nil {
			t.Fatal(err)
		}
	}

	return path
}

func TestSQLiteSource(t *testing.T) {
	path := makeMatrixDB(t, []ldindex.MatrixEntry{
		{Row: 0, Col: 0, R: 1.0},
		{Row: 0, Col: 1, R: 0.9},
		{Row: 0, Col: 2, R: 0.3},
		{Row: 1, Col: 1, R: 1.0},
		{Row: 1, Col: 2, R: 0.85},
		{Row: 2, Col: 2, R: 1.0},
	})

	src, err := NewSQLiteSource(path, "", 0.7)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}

	// (0,2) falls below the sqrt(0.7) threshold
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d: %v", len(got), got)
	}

	// restartable
	again, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 5 {
		t.Errorf("second pass yielded %d entries, want 5", len(again))
	}
}

func TestSQLiteSourceMissing(t *testing.T) {
	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "absent.db"), "", 0.7)
	if err != nil {
		t.Fatal(err)
	}

	if err := src.ForEach(func(ldindex.MatrixEntry) error { return nil }); err == nil {
		t.Error("expected an error for a missing matrix database")
	}
}
