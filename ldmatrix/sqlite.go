package ldmatrix

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/openvariant/ldindex"
)

// DefaultEntryTable is the table SQLiteSource reads when none is named.
const DefaultEntryTable = "entries"

// SQLiteSource reads triangular matrix entries from a SQLite database holding
// one row per stored coefficient (columns: row, col, r). The database is
// opened per ForEach call, so the source is restartable and an unreadable
// store surfaces during the pipeline run rather than at construction.
type SQLiteSource struct {
	path  string
	table string
	minR2 float64
}

type sqliteEntry struct {
	Row uint32  `db:"row"`
	Col uint32  `db:"col"`
	R   float64 `db:"r"`
}

// NewSQLiteSource prepares a read-only source over the matrix database. minR2
// is the minimum r² an entry must reach to be emitted; it must fall in
// (0, 1].
func NewSQLiteSource(path string, table string, minR2 float64) (*SQLiteSource, error) {
	if minR2 <= 0 || minR2 > 1 {
		return nil, fmt.Errorf("ldmatrix: min r² must be in (0, 1], got %f", minR2)
	}

	if table == "" {
		table = DefaultEntryTable
	}

	return &SQLiteSource{path: path, table: table, minR2: minR2}, nil
}

// ForEach streams the stored entries meeting the threshold, in (row, col)
// order. The threshold is pushed down into the query; the triangular
// assumption is still enforced here in case the store is malformed.
func (s *SQLiteSource) ForEach(fn func(ldindex.MatrixEntry) error) error {
	path := s.path

	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path+"?mode=ro")
	if err != nil {
		return pfx.Err(fmt.Errorf("%w: %s", ErrMatrixUnreadable, err))
	}
	defer db.Close()

	q := fmt.Sprintf("SELECT row, col, r FROM %s WHERE abs(r) >= ? ORDER BY row, col", s.table)

	rows, err := db.Queryx(q, math.Sqrt(s.minR2))
	if err != nil {
		return pfx.Err(fmt.Errorf("%w: %s", ErrMatrixUnreadable, err))
	}
	defer rows.Close()

	for rows.Next() {
		var rec sqliteEntry
		if err := rows.StructScan(&rec); err != nil {
			return pfx.Err(fmt.Errorf("%w: %s", ErrMatrixUnreadable, err))
		}

		e := ldindex.MatrixEntry{Row: rec.Row, Col: rec.Col, R: rec.R}
		if !keep(e, s.minR2) {
			continue
		}

		if err := fn(e); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return pfx.Err(fmt.Errorf("%w: %s", ErrMatrixUnreadable, err))
	}

	return nil
}
