package dataset

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/openvariant/ldindex"
)

// LDIndexSchema is the expected shape of the persisted LD index artifact.
var LDIndexSchema = Schema{Fields: []Field{
	{Name: "variant_id_i", Type: TypeString},
	{Name: "variant_id_j", Type: TypeString},
	{Name: "r", Type: TypeFloat},
	{Name: "population", Type: TypeString},
}}

// LDIndexTable is the LD index as a schema-validated tabular value. Every
// transform returns a new table; nothing rebinds or mutates the rows of an
// existing one.
type LDIndexTable struct {
	entries []ldindex.ResolvedLDEntry
}

// NewLDIndexTable validates the record shape against LDIndexSchema and wraps
// the entries. The slice is not copied; callers hand over ownership.
func NewLDIndexTable(entries []ldindex.ResolvedLDEntry) (*LDIndexTable, error) {
	if err := LDIndexSchema.Validate(ldindex.ResolvedLDEntry{}); err != nil {
		return nil, err
	}

	return &LDIndexTable{entries: entries}, nil
}

// Entries returns the rows. The returned slice must be treated as read-only.
func (t *LDIndexTable) Entries() []ldindex.ResolvedLDEntry {
	return t.entries
}

// Len returns the row count.
func (t *LDIndexTable) Len() int {
	return len(t.entries)
}

// Filter returns a new table holding the rows for which pred is true. The
// receiver is unchanged.
func (t *LDIndexTable) Filter(pred func(ldindex.ResolvedLDEntry) bool) *LDIndexTable {
	kept := make([]ldindex.ResolvedLDEntry, 0, len(t.entries))
	for _, e := range t.entries {
		if pred(e) {
			kept = append(kept, e)
		}
	}

	return &LDIndexTable{entries: kept}
}

// WriteTSV persists the table as tab-delimited text with a header row.
func (t *LDIndexTable) WriteTSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := gocsv.MarshalCSV(t.entries, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// LoadTSV reads a persisted artifact back into a validated table.
func LoadTSV(r io.Reader) (*LDIndexTable, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = '\t'

	entries := []ldindex.ResolvedLDEntry{}
	if err := gocsv.UnmarshalCSV(rdr, &entries); err != nil {
		return nil, pfx.Err(err)
	}

	return NewLDIndexTable(entries)
}
