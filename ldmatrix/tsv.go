package ldmatrix

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"

	"github.com/openvariant/ldindex"
)

// TSVSource reads triangular matrix entries from a delimited text dump with a
// header naming the i (row), j (col), and r columns. This is the layout
// produced when a block matrix's entries are exported to text. The file may
// be compressed and may live on Google Storage.
type TSVSource struct {
	path   string
	client *storage.Client
	minR2  float64
}

// NewTSVSource prepares a source over a local or gs:// entry dump. minR2 must
// fall in (0, 1]. The file is not touched until ForEach runs, and each
// ForEach re-reads it from the top.
func NewTSVSource(path string, client *storage.Client, minR2 float64) (*TSVSource, error) {
	if minR2 <= 0 || minR2 > 1 {
		return nil, fmt.Errorf("ldmatrix: min r² must be in (0, 1], got %f", minR2)
	}

	return &TSVSource{path: path, client: client, minR2: minR2}, nil
}

func (s *TSVSource) ForEach(fn func(ldindex.MatrixEntry) error) error {
	data, err := ldindex.ReadAllMaybeCompressed(s.path, s.client)
	if err != nil {
		return pfx.Err(fmt.Errorf("%w: %s: %s", ErrMatrixUnreadable, s.path, err))
	}

	rdr := csv.NewReader(bytes.NewReader(data))
	rdr.Comma = ldindex.DetermineDelimiter(data)

	header, err := rdr.Read()
	if err != nil {
		return pfx.Err(fmt.Errorf("%w: %s: %s", ErrMatrixUnreadable, s.path, err))
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, want := range []string{"i", "j", "r"} {
		if _, ok := cols[want]; !ok {
			return pfx.Err(fmt.Errorf("%w: %s: missing column %q", ErrMatrixUnreadable, s.path, want))
		}
	}

	for {
		line, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return pfx.Err(fmt.Errorf("%w: %s: %s", ErrMatrixUnreadable, s.path, err))
		}

		e, err := parseEntry(line, cols)
		if err != nil {
			return pfx.Err(fmt.Errorf("%w: %s: %s", ErrMatrixUnreadable, s.path, err))
		}

		if !keep(e, s.minR2) {
			continue
		}

		if err := fn(e); err != nil {
			return err
		}
	}

	return nil
}

func parseEntry(line []string, cols map[string]int) (ldindex.MatrixEntry, error) {
	row, err := strconv.ParseUint(line[cols["i"]], 10, 32)
	if err != nil {
		return ldindex.MatrixEntry{}, err
	}

	col, err := strconv.ParseUint(line[cols["j"]], 10, 32)
	if err != nil {
		return ldindex.MatrixEntry{}, err
	}

	r, err := strconv.ParseFloat(line[cols["r"]], 64)
	if err != nil {
		return ldindex.MatrixEntry{}, err
	}

	return ldindex.MatrixEntry{Row: uint32(row), Col: uint32(col), R: r}, nil
}
